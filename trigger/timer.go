package trigger

import (
	"fmt"

	"github.com/sarchlab/microcotb/sched"
	"github.com/sarchlab/microcotb/timing"
)

// Timer waits for a fixed amount of virtual time.
type Timer struct {
	duration timing.TimeValue
}

// NewTimer creates a Timer.
func NewTimer(duration float64, unit timing.Unit) *Timer {
	return &Timer{duration: timing.New(duration, unit)}
}

// NewTimerFor creates a Timer from a TimeValue.
func NewTimerFor(d timing.TimeValue) *Timer {
	return &Timer{duration: d}
}

// Duration returns how long the timer waits.
func (t *Timer) Duration() timing.TimeValue {
	return t.duration
}

// Wait advances the time by the duration. With clocks running, the time moves
// in steps of the shortest half period so every clock toggles on time. With no
// clocks the time jumps in one go. A negative duration fails with
// ErrNegativeDuration and leaves the time alone.
func (t *Timer) Wait(ctx *sched.Context) error {
	if t.duration.Magnitude() < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeDuration, t.duration)
	}

	step, ok := ctx.Step()
	if !ok {
		return ctx.Advance(t.duration)
	}

	return advanceUntil(ctx, ctx.Now().Add(t.duration), step)
}
