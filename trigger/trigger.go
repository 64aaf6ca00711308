// Package trigger provides the waits a test body uses to let virtual time
// pass: Timer, ClockCycles, RisingEdge and FallingEdge.
//
// A wait does not suspend anything. It advances the virtual time of the
// context, one shortest half period at a time, until its condition holds, and
// only then returns.
package trigger

import (
	"errors"

	"github.com/sarchlab/microcotb/sched"
	"github.com/sarchlab/microcotb/timing"
)

var (
	// ErrNoClockForSignal is returned when a wait counts cycles of a signal
	// that no clock drives.
	ErrNoClockForSignal = errors.New("trigger: no clock running on signal")

	// ErrNoClockRunning is returned when a wait needs a step size but no
	// clock is running at all.
	ErrNoClockRunning = errors.New("trigger: no clock running")

	// ErrNegativeDuration is returned by a Timer asked to wait a negative
	// amount of time.
	ErrNegativeDuration = errors.New("trigger: negative duration")
)

// A Trigger is something a test can wait for.
type Trigger interface {
	Wait(ctx *sched.Context) error
}

var _ sched.Waiter = Trigger(nil)

// advanceUntil steps the time until it reaches target.
func advanceUntil(
	ctx *sched.Context,
	target timing.TimeValue,
	step timing.TimeValue,
) error {
	for ctx.Now().Less(target) {
		if err := ctx.Advance(step); err != nil {
			return err
		}
	}

	return nil
}

type combined []Trigger

// Combine returns a trigger that waits for each of triggers in turn.
func Combine(triggers ...Trigger) Trigger {
	return combined(triggers)
}

func (c combined) Wait(ctx *sched.Context) error {
	for _, t := range c {
		if err := t.Wait(ctx); err != nil {
			return err
		}
	}

	return nil
}
