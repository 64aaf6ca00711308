package trigger

import (
	"fmt"

	"github.com/sarchlab/microcotb/sched"
	"github.com/sarchlab/microcotb/signal"
)

// ClockCycles waits for a number of cycles of the clock driving a signal.
type ClockCycles struct {
	signal signal.Signal
	cycles int
	rising bool
}

// NewClockCycles waits for n cycles counted on rising edges.
func NewClockCycles(sig signal.Signal, n int) *ClockCycles {
	return &ClockCycles{signal: sig, cycles: n, rising: true}
}

// NewFallingClockCycles waits for n cycles counted on falling edges.
func NewFallingClockCycles(sig signal.Signal, n int) *ClockCycles {
	return &ClockCycles{signal: sig, cycles: n, rising: false}
}

// Cycles returns the number of cycles to wait.
func (c *ClockCycles) Cycles() int {
	return c.cycles
}

// Transitions returns how many clock toggles the wait spans from the
// signal's current level. When the signal already sits at the level of the
// counted edge, the current half period counts toward the first cycle.
func (c *ClockCycles) Transitions() int {
	n := 2 * c.cycles
	if signal.IsHigh(c.signal) == c.rising {
		n--
	}

	return n
}

// Wait advances the time by the number of half periods of the signal's clock
// given by Transitions.
func (c *ClockCycles) Wait(ctx *sched.Context) error {
	clk, ok := ctx.Clocks().Get(c.signal)
	if !ok {
		return fmt.Errorf("%w: signal %d", ErrNoClockForSignal, c.signal.ID())
	}

	if c.cycles <= 0 {
		return nil
	}

	step, _ := ctx.Step()
	target := ctx.Now().Add(clk.HalfPeriod().Mul(float64(c.Transitions())))

	return advanceUntil(ctx, target, step)
}

// Tick runs the cycles on the signal's clock immediately, without moving the
// virtual time or catching up other clocks.
func (c *ClockCycles) Tick(ctx *sched.Context) error {
	clk, ok := ctx.Clocks().Get(c.signal)
	if !ok {
		return fmt.Errorf("%w: signal %d", ErrNoClockForSignal, c.signal.ID())
	}

	for i := 0; i < c.cycles; i++ {
		clk.Tick()
	}

	return nil
}
