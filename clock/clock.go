// Package clock provides periodic clocks that drive signals as virtual time
// advances.
package clock

import (
	"fmt"
	"log"

	"github.com/sarchlab/microcotb/signal"
	"github.com/sarchlab/microcotb/timing"
)

// primeEpsilon is how far, in units one step finer than the half period,
// the first toggle is pulled ahead of the first half period.
const primeEpsilon = 5

// A Clock toggles a signal every half period of virtual time. It never runs
// on its own. The registry it is started in pulls it forward whenever the
// virtual time advances.
type Clock struct {
	signal     signal.Signal
	halfPeriod timing.TimeValue
	nextToggle timing.TimeValue
	level      uint64
	toggles    uint64
}

// New creates a clock with the given full period. The clock does nothing until
// it is started.
func New(sig signal.Signal, period float64, unit timing.Unit) *Clock {
	if period <= 0 {
		log.Panicf("clock period must be positive, got %v", period)
	}

	c := &Clock{
		signal:     sig,
		halfPeriod: timing.New(period/2, unit),
	}
	c.nextToggle = firstToggle(c.halfPeriod)

	return c
}

// firstToggle lands strictly before one half period, so that stepping the
// virtual time by exactly one half period always produces the toggle.
func firstToggle(half timing.TimeValue) timing.TimeValue {
	finer, ok := half.StepDown()
	if !ok {
		return half.Mul(1 - float64(primeEpsilon)/1000)
	}

	epsilon := min(float64(primeEpsilon), finer.Magnitude()/2)

	return finer.Sub(timing.New(epsilon, finer.Unit()))
}

// Start registers the clock with r and drives the signal to the clock's
// current level.
func (c *Clock) Start(r *Registry) {
	c.signal.SetValue(c.level)
	r.Start(c)
}

// Signal returns the signal the clock drives.
func (c *Clock) Signal() signal.Signal {
	return c.signal
}

// Period returns the full period.
func (c *Clock) Period() timing.TimeValue {
	return c.halfPeriod.Mul(2)
}

// HalfPeriod returns the time between two toggles.
func (c *Clock) HalfPeriod() timing.TimeValue {
	return c.halfPeriod
}

// NextToggle returns the virtual time of the next toggle.
func (c *Clock) NextToggle() timing.TimeValue {
	return c.nextToggle
}

// Level returns the level the clock last drove.
func (c *Clock) Level() uint64 {
	return c.level
}

// ToggleCount returns how many times the clock has toggled.
func (c *Clock) ToggleCount() uint64 {
	return c.toggles
}

// NumEventsIn returns how many toggles fit in d.
func (c *Clock) NumEventsIn(d timing.TimeValue) float64 {
	return d.Div(c.halfPeriod)
}

// Toggle flips the level and drives it onto the signal.
func (c *Clock) Toggle() {
	c.level ^= 1
	c.toggles++
	c.signal.SetValue(c.level)
}

// Tick runs one full period immediately, ending at the starting level.
// Virtual time is not involved.
func (c *Clock) Tick() {
	c.Toggle()
	c.Toggle()
}

// TimeIsNow toggles the clock as many times as needed to catch up with now.
func (c *Clock) TimeIsNow(now timing.TimeValue) {
	for c.nextToggle.Less(now) {
		c.Toggle()
		c.nextToggle = c.nextToggle.Add(c.halfPeriod)
	}
}

func (c *Clock) String() string {
	return fmt.Sprintf("Clock(%s on signal %d)", c.Period(), c.signal.ID())
}
