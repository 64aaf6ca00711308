package trigger

import (
	"github.com/sarchlab/microcotb/sched"
	"github.com/sarchlab/microcotb/signal"
)

// Edge waits for a signal to reach a level after having been seen at the
// other level. An edge is primed once the signal is seen away from the
// target level, and fires the first time it is then seen at the target
// level. Waiting again for the same edge right after it fired therefore
// needs the signal to move first.
type Edge struct {
	signal signal.Signal
	high   bool
	primed bool
}

// RisingEdge waits for sig to go from 0 to 1.
func RisingEdge(sig signal.Signal) *Edge {
	return &Edge{signal: sig, high: true}
}

// FallingEdge waits for sig to go from 1 to 0.
func FallingEdge(sig signal.Signal) *Edge {
	return &Edge{signal: sig, high: false}
}

// Rising reports whether the edge is a rising edge.
func (e *Edge) Rising() bool {
	return e.high
}

// Primed reports whether the edge has seen the signal at the non-target level.
func (e *Edge) Primed() bool {
	return e.primed
}

// Prepare arms the edge from the signal's current level.
func (e *Edge) Prepare() {
	e.primed = signal.IsHigh(e.signal) != e.high
}

// ConditionsMet polls the signal once and reports whether the edge fired.
func (e *Edge) ConditionsMet() bool {
	atTarget := signal.IsHigh(e.signal) == e.high

	if !e.primed {
		if !atTarget {
			e.primed = true
		}

		return false
	}

	return atTarget
}

// Wait arms the edge, then advances the time by the shortest half period
// until the edge fires. Nothing else ends the wait: an edge on a signal
// that never moves only returns once the test's timeout is reached, so such
// tests need WithTimeout.
func (e *Edge) Wait(ctx *sched.Context) error {
	step, ok := ctx.Step()
	if !ok {
		return ErrNoClockRunning
	}

	e.Prepare()

	for !e.ConditionsMet() {
		if err := ctx.Advance(step); err != nil {
			return err
		}
	}

	return nil
}
