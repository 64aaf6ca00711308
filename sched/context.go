// Package sched ties the virtual clock and the running periodic clocks of a
// test together into one Context that triggers and tests are handed.
package sched

import (
	"github.com/sarchlab/microcotb/clock"
	"github.com/sarchlab/microcotb/instrumentation/hooking"
	"github.com/sarchlab/microcotb/signal"
	"github.com/sarchlab/microcotb/timing"
)

// HookPosAfterAdvance fires after every advance of the virtual time, once all
// clocks have caught up. The hook item is the new time.
var HookPosAfterAdvance = &hooking.HookPos{Name: "AfterAdvance"}

// HookPosReset fires when the context is reset between tests.
var HookPosReset = &hooking.HookPos{Name: "Reset"}

// A Waiter blocks, in virtual time, until some condition holds.
type Waiter interface {
	Wait(ctx *Context) error
}

// Context is the scheduling state of one test: a single virtual time line
// and the clocks that run on it. It is not safe for concurrent use; there is
// only ever one flow of control.
type Context struct {
	*hooking.HookableBase

	time   *timing.VirtualClock
	clocks *clock.Registry
}

// NewContext creates a Context at time 0 with no clocks.
func NewContext() *Context {
	c := &Context{
		HookableBase: hooking.NewHookableBase(),
		time:         timing.NewVirtualClock(),
		clocks:       clock.NewRegistry(),
	}
	c.time.RegisterListener(c.clocks)

	return c
}

// Reset rewinds the time to 0, removes the deadline and stops every clock.
func (c *Context) Reset() {
	c.time.Reset()
	c.clocks.ClearAll()

	if c.NumHooks() > 0 {
		c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosReset})
	}
}

// Time returns the virtual clock.
func (c *Context) Time() *timing.VirtualClock {
	return c.time
}

// Clocks returns the registry of running clocks.
func (c *Context) Clocks() *clock.Registry {
	return c.clocks
}

// Now returns the current virtual time.
func (c *Context) Now() timing.TimeValue {
	return c.time.Now()
}

// SimTime returns the current virtual time as a magnitude in unit.
func (c *Context) SimTime(unit timing.Unit) float64 {
	return c.time.SimTime(unit)
}

// SetTimeout makes any advance past now + d fail with a timeout.
func (c *Context) SetTimeout(d timing.TimeValue) {
	c.time.SetTimeout(d)
}

// ClearTimeout removes the deadline.
func (c *Context) ClearTimeout() {
	c.time.ClearTimeout()
}

// StartClock creates a clock on sig and starts it.
func (c *Context) StartClock(
	sig signal.Signal,
	period float64,
	unit timing.Unit,
) *clock.Clock {
	clk := clock.New(sig, period, unit)
	clk.Start(c.clocks)

	return clk
}

// Step returns the shortest half period of all running clocks, which is the
// granularity waits advance the time by.
func (c *Context) Step() (timing.TimeValue, bool) {
	return c.clocks.ShortestEventInterval()
}

// Advance moves the virtual time forward by d. All clocks are caught up
// before Advance returns, even if it returns a timeout.
func (c *Context) Advance(d timing.TimeValue) error {
	err := c.time.Advance(d)

	if c.NumHooks() > 0 {
		c.InvokeHook(hooking.HookCtx{
			Domain: c,
			Pos:    HookPosAfterAdvance,
			Item:   c.time.Now(),
			Detail: err,
		})
	}

	return err
}

// Await waits on each waiter in turn.
func (c *Context) Await(waiters ...Waiter) error {
	for _, w := range waiters {
		if err := w.Wait(c); err != nil {
			return err
		}
	}

	return nil
}
