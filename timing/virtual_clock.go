package timing

import "fmt"

// A TimeListener is notified every time the virtual clock moves forward.
type TimeListener interface {
	TimeIsNow(now TimeValue)
}

// VirtualClock is the single monotonic time line of a test. It only moves
// when Advance is called.
type VirtualClock struct {
	now       TimeValue
	deadline  TimeValue
	hasLimit  bool
	listeners []TimeListener
}

// NewVirtualClock creates a VirtualClock at 0 ns.
func NewVirtualClock() *VirtualClock {
	c := &VirtualClock{}
	c.Reset()

	return c
}

// Reset sets the time back to 0 ns and removes the deadline. Listeners stay
// registered.
func (c *VirtualClock) Reset() {
	c.now = Zero(NS)
	c.deadline = TimeValue{}
	c.hasLimit = false
}

// RegisterListener adds a listener that is caught up after each advance.
func (c *VirtualClock) RegisterListener(l TimeListener) {
	c.listeners = append(c.listeners, l)
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() TimeValue {
	return c.now
}

// SimTime returns the current time as a magnitude in the given unit.
func (c *VirtualClock) SimTime(unit Unit) float64 {
	return c.now.In(unit)
}

// SetUnits re-expresses the current time in another unit. The amount of time
// does not change.
func (c *VirtualClock) SetUnits(unit Unit) {
	c.now = c.now.Convert(unit)
}

// SetTimeout sets the deadline to now + d.
func (c *VirtualClock) SetTimeout(d TimeValue) {
	c.deadline = c.now.Add(d)
	c.hasLimit = true
}

// ClearTimeout removes the deadline.
func (c *VirtualClock) ClearTimeout() {
	c.deadline = TimeValue{}
	c.hasLimit = false
}

// Deadline returns the current deadline, if any.
func (c *VirtualClock) Deadline() (TimeValue, bool) {
	return c.deadline, c.hasLimit
}

// Advance moves the time forward by d and catches up every listener.
//
// If a deadline is set and the time is already past it, the clock does not
// move and an error wrapping ErrSimulationTimeout is returned. The deadline is
// checked again once the advance is done: an advance that carries the time
// past it completes, catches up the listeners, and then reports the timeout.
// A single jump past the deadline, as a Timer makes with no clocks running,
// therefore times out too. With a 10us clock and a 100us deadline, a 102us
// wait steps to 105us and fails there.
func (c *VirtualClock) Advance(d TimeValue) error {
	if d.magnitude < 0 {
		panic(fmt.Sprintf("timing: cannot advance by negative time %s", d))
	}

	if c.pastDeadline() {
		return c.timeoutError()
	}

	c.now = c.now.Add(d)

	for _, l := range c.listeners {
		l.TimeIsNow(c.now)
	}

	if c.pastDeadline() {
		return c.timeoutError()
	}

	return nil
}

func (c *VirtualClock) pastDeadline() bool {
	return c.hasLimit && c.now.Greater(c.deadline)
}

func (c *VirtualClock) timeoutError() error {
	return fmt.Errorf("%w: deadline %s exceeded at %s",
		ErrSimulationTimeout, c.deadline, c.now)
}
