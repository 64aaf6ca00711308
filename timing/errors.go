package timing

import "errors"

var (
	// ErrInvalidUnit is returned when a time unit is not one of fs, ps, ns,
	// us, ms or sec.
	ErrInvalidUnit = errors.New("timing: invalid time unit")

	// ErrSimulationTimeout is returned by VirtualClock.Advance once the
	// virtual time has passed the configured deadline.
	ErrSimulationTimeout = errors.New("timing: simulation timeout")
)
