// Package signal defines the contract between the scheduler and the hardware
// layer, plus in-memory signals for simulated designs.
package signal

import "sync/atomic"

// ID identifies a signal. Two handles to the same physical line must report
// the same ID.
type ID uint64

// A Signal is a readable and writable line or bus.
type Signal interface {
	// ID returns the identity of the underlying line.
	ID() ID

	// Value reads the current value. Single-bit signals return 0 or 1.
	Value() uint64

	// SetValue drives a new value.
	SetValue(v uint64)
}

var lastID uint64

// NextID returns a process-wide unique ID. The first ID is 1.
func NextID() ID {
	return ID(atomic.AddUint64(&lastID, 1))
}

// IsHigh reports whether the signal currently reads non-zero.
func IsHigh(s Signal) bool {
	return s.Value() != 0
}
