package signal

import "fmt"

// Slice exposes bits [hi:lo] of a parent signal as a signal of its own.
type Slice struct {
	id     ID
	parent Signal
	hi, lo uint
}

// NewSlice creates a view over bits hi down to lo of parent, inclusive.
func NewSlice(parent Signal, hi, lo uint) *Slice {
	if hi < lo || hi > 63 {
		panic(fmt.Sprintf("signal: invalid slice [%d:%d]", hi, lo))
	}

	return &Slice{
		id:     NextID(),
		parent: parent,
		hi:     hi,
		lo:     lo,
	}
}

// NewBit creates a single-bit view of parent.
func NewBit(parent Signal, bit uint) *Slice {
	return NewSlice(parent, bit, bit)
}

// ID returns the identity of the slice.
func (s *Slice) ID() ID {
	return s.id
}

// Value returns the selected bits, shifted down to bit 0.
func (s *Slice) Value() uint64 {
	return (s.parent.Value() >> s.lo) & mask(s.hi-s.lo+1)
}

// SetValue replaces the selected bits of the parent and leaves the others
// untouched.
func (s *Slice) SetValue(v uint64) {
	m := mask(s.hi-s.lo+1) << s.lo
	current := s.parent.Value()
	s.parent.SetValue((current &^ m) | ((v << s.lo) & m))
}
