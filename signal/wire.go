package signal

import "fmt"

// ChangeHandler is called after a Wire changes value.
type ChangeHandler func(w *Wire, oldValue, newValue uint64)

// Wire is an in-memory signal of a fixed bit width.
type Wire struct {
	id       ID
	name     string
	width    uint
	value    uint64
	handlers []ChangeHandler
}

// NewWire creates a Wire that is width bits wide and starts at 0.
func NewWire(name string, width uint) *Wire {
	if width == 0 || width > 64 {
		panic(fmt.Sprintf("signal: invalid width %d for %s", width, name))
	}

	return &Wire{
		id:    NextID(),
		name:  name,
		width: width,
	}
}

// ID returns the identity of the wire.
func (w *Wire) ID() ID {
	return w.id
}

// Name returns the name of the wire.
func (w *Wire) Name() string {
	return w.name
}

// Width returns the number of bits.
func (w *Wire) Width() uint {
	return w.width
}

// Value returns the current value.
func (w *Wire) Value() uint64 {
	return w.value
}

// SetValue drives the wire. Bits above the width are dropped. Change handlers
// run only if the value actually changes.
func (w *Wire) SetValue(v uint64) {
	v &= mask(w.width)
	if v == w.value {
		return
	}

	old := w.value
	w.value = v

	for _, h := range w.handlers {
		h(w, old, v)
	}
}

// OnChange registers a handler that runs after every value change.
func (w *Wire) OnChange(h ChangeHandler) {
	w.handlers = append(w.handlers, h)
}

func (w *Wire) String() string {
	return fmt.Sprintf("%s[%d]=%#x", w.name, w.width, w.value)
}

func mask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << width) - 1
}
