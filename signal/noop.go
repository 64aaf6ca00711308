package signal

// Noop is a signal that ignores writes and always reads a fixed value. It
// stands in for lines a board does not expose, such as ena.
type Noop struct {
	id    ID
	value uint64
}

// NewNoop creates a Noop signal that reads value.
func NewNoop(value uint64) *Noop {
	return &Noop{id: NextID(), value: value}
}

// ID returns the identity of the signal.
func (n *Noop) ID() ID { return n.id }

// Value returns the fixed value.
func (n *Noop) Value() uint64 { return n.value }

// SetValue does nothing.
func (n *Noop) SetValue(uint64) {}
