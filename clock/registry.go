package clock

import (
	"sort"

	"github.com/sarchlab/microcotb/signal"
	"github.com/sarchlab/microcotb/timing"
)

// Registry holds the clocks running in one test. At most one clock drives a
// given signal; clocks are keyed by signal identity.
type Registry struct {
	clocks []*Clock
	sorted []*Clock
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Start adds c. A clock already driving the same signal is replaced.
func (r *Registry) Start(c *Clock) {
	r.sorted = nil

	id := c.signal.ID()
	for i, existing := range r.clocks {
		if existing.signal.ID() == id {
			r.clocks[i] = c
			return
		}
	}

	r.clocks = append(r.clocks, c)
}

// Get returns the clock driving sig.
func (r *Registry) Get(sig signal.Signal) (*Clock, bool) {
	id := sig.ID()
	for _, c := range r.clocks {
		if c.signal.ID() == id {
			return c, true
		}
	}

	return nil, false
}

// Len returns the number of running clocks.
func (r *Registry) Len() int {
	return len(r.clocks)
}

// All returns the running clocks, fastest first. Clocks with equal half
// periods keep the order they were started in.
func (r *Registry) All() []*Clock {
	if r.sorted == nil && len(r.clocks) > 0 {
		r.sorted = make([]*Clock, len(r.clocks))
		copy(r.sorted, r.clocks)
		sort.SliceStable(r.sorted, func(i, j int) bool {
			return r.sorted[i].halfPeriod.Less(r.sorted[j].halfPeriod)
		})
	}

	return r.sorted
}

// Fastest returns the clock with the shortest half period.
func (r *Registry) Fastest() (*Clock, bool) {
	all := r.All()
	if len(all) == 0 {
		return nil, false
	}

	return all[0], true
}

// ShortestEventInterval returns the half period of the fastest clock.
func (r *Registry) ShortestEventInterval() (timing.TimeValue, bool) {
	c, ok := r.Fastest()
	if !ok {
		return timing.TimeValue{}, false
	}

	return c.halfPeriod, true
}

// ClearAll stops every clock.
func (r *Registry) ClearAll() {
	r.clocks = nil
	r.sorted = nil
}

// TimeIsNow catches every clock up with now, fastest first.
func (r *Registry) TimeIsNow(now timing.TimeValue) {
	for _, c := range r.All() {
		c.TimeIsNow(now)
	}
}

var _ timing.TimeListener = (*Registry)(nil)
