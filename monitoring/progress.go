package monitoring

import "sync"

// progress counts the tests of a run as the runner hooks report them.
type progress struct {
	lock     sync.Mutex
	running  uint64
	finished uint64
}

type progressRsp struct {
	Name       string `json:"name"`
	Total      uint64 `json:"total"`
	Finished   uint64 `json:"finished"`
	InProgress uint64 `json:"in_progress"`
}

func (p *progress) testStarted() {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.running++
}

// testFinished counts a test as done. Skipped tests never started, so they
// do not leave the running count.
func (p *progress) testFinished(started bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if started {
		p.running--
	}
	p.finished++
}

func (p *progress) snapshot(total int) progressRsp {
	p.lock.Lock()
	defer p.lock.Unlock()

	return progressRsp{
		Name:       "tests",
		Total:      uint64(total),
		Finished:   p.finished,
		InProgress: p.running,
	}
}
