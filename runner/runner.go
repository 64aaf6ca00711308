// Package runner registers test functions, runs them one after another on a
// fresh virtual time line, and classifies their outcomes.
package runner

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/sarchlab/microcotb/instrumentation/hooking"
	"github.com/sarchlab/microcotb/sched"
)

// Hook positions fired by the Runner. The item of the test hooks is a Result;
// the item of HookPosRunEnd is the *Summary.
var (
	HookPosTestStart = &hooking.HookPos{Name: "TestStart"}
	HookPosTestEnd   = &hooking.HookPos{Name: "TestEnd"}
	HookPosRunEnd    = &hooking.HookPos{Name: "RunEnd"}
)

// Status is a snapshot of a run in progress.
type Status struct {
	Running   string
	Total     int
	Completed []Result
}

// A Runner owns the registered tests of a DUT type D.
type Runner[D any] struct {
	*hooking.HookableBase

	ctx    *sched.Context
	tests  []*TestCase[D]
	board  Board
	logger *slog.Logger

	statusLock sync.Mutex
	status     Status
}

// New creates a Runner with its own scheduling context.
func New[D any]() *Runner[D] {
	return &Runner[D]{
		HookableBase: hooking.NewHookableBase(),
		ctx:          sched.NewContext(),
		logger:       slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// WithBoard sets the board that is told to stop auto-clocking before a run.
func (r *Runner[D]) WithBoard(b Board) *Runner[D] {
	r.board = b
	return r
}

// WithLogger replaces the default logger.
func (r *Runner[D]) WithLogger(l *slog.Logger) *Runner[D] {
	r.logger = l
	return r
}

// Context returns the scheduling context tests run on.
func (r *Runner[D]) Context() *sched.Context {
	return r.ctx
}

// Tests returns the registered tests in registration order.
func (r *Runner[D]) Tests() []*TestCase[D] {
	return r.tests
}

// Register adds a test called name. Registering a name again replaces the
// earlier test but keeps its place in the order.
func (r *Runner[D]) Register(
	name string,
	body TestFunc[D],
	opts ...Option,
) *TestCase[D] {
	tc := &TestCase[D]{Body: body}
	for _, opt := range opts {
		opt(&tc.Options)
	}
	tc.Name = name

	for i, existing := range r.tests {
		if existing.Name == name {
			r.tests[i] = tc
			return tc
		}
	}

	r.tests = append(r.tests, tc)

	return tc
}

// Test adds a test named after its function unless WithName is given.
func (r *Runner[D]) Test(body TestFunc[D], opts ...Option) *TestCase[D] {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}

	name := o.Name
	if name == "" {
		name = funcName(body)
	}

	return r.Register(name, body, opts...)
}

// Status returns a snapshot of the run. It is safe to call from another
// goroutine while RunAll is running.
func (r *Runner[D]) Status() Status {
	r.statusLock.Lock()
	defer r.statusLock.Unlock()

	s := r.status
	s.Completed = append([]Result(nil), r.status.Completed...)

	return s
}

// RunAll runs every registered test in order and returns the summary. Errors
// from test bodies never escape; they become outcomes.
func (r *Runner[D]) RunAll(dut D) *Summary {
	r.testingWillBegin(dut)

	summary := &Summary{}
	for _, tc := range r.tests {
		r.runOne(tc, dut)

		res := tc.Result()
		summary.add(res)
	}

	r.testingDone(dut, summary)

	return summary
}

func (r *Runner[D]) testingWillBegin(dut D) {
	r.logger.Debug("about to start a test run", "tests", len(r.tests))

	r.statusLock.Lock()
	r.status = Status{Total: len(r.tests)}
	r.statusLock.Unlock()

	if r.board != nil && r.board.IsAutoClocking() {
		r.logger.Info("board is auto-clocking, stopping it")
		r.board.StopAutoClocking()
	}

	if n, ok := any(dut).(TestingWillBeginNotifiee); ok {
		n.TestingWillBegin()
	}
}

func (r *Runner[D]) runOne(tc *TestCase[D], dut D) {
	r.ctx.Reset()
	if tc.HasTimeout {
		r.ctx.SetTimeout(tc.Timeout)
	} else {
		r.ctx.ClearTimeout()
	}

	tc.reset()

	if tc.Skip {
		tc.Outcome = Skipped
		r.logger.Warn("test skipped", "test", tc.Name)
		r.finish(tc, dut)
		return
	}

	r.setRunning(tc.Name)
	r.logger.Info("running test", "test", tc.Name)

	start := tc.Result()
	r.InvokeHook(hooking.HookCtx{Domain: r, Pos: HookPosTestStart, Item: start})
	if n, ok := any(dut).(TestingUnitNotifiee); ok {
		n.TestingUnitStart(start)
	}

	tc.classify(r.runBody(tc, dut))
	tc.SimTime = r.ctx.Now()

	r.logOutcome(tc)
	r.finish(tc, dut)
}

func (r *Runner[D]) runBody(tc *TestCase[D], dut D) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()

	return tc.Body(r.ctx, dut)
}

func (r *Runner[D]) logOutcome(tc *TestCase[D]) {
	attrs := []any{"test", tc.Name, "sim_time", tc.SimTime.String()}

	switch tc.Outcome {
	case Passed:
		r.logger.Info("test passed", attrs...)
	case FailedAsExpected:
		r.logger.Info("test failed as expected",
			append(attrs, "reason", tc.FailureMessage)...)
	default:
		r.logger.Error("test failed",
			append(attrs, "reason", tc.FailureMessage)...)
	}
}

func (r *Runner[D]) finish(tc *TestCase[D], dut D) {
	res := tc.Result()

	r.statusLock.Lock()
	r.status.Running = ""
	r.status.Completed = append(r.status.Completed, res)
	r.statusLock.Unlock()

	r.InvokeHook(hooking.HookCtx{Domain: r, Pos: HookPosTestEnd, Item: res})

	if tc.Outcome == Skipped {
		return
	}

	if n, ok := any(dut).(TestingUnitNotifiee); ok {
		n.TestingUnitDone(res)
	}
}

func (r *Runner[D]) setRunning(name string) {
	r.statusLock.Lock()
	r.status.Running = name
	r.statusLock.Unlock()
}

func (r *Runner[D]) testingDone(dut D, summary *Summary) {
	if summary.Passed() {
		r.logger.Info(summary.verdict())
	} else {
		r.logger.Warn(summary.verdict())
	}

	r.InvokeHook(hooking.HookCtx{Domain: r, Pos: HookPosRunEnd, Item: summary})

	if r.board != nil {
		r.board.TestingDone()
	}

	if n, ok := any(dut).(TestingDoneNotifiee); ok {
		n.TestingDone()
	}
}
