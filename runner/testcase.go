package runner

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/sarchlab/microcotb/sched"
	"github.com/sarchlab/microcotb/timing"
)

// ErrPanic wraps a panic recovered from a test body.
var ErrPanic = errors.New("runner: test panicked")

// TestFunc is the body of a test. It drives and observes the DUT and waits
// with triggers on ctx. Returning an error fails the test.
type TestFunc[D any] func(ctx *sched.Context, dut D) error

// Options carries the metadata a test is registered with.
type Options struct {
	Name        string
	Timeout     timing.TimeValue
	HasTimeout  bool
	ExpectFail  bool
	ExpectError error
	Skip        bool
	Stage       int
}

// An Option sets one field of Options.
type Option func(*Options)

// WithName overrides the name derived from the test function.
func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}

// WithTimeout fails the test once its virtual time passes t.
func WithTimeout(t float64, unit timing.Unit) Option {
	return func(o *Options) {
		o.Timeout = timing.New(t, unit)
		o.HasTimeout = true
	}
}

// WithExpectFail inverts the test: it passes only if the body fails.
func WithExpectFail() Option {
	return func(o *Options) { o.ExpectFail = true }
}

// WithExpectError makes the test pass only if the body fails with an error
// matching err under errors.Is.
func WithExpectError(err error) Option {
	return func(o *Options) { o.ExpectError = err }
}

// WithSkip registers the test without running it.
func WithSkip() Option {
	return func(o *Options) { o.Skip = true }
}

// WithStage records the stage of the test.
func WithStage(stage int) Option {
	return func(o *Options) { o.Stage = stage }
}

// TestCase is a registered test and, after a run, its result.
type TestCase[D any] struct {
	Options
	Body TestFunc[D]

	Failed         bool
	FailureMessage string
	Outcome        Outcome
	SimTime        timing.TimeValue
	err            error
}

func (tc *TestCase[D]) reset() {
	tc.Failed = false
	tc.FailureMessage = ""
	tc.Outcome = NotRun
	tc.SimTime = timing.TimeValue{}
	tc.err = nil
}

func (tc *TestCase[D]) expectsFailure() bool {
	return tc.ExpectFail || tc.ExpectError != nil
}

// classify records the outcome of a body that returned err.
func (tc *TestCase[D]) classify(err error) {
	tc.err = err

	if err == nil {
		if tc.expectsFailure() {
			tc.Outcome = PassedUnexpectedly
			tc.FailureMessage = "passed but was expected to fail"
			return
		}

		tc.Outcome = Passed
		return
	}

	tc.Failed = true
	tc.FailureMessage = err.Error()

	switch {
	case tc.ExpectError != nil && !errors.Is(err, tc.ExpectError):
		tc.Outcome = Failed
		tc.FailureMessage = fmt.Sprintf(
			"expected error %q, got: %s", tc.ExpectError, err)
	case tc.expectsFailure():
		tc.Outcome = FailedAsExpected
	default:
		tc.Outcome = Failed
	}
}

// Result returns a snapshot of the test's state.
func (tc *TestCase[D]) Result() Result {
	return Result{
		Name:           tc.Name,
		Stage:          tc.Stage,
		Outcome:        tc.Outcome,
		Failed:         tc.Failed,
		FailureMessage: tc.FailureMessage,
		SimTime:        tc.SimTime,
		Err:            tc.err,
	}
}

// Result is the non-generic view of a test that hooks, the summary and the
// monitor work with.
type Result struct {
	Name           string
	Stage          int
	Outcome        Outcome
	Failed         bool
	FailureMessage string
	SimTime        timing.TimeValue
	Err            error `json:"-"`
}

// funcName derives a test name from the function's symbol, dropping the
// package path.
func funcName(f any) string {
	full := runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()

	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}

	if i := strings.Index(full, "."); i >= 0 {
		full = full[i+1:]
	}

	return full
}
