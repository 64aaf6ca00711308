package datarecording

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sarchlab/microcotb/instrumentation/hooking"
	"github.com/sarchlab/microcotb/runner"
	"github.com/sarchlab/microcotb/sched"
	"github.com/sarchlab/microcotb/signal"
	"github.com/sarchlab/microcotb/timing"
)

// Table names used by ResultRecorder.
const (
	ResultTable = "test_results"
	ClockTable  = "clock_activity"
)

// ResultEntry is one row of the test results table.
type ResultEntry struct {
	Run       string
	Test      string
	Stage     int
	Outcome   string
	Failed    bool
	Message   string
	SimTimeNS float64
}

// ClockEntry records how much a clock toggled during one test.
type ClockEntry struct {
	Run      string
	Test     string
	Signal   string
	PeriodNS float64
	Toggles  uint64
}

// ResultRecorder is a runner hook that writes every finished test, along
// with the clocks it ran, into a DataRecorder.
type ResultRecorder struct {
	recorder DataRecorder
	ctx      *sched.Context
	runID    string
}

// NewResultRecorder creates the tables and returns the hook. ctx is the
// context the runner executes tests on, read for clock activity.
func NewResultRecorder(
	recorder DataRecorder,
	ctx *sched.Context,
) *ResultRecorder {
	recorder.CreateTable(ResultTable, ResultEntry{})
	recorder.CreateTable(ClockTable, ClockEntry{})

	return &ResultRecorder{
		recorder: recorder,
		ctx:      ctx,
		runID:    xid.New().String(),
	}
}

// RunID identifies the rows written by this recorder.
func (r *ResultRecorder) RunID() string {
	return r.runID
}

// Func records a test at HookPosTestEnd and flushes at HookPosRunEnd.
func (r *ResultRecorder) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case runner.HookPosTestEnd:
		r.record(ctx.Item.(runner.Result))
	case runner.HookPosRunEnd:
		r.recorder.Flush()
	}
}

func (r *ResultRecorder) record(res runner.Result) {
	r.recorder.InsertData(ResultTable, ResultEntry{
		Run:       r.runID,
		Test:      res.Name,
		Stage:     res.Stage,
		Outcome:   res.Outcome.String(),
		Failed:    res.Outcome.IsFailure(),
		Message:   res.FailureMessage,
		SimTimeNS: res.SimTime.In(timing.NS),
	})

	if res.Outcome == runner.Skipped {
		return
	}

	for _, clk := range r.ctx.Clocks().All() {
		r.recorder.InsertData(ClockTable, ClockEntry{
			Run:      r.runID,
			Test:     res.Name,
			Signal:   signalName(clk.Signal()),
			PeriodNS: clk.Period().In(timing.NS),
			Toggles:  clk.ToggleCount(),
		})
	}
}

type named interface {
	Name() string
}

func signalName(s signal.Signal) string {
	if n, ok := s.(named); ok {
		return n.Name()
	}

	return fmt.Sprintf("signal_%d", s.ID())
}
