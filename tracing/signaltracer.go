package tracing

import (
	"github.com/sarchlab/microcotb/instrumentation/hooking"
	"github.com/sarchlab/microcotb/runner"
	"github.com/sarchlab/microcotb/sched"
	"github.com/sarchlab/microcotb/signal"
)

// SignalTracer records every change of the traced wires, stamped with the
// virtual time and the running test. Register it as a runner hook so it
// knows which test is running.
type SignalTracer struct {
	ctx    *sched.Context
	writer TraceWriter
	test   string
}

// NewSignalTracer creates a tracer that reads the time from ctx.
func NewSignalTracer(ctx *sched.Context, writer TraceWriter) *SignalTracer {
	return &SignalTracer{ctx: ctx, writer: writer}
}

// Trace starts tracing w.
func (t *SignalTracer) Trace(w *signal.Wire) {
	w.OnChange(t.changed)
}

func (t *SignalTracer) changed(w *signal.Wire, oldValue, newValue uint64) {
	t.writer.Write(Change{
		Test:     t.test,
		Time:     t.ctx.Now(),
		Signal:   w.Name(),
		OldValue: oldValue,
		NewValue: newValue,
	})
}

// Func follows the runner.
func (t *SignalTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case runner.HookPosTestStart:
		t.test = ctx.Item.(runner.Result).Name
	case runner.HookPosTestEnd:
		t.test = ""
	case runner.HookPosRunEnd:
		t.writer.Flush()
	}
}
