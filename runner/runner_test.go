package runner

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/microcotb/instrumentation/hooking"
	"github.com/sarchlab/microcotb/sched"
	"github.com/sarchlab/microcotb/signal"
	"github.com/sarchlab/microcotb/timing"
	"github.com/sarchlab/microcotb/trigger"
)

type fakeDUT struct {
	clk    *signal.Wire
	events []string
}

func newFakeDUT() *fakeDUT {
	return &fakeDUT{clk: signal.NewWire("clk", 1)}
}

func (d *fakeDUT) TestingWillBegin()        { d.events = append(d.events, "begin") }
func (d *fakeDUT) TestingUnitStart(r Result) { d.events = append(d.events, "start:"+r.Name) }
func (d *fakeDUT) TestingUnitDone(r Result)  { d.events = append(d.events, "done:"+r.Name) }
func (d *fakeDUT) TestingDone()              { d.events = append(d.events, "end") }

var errBoom = errors.New("boom")

func alwaysFails(*sched.Context, *fakeDUT) error { return errBoom }

func alwaysPasses(*sched.Context, *fakeDUT) error { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = Describe("Runner", func() {
	var (
		r   *Runner[*fakeDUT]
		dut *fakeDUT
	)

	BeforeEach(func() {
		r = New[*fakeDUT]().WithLogger(quietLogger())
		dut = newFakeDUT()
	})

	outcomeOf := func(s *Summary, name string) Outcome {
		for _, res := range s.Results {
			if res.Name == name {
				return res.Outcome
			}
		}
		Fail("no result for " + name)
		return NotRun
	}

	It("should classify skip and expect_fail combinations", func() {
		r.Register("plain", alwaysFails)
		r.Register("expect_fail", alwaysFails, WithExpectFail())
		r.Register("skip", alwaysFails, WithSkip())
		r.Register("skip_expect_fail", alwaysFails, WithSkip(), WithExpectFail())
		r.Register("passes_unexpectedly", alwaysPasses, WithExpectFail())
		r.Register("passes", alwaysPasses)

		s := r.RunAll(dut)

		Expect(outcomeOf(s, "plain")).To(Equal(Failed))
		Expect(outcomeOf(s, "expect_fail")).To(Equal(FailedAsExpected))
		Expect(outcomeOf(s, "skip")).To(Equal(Skipped))
		Expect(outcomeOf(s, "skip_expect_fail")).To(Equal(Skipped))
		Expect(outcomeOf(s, "passes_unexpectedly")).To(Equal(PassedUnexpectedly))
		Expect(outcomeOf(s, "passes")).To(Equal(Passed))

		Expect(s.Total).To(Equal(6))
		Expect(s.Failures).To(Equal(2))
		Expect(s.Passed()).To(BeFalse())
	})

	It("should leave tests NotRun until they are executed", func() {
		tc := r.Register("later", alwaysPasses)

		Expect(tc.Outcome).To(Equal(NotRun))
		Expect(tc.Outcome.Label()).To(Equal("FAIL"))

		r.RunAll(dut)

		Expect(tc.Outcome).To(Equal(Passed))
	})

	It("should record the failure message", func() {
		tc := r.Register("expect_fail", alwaysFails, WithExpectFail())

		r.RunAll(dut)

		Expect(tc.Failed).To(BeTrue())
		Expect(tc.FailureMessage).To(Equal("boom"))
	})

	It("should not run skipped tests", func() {
		ran := false
		r.Register("skipped", func(*sched.Context, *fakeDUT) error {
			ran = true
			return nil
		}, WithSkip())

		r.RunAll(dut)

		Expect(ran).To(BeFalse())
	})

	Context("with a timeout", func() {
		body := func(ctx *sched.Context, d *fakeDUT) error {
			ctx.StartClock(d.clk, 10, timing.US)
			return ctx.Await(trigger.NewTimer(150, timing.US))
		}

		It("should fail a test that runs past its deadline", func() {
			tc := r.Register("slow", body, WithTimeout(100, timing.US))

			s := r.RunAll(dut)

			Expect(tc.Outcome).To(Equal(Failed))
			Expect(tc.Result().Err).To(MatchError(timing.ErrSimulationTimeout))
			Expect(tc.FailureMessage).To(ContainSubstring("100000ns"))
			Expect(s.Passed()).To(BeFalse())
		})

		It("should pass the run when the timeout was expected", func() {
			tc := r.Register("slow", body,
				WithTimeout(100, timing.US), WithExpectFail())

			s := r.RunAll(dut)

			Expect(tc.Outcome).To(Equal(FailedAsExpected))
			Expect(s.Passed()).To(BeTrue())
		})

		It("should also time out without any clock", func() {
			tc := r.Register("no_clock", func(ctx *sched.Context, _ *fakeDUT) error {
				return ctx.Await(trigger.NewTimer(150, timing.US))
			}, WithTimeout(100, timing.US))

			r.RunAll(dut)

			Expect(tc.Outcome).To(Equal(Failed))
		})
	})

	It("should match expected errors", func() {
		other := errors.New("other")
		good := r.Register("good", alwaysFails, WithExpectError(errBoom))
		bad := r.Register("bad", alwaysFails, WithExpectError(other))

		r.RunAll(dut)

		Expect(good.Outcome).To(Equal(FailedAsExpected))
		Expect(bad.Outcome).To(Equal(Failed))
		Expect(bad.FailureMessage).To(ContainSubstring("other"))
	})

	It("should turn panics into failures", func() {
		tc := r.Register("panics", func(*sched.Context, *fakeDUT) error {
			panic("assertion failed")
		})

		s := r.RunAll(dut)

		Expect(tc.Outcome).To(Equal(Failed))
		Expect(tc.Result().Err).To(MatchError(ErrPanic))
		Expect(tc.FailureMessage).To(ContainSubstring("assertion failed"))
		Expect(s.Failures).To(Equal(1))
	})

	It("should give every test a fresh time line without clocks", func() {
		var startTimes []timing.TimeValue
		var clockCounts []int
		body := func(ctx *sched.Context, d *fakeDUT) error {
			startTimes = append(startTimes, ctx.Now())
			clockCounts = append(clockCounts, ctx.Clocks().Len())
			ctx.StartClock(d.clk, 10, timing.US)
			return ctx.Await(trigger.NewClockCycles(d.clk, 3))
		}
		first := r.Register("first", body)
		second := r.Register("second", body)

		r.RunAll(dut)

		Expect(startTimes).To(Equal([]timing.TimeValue{
			timing.Zero(timing.NS), timing.Zero(timing.NS),
		}))
		Expect(clockCounts).To(Equal([]int{0, 0}))
		Expect(first.SimTime.Equal(timing.New(30, timing.US))).To(BeTrue())
		Expect(second.SimTime.Equal(timing.New(30, timing.US))).To(BeTrue())
	})

	It("should clear a timeout left by a previous test", func() {
		r.Register("short", alwaysPasses, WithTimeout(1, timing.US))
		long := r.Register("long", func(ctx *sched.Context, _ *fakeDUT) error {
			return ctx.Await(trigger.NewTimer(1, timing.MS))
		})

		r.RunAll(dut)

		Expect(long.Outcome).To(Equal(Passed))
	})

	It("should replace a test registered twice under one name", func() {
		r.Register("dup", alwaysFails)
		r.Register("other", alwaysPasses)
		r.Register("dup", alwaysPasses)

		s := r.RunAll(dut)

		Expect(r.Tests()).To(HaveLen(2))
		Expect(s.Results[0].Name).To(Equal("dup"))
		Expect(s.Results[0].Outcome).To(Equal(Passed))
	})

	It("should name tests after their function", func() {
		tc := r.Test(alwaysPasses)
		named := r.Test(alwaysPasses, WithName("custom"))

		Expect(tc.Name).To(Equal("alwaysPasses"))
		Expect(named.Name).To(Equal("custom"))
	})

	It("should keep stage metadata", func() {
		tc := r.Register("staged", alwaysPasses, WithStage(3))

		r.RunAll(dut)

		Expect(tc.Result().Stage).To(Equal(3))
	})

	It("should notify the DUT around the run", func() {
		r.Register("a", alwaysPasses)
		r.Register("b", alwaysPasses, WithSkip())

		r.RunAll(dut)

		Expect(dut.events).To(Equal([]string{
			"begin", "start:a", "done:a", "end",
		}))
	})

	It("should fire hooks in order", func() {
		var positions []string
		r.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			positions = append(positions, ctx.Pos.Name)
		}))
		r.Register("a", alwaysPasses)

		r.RunAll(dut)

		Expect(positions).To(Equal([]string{"TestStart", "TestEnd", "RunEnd"}))
	})

	It("should report status after the run", func() {
		r.Register("a", alwaysPasses)
		r.Register("b", alwaysFails)

		r.RunAll(dut)

		st := r.Status()
		Expect(st.Total).To(Equal(2))
		Expect(st.Running).To(BeEmpty())
		Expect(st.Completed).To(HaveLen(2))
	})

	Context("with a board", func() {
		var (
			mockCtrl *gomock.Controller
			board    *MockBoard
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			board = NewMockBoard(mockCtrl)
			r.WithBoard(board)
			r.Register("a", alwaysPasses)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should stop auto-clocking before running tests", func() {
			gomock.InOrder(
				board.EXPECT().IsAutoClocking().Return(true),
				board.EXPECT().StopAutoClocking(),
				board.EXPECT().TestingDone(),
			)

			r.RunAll(dut)
		})

		It("should leave a board that is not auto-clocking alone", func() {
			board.EXPECT().IsAutoClocking().Return(false)
			board.EXPECT().TestingDone()

			r.RunAll(dut)
		})
	})
})

var _ = Describe("Summary", func() {
	It("should print one line per test and the failure count", func() {
		s := &Summary{}
		s.add(Result{Name: "a", Outcome: Passed})
		s.add(Result{Name: "b", Outcome: Failed, FailureMessage: "boom"})
		s.add(Result{Name: "c", Outcome: FailedAsExpected, FailureMessage: "boom"})
		s.add(Result{Name: "d", Outcome: Skipped})
		s.add(Result{
			Name:           "e",
			Outcome:        PassedUnexpectedly,
			FailureMessage: "passed but was expected to fail",
		})

		buf := &bytes.Buffer{}
		_, err := s.WriteTo(buf)

		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Split(buf.String(), "\n")).To(Equal([]string{
			"PASS\ta\t",
			"FAIL\tb\tboom",
			"PASS\tc\tfailed as expected: boom",
			"SKIP\td\t",
			"FAIL\te\tpassed but was expected to fail",
			"2/5 tests failed",
			"",
		}))
	})

	It("should say so when every test passed", func() {
		s := &Summary{}
		s.add(Result{Name: "a", Outcome: Passed})
		s.add(Result{Name: "b", Outcome: Skipped})

		buf := &bytes.Buffer{}
		_, err := s.WriteTo(buf)

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(Equal(
			"PASS\ta\t\nSKIP\tb\t\nAll 2 tests passed\n"))
	})
})
