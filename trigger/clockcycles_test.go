package trigger

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/microcotb/sched"
	"github.com/sarchlab/microcotb/signal"
	"github.com/sarchlab/microcotb/timing"
)

var _ = Describe("ClockCycles", func() {
	var (
		ctx *sched.Context
		clk *signal.Wire
	)

	BeforeEach(func() {
		ctx = sched.NewContext()
		clk = signal.NewWire("clk", 1)
	})

	It("should run n full periods from a low clock", func() {
		c := ctx.StartClock(clk, 10, timing.US)

		Expect(ctx.Await(NewClockCycles(clk, 5))).To(Succeed())

		Expect(c.ToggleCount()).To(Equal(uint64(10)))
		Expect(ctx.Now().Equal(timing.New(50, timing.US))).To(BeTrue())
		Expect(clk.Value()).To(Equal(uint64(0)))
	})

	It("should count the current half period when already at the edge level", func() {
		c := ctx.StartClock(clk, 10, timing.US)
		Expect(ctx.Advance(timing.New(5, timing.US))).To(Succeed())
		Expect(clk.Value()).To(Equal(uint64(1)))

		cycles := NewClockCycles(clk, 2)
		Expect(cycles.Transitions()).To(Equal(3))
		Expect(ctx.Await(cycles)).To(Succeed())

		Expect(c.ToggleCount()).To(Equal(uint64(4)))
		Expect(ctx.Now().Equal(timing.New(20, timing.US))).To(BeTrue())
	})

	It("should adjust falling cycles on a low clock", func() {
		ctx.StartClock(clk, 10, timing.US)

		Expect(NewFallingClockCycles(clk, 3).Transitions()).To(Equal(5))
		Expect(NewClockCycles(clk, 3).Transitions()).To(Equal(6))
	})

	It("should step by the fastest clock even when counting a slower one", func() {
		fast := ctx.StartClock(signal.NewWire("fast", 1), 2, timing.US)
		ctx.StartClock(clk, 10, timing.US)

		Expect(ctx.Await(NewClockCycles(clk, 1))).To(Succeed())

		Expect(fast.ToggleCount()).To(Equal(uint64(10)))
	})

	It("should fail on a signal without a clock", func() {
		ctx.StartClock(clk, 10, timing.US)
		other := signal.NewWire("rst_n", 1)

		err := ctx.Await(NewClockCycles(other, 3))

		Expect(err).To(MatchError(ErrNoClockForSignal))
		Expect(ctx.Now().Equal(timing.Zero(timing.NS))).To(BeTrue())
	})

	It("should do nothing for zero cycles", func() {
		ctx.StartClock(clk, 10, timing.US)

		Expect(ctx.Await(NewClockCycles(clk, 0))).To(Succeed())
		Expect(ctx.Now().Equal(timing.Zero(timing.NS))).To(BeTrue())
	})

	It("should tick the clock without moving time", func() {
		c := ctx.StartClock(clk, 10, timing.US)

		Expect(NewClockCycles(clk, 4).Tick(ctx)).To(Succeed())

		Expect(c.ToggleCount()).To(Equal(uint64(8)))
		Expect(ctx.Now().Equal(timing.Zero(timing.NS))).To(BeTrue())
	})

	It("should fail to tick a signal without a clock", func() {
		Expect(NewClockCycles(clk, 1).Tick(ctx)).To(MatchError(ErrNoClockForSignal))
	})
})
