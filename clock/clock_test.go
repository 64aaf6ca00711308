package clock

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/microcotb/signal"
	"github.com/sarchlab/microcotb/timing"
)

var _ = Describe("Clock", func() {
	var (
		mockCtrl *gomock.Controller
		sig      *MockSignal
		clk      *Clock
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sig = NewMockSignal(mockCtrl)
		sig.EXPECT().ID().Return(signal.ID(7)).AnyTimes()
		clk = New(sig, 10, timing.US)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should split the period into two halves", func() {
		Expect(clk.HalfPeriod()).To(Equal(timing.New(5, timing.US)))
		Expect(clk.Period().Equal(timing.New(10, timing.US))).To(BeTrue())
	})

	It("should schedule the first toggle just before one half period", func() {
		first := clk.NextToggle()

		Expect(first).To(Equal(timing.New(4995, timing.NS)))
		Expect(first.Less(clk.HalfPeriod())).To(BeTrue())
	})

	It("should keep the first toggle before the half period for tiny periods", func() {
		tiny := New(sig, 0.002, timing.NS)

		Expect(tiny.NextToggle().Less(tiny.HalfPeriod())).To(BeTrue())
		Expect(tiny.NextToggle().Magnitude()).To(BeNumerically(">", 0))
	})

	It("should keep the first toggle before the half period in femtoseconds", func() {
		fs := New(sig, 10, timing.FS)

		Expect(fs.NextToggle().Less(fs.HalfPeriod())).To(BeTrue())
		Expect(fs.NextToggle().Unit()).To(Equal(timing.FS))
	})

	It("should panic on a non-positive period", func() {
		Expect(func() { New(sig, 0, timing.NS) }).To(Panic())
	})

	It("should drive the level on toggle", func() {
		gomock.InOrder(
			sig.EXPECT().SetValue(uint64(1)),
			sig.EXPECT().SetValue(uint64(0)),
		)

		clk.Toggle()
		Expect(clk.Level()).To(Equal(uint64(1)))

		clk.Toggle()
		Expect(clk.Level()).To(Equal(uint64(0)))
		Expect(clk.ToggleCount()).To(Equal(uint64(2)))
	})

	It("should end a tick where it started", func() {
		sig.EXPECT().SetValue(gomock.Any()).Times(2)

		clk.Tick()

		Expect(clk.Level()).To(Equal(uint64(0)))
		Expect(clk.ToggleCount()).To(Equal(uint64(2)))
	})

	It("should not toggle before the first toggle time", func() {
		clk.TimeIsNow(timing.New(4995, timing.NS))

		Expect(clk.ToggleCount()).To(BeZero())
	})

	It("should catch up several toggles at once", func() {
		sig.EXPECT().SetValue(gomock.Any()).Times(3)

		clk.TimeIsNow(timing.New(15, timing.US))

		Expect(clk.ToggleCount()).To(Equal(uint64(3)))
		Expect(clk.NextToggle()).To(Equal(timing.New(19995, timing.NS)))
	})

	It("should drive its level when started", func() {
		r := NewRegistry()
		sig.EXPECT().SetValue(uint64(0))

		clk.Start(r)

		got, ok := r.Get(sig)
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(clk))
	})

	It("should count events in a duration", func() {
		Expect(clk.NumEventsIn(timing.New(1, timing.MS))).To(Equal(200.0))
	})
})

var _ = Describe("Clock on a wire", func() {
	It("should toggle 2k times over k periods and end at its initial level", func() {
		for _, k := range []int{1, 3, 10, 250} {
			w := signal.NewWire("clk", 1)
			r := NewRegistry()
			clk := New(w, 10, timing.US)
			clk.Start(r)

			now := timing.Zero(timing.NS)
			step := clk.HalfPeriod()
			for i := 0; i < 2*k; i++ {
				now = now.Add(step)
				r.TimeIsNow(now)
			}

			Expect(clk.ToggleCount()).To(Equal(uint64(2*k)), "k=%d", k)
			Expect(w.Value()).To(Equal(uint64(0)))
		}
	})
})
