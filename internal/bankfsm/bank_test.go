package bankfsm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/internal/bankfsm"
	"github.com/sarchlab/memsim/presets"
)

var _ = Describe("Bank", func() {
	var timing presets.TimingParams

	BeforeEach(func() {
		timing, _ = presets.LPDDR5(6400)
	})

	It("starts IDLE and classifies an access as Empty", func() {
		b := bankfsm.New(timing)
		Expect(b.State()).To(Equal(bankfsm.Idle))
		Expect(b.Classify(5)).To(Equal(bankfsm.Empty))
	})

	It("transitions IDLE -ACT-> ACTIVATING -> ACTIVE after tRCD", func() {
		b := bankfsm.New(timing)
		Expect(b.CanIssue(bankfsm.Act, 0, 3)).To(BeTrue())

		b.Issue(bankfsm.Act, 0, 3, false)
		Expect(b.State()).To(Equal(bankfsm.Activating))

		for c := uint64(0); c < uint64(timing.TRCD); c++ {
			Expect(b.Tick(c)).To(BeFalse())
		}

		Expect(b.Tick(uint64(timing.TRCD))).To(BeTrue())
		Expect(b.State()).To(Equal(bankfsm.Active))
	})

	It("classifies a matching open row as Hit and a different row as Conflict", func() {
		b := bankfsm.New(timing)
		b.Issue(bankfsm.Act, 0, 7, false)
		b.Tick(uint64(timing.TRCD))

		Expect(b.Classify(7)).To(Equal(bankfsm.Hit))
		Expect(b.Classify(8)).To(Equal(bankfsm.Conflict))
	})

	It("gates next_pre by tWL+tBurst+tWR after a write", func() {
		b := bankfsm.New(timing)
		b.Issue(bankfsm.Act, 0, 7, false)
		b.Tick(uint64(timing.TRCD))

		b.Issue(bankfsm.Wr, uint64(timing.TRCD), 7, true)
		b.Tick(uint64(timing.TRCD) + uint64(timing.TBurst))

		Expect(b.CanIssue(bankfsm.Pre, uint64(timing.TRCD)+uint64(timing.TWL)+uint64(timing.TBurst)+uint64(timing.TWR)-1, 7)).To(BeFalse())
		Expect(b.CanIssue(bankfsm.Pre, uint64(timing.TRCD)+uint64(timing.TWL)+uint64(timing.TBurst)+uint64(timing.TWR), 7)).To(BeTrue())
	})
})
