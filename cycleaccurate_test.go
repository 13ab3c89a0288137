package memsim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim"
)

// addr builds a physical address for the default ROW_BANK_COLUMN
// mapping and organization (4 bank groups x 4 banks, 1024 columns),
// targeting a specific bank group, bank, and row with column 0.
func addr(row, bankGroup, bank int) uint64 {
	return uint64(row)<<14 | uint64(bank)<<12 | uint64(bankGroup)<<10
}

var _ = Describe("CycleAccurate controller", func() {
	It("completes a single read to an empty bank", func() {
		ctrl, err := memsim.MakeBuilder().
			WithTechnology(memsim.IDEAL, 1).
			WithQueueDepth(8).
			Build()
		Expect(err).NotTo(HaveOccurred())

		var gotLatency uint64
		done := false

		_, err = ctrl.Submit(memsim.NewRequest(addr(1, 0, 0), 64, memsim.Read, memsim.PriorityNormal,
			func(latency uint64) { gotLatency = latency; done = true }))
		Expect(err).NotTo(HaveOccurred())

		ctrl.Drain()

		Expect(done).To(BeTrue())
		Expect(gotLatency).To(BeNumerically(">", 0))
		Expect(ctrl.Statistics().Reads).To(Equal(uint64(1)))
		Expect(ctrl.Statistics().PageEmpty).To(Equal(uint64(1)))
	})

	It("classifies a second access to the same open row as a page hit", func() {
		ctrl, err := memsim.MakeBuilder().
			WithTechnology(memsim.IDEAL, 1).
			WithQueueDepth(8).
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(addr(3, 0, 0), 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())
		ctrl.Drain()

		_, err = ctrl.Submit(memsim.NewRequest(addr(3, 0, 0), 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())
		ctrl.Drain()

		Expect(ctrl.Statistics().PageHits).To(Equal(uint64(1)))
	})

	It("classifies an access to a different row on an open bank as a conflict", func() {
		ctrl, err := memsim.MakeBuilder().
			WithTechnology(memsim.IDEAL, 1).
			WithQueueDepth(8).
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(addr(3, 0, 0), 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())
		ctrl.Drain()

		_, err = ctrl.Submit(memsim.NewRequest(addr(9, 0, 0), 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())
		ctrl.Drain()

		Expect(ctrl.Statistics().PageConflicts).To(Equal(uint64(1)))
	})

	It("rejects a submission once the targeted bank's queue is full", func() {
		ctrl, err := memsim.MakeBuilder().
			WithTechnology(memsim.IDEAL, 1).
			WithQueueDepth(1).
			WithSchedulerPolicy(memsim.FIFO).
			WithBufferOrganization(memsim.Bankwise).
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(addr(1, 0, 0), 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(addr(2, 0, 0), 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&memsim.QueueFullError{}))
	})

	It("completes requests across independent banks concurrently", func() {
		ctrl, err := memsim.MakeBuilder().
			WithTechnology(memsim.IDEAL, 1).
			WithQueueDepth(8).
			Build()
		Expect(err).NotTo(HaveOccurred())

		var completed int

		_, err = ctrl.Submit(memsim.NewRequest(addr(1, 0, 0), 64, memsim.Read, memsim.PriorityNormal,
			func(uint64) { completed++ }))
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(addr(1, 0, 1), 64, memsim.Write, memsim.PriorityNormal,
			func(uint64) { completed++ }))
		Expect(err).NotTo(HaveOccurred())

		ctrl.Drain()

		Expect(completed).To(Equal(2))
		Expect(ctrl.Statistics().Reads).To(Equal(uint64(1)))
		Expect(ctrl.Statistics().Writes).To(Equal(uint64(1)))
	})

	It("rejects an out-of-range address", func() {
		ctrl, err := memsim.MakeBuilder().WithTechnology(memsim.IDEAL, 1).Build()
		Expect(err).NotTo(HaveOccurred())

		huge := uint64(1) << 40

		_, err = ctrl.Submit(memsim.NewRequest(huge, 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&memsim.InvalidAddressError{}))
	})

	It("reports no pending work and zeroed statistics after Reset", func() {
		ctrl, err := memsim.MakeBuilder().WithTechnology(memsim.IDEAL, 1).Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(addr(1, 0, 0), 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())

		ctrl.Reset()

		Expect(ctrl.HasPending()).To(BeFalse())
		Expect(ctrl.Cycle()).To(Equal(uint64(0)))
		stats := ctrl.Statistics()
		Expect(stats.TotalRequests()).To(Equal(uint64(0)))
	})

	It("issues periodic refresh when ALL_BANK refresh is enabled and the bank stays idle", func() {
		ctrl, err := memsim.MakeBuilder().
			WithTechnology(memsim.IDEAL, 1).
			WithRefreshPolicy(memsim.RefreshAllBank).
			Build()
		Expect(err).NotTo(HaveOccurred())

		ctrl.TickN(150000)

		Expect(ctrl.Statistics().RefreshCount).To(BeNumerically(">", 0))
	})

	It("forces a refresh via the postpone/urgent path even when the bank never goes idle", func() {
		b := memsim.MakeBuilder().
			WithTechnology(memsim.IDEAL, 1).
			WithRefreshPolicy(memsim.RefreshAllBank).
			WithRefreshLimits(2, 0).
			WithQueueDepth(8)

		timing := b.Config().Timing
		timing.TREFI = 20
		b = b.WithTiming(timing)

		// A single bank, so no idle neighbouring bank can account for
		// the refresh.
		org := b.Config().Organization
		org.BankGroupsPerRank = 1
		org.BanksPerGroup = 1
		b = b.WithOrganization(org)

		ctrl, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		var resubmit func()
		resubmit = func() {
			_, _ = ctrl.Submit(memsim.NewRequest(addr(1, 0, 0), 64, memsim.Read, memsim.PriorityNormal,
				func(uint64) { resubmit() }))
		}
		resubmit()

		for i := 0; i < 5000; i++ {
			ctrl.Tick()
		}

		Expect(ctrl.Statistics().RefreshCount).To(BeNumerically(">", 0))
	})
})
