package memsim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim"
)

var _ = Describe("New", func() {
	It("rejects a configuration with zero banks", func() {
		cfg := memsim.MakeBuilder().Config()
		cfg.Organization.BanksPerGroup = 0

		_, err := memsim.New(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&memsim.ConfigurationError{}))
	})

	It("rejects a configuration with zero queue depth", func() {
		cfg := memsim.MakeBuilder().WithQueueDepth(0).Config()

		_, err := memsim.New(cfg)
		Expect(err).To(HaveOccurred())
	})

	It("rejects cycle-accurate timings where tRAS is less than tRCD", func() {
		cfg := memsim.MakeBuilder().WithFidelity(memsim.CycleAccurate).Config()
		cfg.Timing.TRAS = cfg.Timing.TRCD - 1

		_, err := memsim.New(cfg)
		Expect(err).To(HaveOccurred())
	})

	It("builds a working controller for every fidelity", func() {
		for _, f := range []memsim.Fidelity{memsim.Behavioral, memsim.Transactional, memsim.CycleAccurate} {
			ctrl, err := memsim.MakeBuilder().WithFidelity(f).WithTechnology(memsim.IDEAL, 1).Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(ctrl.Fidelity()).To(Equal(f))
		}
	})
})

var _ = Describe("Statistics", func() {
	It("merges additively across independent bundles", func() {
		var a, b memsim.Statistics
		a.Reads = 3
		a.TotalReadLatency = 30
		b.Reads = 2
		b.TotalReadLatency = 10

		a.Merge(&b)

		Expect(a.Reads).To(Equal(uint64(5)))
		Expect(a.TotalReadLatency).To(Equal(uint64(40)))
		Expect(a.AvgReadLatency()).To(Equal(8.0))
	})

	It("reports zero-valued derived metrics with no samples", func() {
		var s memsim.Statistics
		Expect(s.AvgLatency()).To(Equal(0.0))
		Expect(s.PageHitRate()).To(Equal(0.0))
		Expect(s.Utilization()).To(Equal(0.0))
	})
})

var _ = Describe("Builder", func() {
	It("carries technology presets through WithTechnology", func() {
		cfg := memsim.MakeBuilder().WithTechnology(memsim.HBM3, 5600).Config()
		Expect(cfg.Technology).To(Equal(memsim.HBM3))
		Expect(cfg.Timing.TRCD).To(BeNumerically(">", 0))
		Expect(cfg.Organization.BankGroupsPerRank).To(BeNumerically(">", 0))
	})

	It("does not mutate the receiver, since each With* returns a new value", func() {
		base := memsim.MakeBuilder()
		withLow := base.WithQueueDepth(1)

		Expect(base.Config().QueueDepth).NotTo(Equal(1))
		Expect(withLow.Config().QueueDepth).To(Equal(1))
	})
})
