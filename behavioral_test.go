package memsim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim"
)

var _ = Describe("Behavioral controller", func() {
	It("completes a read synchronously with the fixed read latency", func() {
		b := memsim.MakeBuilder().
			WithFidelity(memsim.Behavioral).
			WithTechnology(memsim.IDEAL, 1)

		ctrl, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		var latency uint64
		var fired bool
		_, err = ctrl.Submit(memsim.NewRequest(0, 64, memsim.Read, memsim.PriorityNormal,
			func(l uint64) { latency = l; fired = true }))
		Expect(err).NotTo(HaveOccurred())

		Expect(fired).To(BeTrue())
		Expect(latency).To(Equal(uint64(b.Config().Timing.FixedReadLatency)))
	})

	It("never reports pending work, since completion is synchronous", func() {
		ctrl, err := memsim.MakeBuilder().WithFidelity(memsim.Behavioral).WithTechnology(memsim.IDEAL, 1).Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(0, 64, memsim.Write, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())

		Expect(ctrl.HasPending()).To(BeFalse())
		Expect(ctrl.PendingCount()).To(Equal(0))
	})

	It("accumulates read and write statistics separately", func() {
		ctrl, err := memsim.MakeBuilder().WithFidelity(memsim.Behavioral).WithTechnology(memsim.IDEAL, 1).Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(0, 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())
		_, err = ctrl.Submit(memsim.NewRequest(64, 64, memsim.Write, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())

		stats := ctrl.Statistics()
		Expect(stats.Reads).To(Equal(uint64(1)))
		Expect(stats.Writes).To(Equal(uint64(1)))
		Expect(stats.TotalRequests()).To(Equal(uint64(2)))
	})
})
