package memsim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim"
)

var _ = Describe("Transactional controller", func() {
	It("defers completion to a later Tick", func() {
		ctrl, err := memsim.MakeBuilder().
			WithFidelity(memsim.Transactional).
			WithTechnology(memsim.IDEAL, 1).
			WithQueueDepth(4).
			Build()
		Expect(err).NotTo(HaveOccurred())

		fired := false
		_, err = ctrl.Submit(memsim.NewRequest(0, 64, memsim.Read, memsim.PriorityNormal,
			func(uint64) { fired = true }))
		Expect(err).NotTo(HaveOccurred())

		Expect(fired).To(BeFalse())
		Expect(ctrl.HasPending()).To(BeTrue())

		ctrl.Drain()

		Expect(fired).To(BeTrue())
		Expect(ctrl.HasPending()).To(BeFalse())
	})

	It("rejects a submission once the queue depth is reached", func() {
		ctrl, err := memsim.MakeBuilder().
			WithFidelity(memsim.Transactional).
			WithTechnology(memsim.IDEAL, 1).
			WithQueueDepth(1).
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(0, 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(64, 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&memsim.QueueFullError{}))
	})

	It("classifies the first access to a bank as a page empty and a repeat as a page hit", func() {
		ctrl, err := memsim.MakeBuilder().
			WithFidelity(memsim.Transactional).
			WithTechnology(memsim.IDEAL, 1).
			WithQueueDepth(4).
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = ctrl.Submit(memsim.NewRequest(0, 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())
		ctrl.Drain()

		_, err = ctrl.Submit(memsim.NewRequest(0, 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())
		ctrl.Drain()

		stats := ctrl.Statistics()
		Expect(stats.PageEmpty).To(Equal(uint64(1)))
		Expect(stats.PageHits).To(Equal(uint64(1)))
	})
})
