package memsim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/memsim"
	"github.com/sarchlab/memsim/internal/tracer"
)

var _ = Describe("WithTraceSink", func() {
	It("forwards a start and end event for a behavioral completion", func() {
		ctrl := gomock.NewController(GinkgoT())
		sink := tracer.NewMockSink(ctrl)

		gomock.InOrder(
			sink.EXPECT().Record(gomock.AssignableToTypeOf(tracer.Event{})).Do(func(e tracer.Event) {
				Expect(e.Kind).To(Equal("start"))
			}),
			sink.EXPECT().Record(gomock.AssignableToTypeOf(tracer.Event{})).Do(func(e tracer.Event) {
				Expect(e.Kind).To(Equal("end"))
			}),
		)

		mc, err := memsim.MakeBuilder().
			WithFidelity(memsim.Behavioral).
			WithTechnology(memsim.IDEAL, 1).
			WithTraceSink(sink).
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = mc.Submit(memsim.NewRequest(0, 64, memsim.Read, memsim.PriorityNormal, func(uint64) {}))
		Expect(err).NotTo(HaveOccurred())
	})
})
