package scheduler_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/internal/scheduler"
)

var _ = Describe("Scheduler", func() {
	It("FIFO returns entries in arrival order", func() {
		s := scheduler.New(scheduler.Config{Policy: scheduler.FIFO, BufferOrg: scheduler.Bankwise, Capacity: 8})

		Expect(s.Store(&scheduler.Entry{ID: 1, Bank: 0, Row: 1, Address: 100})).To(Succeed())
		Expect(s.Store(&scheduler.Entry{ID: 2, Bank: 0, Row: 2, Address: 200})).To(Succeed())

		e, ok := s.GetNext(0, 0, false, scheduler.Read, false)
		Expect(ok).To(BeTrue())
		Expect(e.ID).To(Equal(uint64(1)))
	})

	It("FR-FCFS prefers a row hit over arrival order", func() {
		s := scheduler.New(scheduler.Config{Policy: scheduler.FRFCFS, BufferOrg: scheduler.Bankwise, Capacity: 8})

		Expect(s.Store(&scheduler.Entry{ID: 1, Bank: 0, Row: 1, Address: 100})).To(Succeed())
		Expect(s.Store(&scheduler.Entry{ID: 2, Bank: 0, Row: 2, Address: 200})).To(Succeed())

		e, ok := s.GetNext(0, 2, true, scheduler.Read, false)
		Expect(ok).To(BeTrue())
		Expect(e.ID).To(Equal(uint64(2)))
	})

	It("reports queue full via HasSpace before Store is attempted", func() {
		s := scheduler.New(scheduler.Config{Policy: scheduler.FIFO, BufferOrg: scheduler.Bankwise, Capacity: 1})

		Expect(s.Store(&scheduler.Entry{ID: 1, Bank: 0})).To(Succeed())
		Expect(s.HasSpace(0, scheduler.Read)).To(BeFalse())
	})

	// S5: W(A,R), R(B,R), W(C,R) on a bank ACTIVE at row R with
	// last_cmd=WRITE. FR-FCFS-GRP must return W(A), then W(C), then
	// R(B).
	It("FR-FCFS-GRP groups same-type row hits before switching type", func() {
		s := scheduler.New(scheduler.Config{Policy: scheduler.FRFCFSGrp, BufferOrg: scheduler.Bankwise, Capacity: 8})

		Expect(s.Store(&scheduler.Entry{ID: 1, Bank: 0, Row: 5, Address: 0xA, Type: scheduler.Write})).To(Succeed())
		Expect(s.Store(&scheduler.Entry{ID: 2, Bank: 0, Row: 5, Address: 0xB, Type: scheduler.Read})).To(Succeed())
		Expect(s.Store(&scheduler.Entry{ID: 3, Bank: 0, Row: 5, Address: 0xC, Type: scheduler.Write})).To(Succeed())

		e, ok := s.GetNext(0, 5, true, scheduler.Write, true)
		Expect(ok).To(BeTrue())
		Expect(e.ID).To(Equal(uint64(1)))
		s.Remove(e.ID)

		e, ok = s.GetNext(0, 5, true, scheduler.Write, true)
		Expect(ok).To(BeTrue())
		Expect(e.ID).To(Equal(uint64(3)))
		s.Remove(e.ID)

		e, ok = s.GetNext(0, 5, true, scheduler.Write, true)
		Expect(ok).To(BeTrue())
		Expect(e.ID).To(Equal(uint64(2)))
	})

	It("FR-FCFS-GRP never selects a request blocked by an earlier same-address request", func() {
		s := scheduler.New(scheduler.Config{Policy: scheduler.FRFCFSGrp, BufferOrg: scheduler.Bankwise, Capacity: 8})

		Expect(s.Store(&scheduler.Entry{ID: 1, Bank: 0, Row: 5, Address: 0xA, Type: scheduler.Write})).To(Succeed())
		Expect(s.Store(&scheduler.Entry{ID: 2, Bank: 0, Row: 5, Address: 0xA, Type: scheduler.Write})).To(Succeed())

		e, ok := s.GetNext(0, 5, true, scheduler.Write, true)
		Expect(ok).To(BeTrue())
		Expect(e.ID).To(Equal(uint64(1)))
	})

	It("GRP-FR-FCFS-WM switches type once the opposite queue exceeds the high watermark", func() {
		s := scheduler.New(scheduler.Config{
			Policy: scheduler.GrpFRFCFSWM, BufferOrg: scheduler.Bankwise, Capacity: 16,
			HighWatermark: 2, LowWatermark: 1,
		})

		Expect(s.Store(&scheduler.Entry{ID: 1, Bank: 0, Row: 1, Type: scheduler.Read})).To(Succeed())
		Expect(s.Store(&scheduler.Entry{ID: 2, Bank: 0, Row: 1, Type: scheduler.Write})).To(Succeed())
		Expect(s.Store(&scheduler.Entry{ID: 3, Bank: 0, Row: 1, Type: scheduler.Write})).To(Succeed())
		Expect(s.Store(&scheduler.Entry{ID: 4, Bank: 0, Row: 1, Type: scheduler.Write})).To(Succeed())

		e, ok := s.GetNext(0, 1, true, scheduler.Read, true)
		Expect(ok).To(BeTrue())
		Expect(e.Type).To(Equal(scheduler.Write))
	})

	It("QOS_AWARE prefers REALTIME over lower priorities", func() {
		s := scheduler.New(scheduler.Config{Policy: scheduler.QoSAware, BufferOrg: scheduler.Bankwise, Capacity: 8})

		Expect(s.Store(&scheduler.Entry{ID: 1, Bank: 0, Priority: scheduler.Normal})).To(Succeed())
		Expect(s.Store(&scheduler.Entry{ID: 2, Bank: 0, Priority: scheduler.Realtime})).To(Succeed())

		e, ok := s.GetNext(0, 0, false, scheduler.Read, false)
		Expect(ok).To(BeTrue())
		Expect(e.ID).To(Equal(uint64(2)))
	})
})
