package memsim

import (
	"math/rand"

	"github.com/sarchlab/memsim/internal/addrmap"
	"github.com/sarchlab/memsim/internal/tracer"
)

// pendingTxn is one in-flight transactional request awaiting its
// sampled completion cycle.
type pendingTxn struct {
	req          Request
	completeAt   uint64
	latency      uint64
}

// transactionalController is the TRANSACTIONAL fidelity foil: latency
// is sampled from a normal distribution and scaled by a page-state
// factor derived from a simple per-bank open-row tracker, not from a
// real bank state machine.
type transactionalController struct {
	cfg     ControllerConfig
	decoder *addrmap.Decoder
	cycle   uint64
	nextID  uint64
	stats   Statistics
	sink    tracer.Sink
	rng     *rand.Rand

	openRow map[int]int // bank -> currently tracked open row

	pending []*pendingTxn
}

func newTransactionalController(cfg ControllerConfig) *transactionalController {
	c := &transactionalController{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(1)),
		openRow: make(map[int]int),
	}

	c.decoder, _ = addrmap.New(schemeOf(cfg.AddressMapping), orgOf(cfg.Organization), customFieldsOf(cfg.CustomFields))

	if cfg.TraceSink != nil {
		c.sink = cfg.TraceSink
	} else if cfg.EnableTracing {
		c.sink = tracer.NewLogSink(nil)
	}

	return c
}

func (c *transactionalController) Submit(req Request) (uint64, error) {
	if len(c.pending) >= c.cfg.QueueDepth {
		return 0, &QueueFullError{}
	}

	decoded, err := c.decoder.Decode(req.Address)
	if err != nil {
		return 0, &InvalidAddressError{Address: req.Address, Reason: err.Error()}
	}

	c.nextID++
	req.ID = c.nextID
	req.SubmitCycle = c.cycle
	req.Channel, req.Rank, req.BankGroup, req.Bank, req.Row, req.Column =
		decoded.Channel, decoded.Rank, decoded.BankGroup, decoded.Bank, decoded.Row, decoded.Column

	class := c.classify(req.Bank, req.Row)
	req.classified = class
	c.openRow[req.Bank] = req.Row

	latency := c.sampleLatency(req.Type, class)

	c.pending = append(c.pending, &pendingTxn{req: req, completeAt: c.cycle + latency, latency: latency})

	if c.sink != nil {
		c.sink.Record(tracer.Event{Kind: "start", ID: req.ID, Cycle: c.cycle, Address: req.Address, ByteSize: req.ByteSize})
	}

	return req.ID, nil
}

func (c *transactionalController) classify(bank, row int) Classification {
	prev, ok := c.openRow[bank]
	if !ok {
		return PageEmpty
	}

	if prev == row {
		return PageHit
	}

	return PageConflict
}

func (c *transactionalController) sampleLatency(typ RequestType, class Classification) uint64 {
	mean := c.cfg.Timing.MeanReadLatency
	if typ == Write {
		mean = c.cfg.Timing.MeanWriteLatency
	}

	sample := mean + c.rng.NormFloat64()*c.cfg.Timing.LatencyStddev
	if sample < 1 {
		sample = 1
	}

	switch class {
	case PageHit:
		sample *= c.cfg.Timing.PageHitFactor
	case PageEmpty:
		sample *= c.cfg.Timing.PageEmptyFactor
	case PageConflict:
		sample *= c.cfg.Timing.PageConflictFactor
	}

	if sample < 1 {
		sample = 1
	}

	return uint64(sample)
}

func (c *transactionalController) Tick() {
	c.cycle++

	kept := c.pending[:0]
	for _, p := range c.pending {
		if p.completeAt <= c.cycle {
			if c.cfg.EnableStatistics {
				c.stats.recordCompletion(p.req.Type, p.latency, p.req.classified)
			}

			if c.sink != nil {
				c.sink.Record(tracer.Event{Kind: "end", ID: p.req.ID, Cycle: c.cycle, Latency: p.latency})
			}

			p.req.complete(p.latency)
		} else {
			kept = append(kept, p)
		}
	}

	c.pending = kept
}

func (c *transactionalController) TickN(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

func (c *transactionalController) Drain() {
	for c.HasPending() {
		c.Tick()
	}
}

func (c *transactionalController) Reset() {
	c.cycle = 0
	c.nextID = 0
	c.stats.reset()
	c.pending = nil
	c.openRow = make(map[int]int)
}

func (c *transactionalController) Cycle() uint64          { return c.cycle }
func (c *transactionalController) Fidelity() Fidelity     { return Transactional }
func (c *transactionalController) Technology() Technology { return c.cfg.Technology }
func (c *transactionalController) HasPending() bool       { return len(c.pending) > 0 }
func (c *transactionalController) PendingCount() int      { return len(c.pending) }
func (c *transactionalController) Statistics() Statistics { return c.stats }
func (c *transactionalController) Violations() []Violation { return nil }
