package memsim

import "github.com/sarchlab/memsim/internal/tracer"

// behavioralController is the BEHAVIORAL fidelity foil: every
// request completes with a fixed latency, its callback firing
// synchronously from Submit. Tick only advances the cycle counter.
type behavioralController struct {
	cfg   ControllerConfig
	cycle uint64
	nextID uint64
	stats Statistics
	sink  tracer.Sink
}

func newBehavioralController(cfg ControllerConfig) *behavioralController {
	c := &behavioralController{cfg: cfg}

	if cfg.TraceSink != nil {
		c.sink = cfg.TraceSink
	} else if cfg.EnableTracing {
		c.sink = tracer.NewLogSink(nil)
	}

	return c
}

func (c *behavioralController) Submit(req Request) (uint64, error) {
	c.nextID++
	req.ID = c.nextID
	req.SubmitCycle = c.cycle

	var latency uint64
	if req.IsRead() {
		latency = uint64(c.cfg.Timing.FixedReadLatency)
	} else {
		latency = uint64(c.cfg.Timing.FixedWriteLatency)
	}

	if c.cfg.EnableStatistics {
		c.stats.recordCompletion(req.Type, latency, Unclassified)
	}

	if c.sink != nil {
		c.sink.Record(tracer.Event{Kind: "start", ID: req.ID, Cycle: c.cycle, Address: req.Address, ByteSize: req.ByteSize})
		c.sink.Record(tracer.Event{Kind: "end", ID: req.ID, Cycle: c.cycle, Latency: latency})
	}

	req.complete(latency)

	return req.ID, nil
}

func (c *behavioralController) Tick()          { c.cycle++ }
func (c *behavioralController) TickN(n int)    { c.cycle += uint64(n) }
func (c *behavioralController) Drain()         {}
func (c *behavioralController) Cycle() uint64  { return c.cycle }
func (c *behavioralController) Fidelity() Fidelity     { return Behavioral }
func (c *behavioralController) Technology() Technology { return c.cfg.Technology }
func (c *behavioralController) HasPending() bool       { return false }
func (c *behavioralController) PendingCount() int      { return 0 }
func (c *behavioralController) Statistics() Statistics { return c.stats }
func (c *behavioralController) Violations() []Violation { return nil }

func (c *behavioralController) Reset() {
	c.cycle = 0
	c.nextID = 0
	c.stats.reset()
}
