package memsim

import (
	"fmt"
	"sort"

	"github.com/sarchlab/memsim/internal/addrmap"
	"github.com/sarchlab/memsim/internal/bankfsm"
	"github.com/sarchlab/memsim/internal/bustiming"
	"github.com/sarchlab/memsim/internal/refresh"
	"github.com/sarchlab/memsim/internal/scheduler"
	"github.com/sarchlab/memsim/internal/tracer"
)

type completion struct {
	req        Request
	completeAt uint64
}

// bankLoc is the decoded location of one flattened global bank index.
type bankLoc struct {
	channel, rank, bankGroup, bank int
}

// cycleAccurateController is the CYCLE_ACCURATE fidelity: a discrete
// event simulator over per-bank protocol state machines, one request
// scheduler, and one refresh manager per channel, all bound by JEDEC
// timing.
type cycleAccurateController struct {
	cfg     ControllerConfig
	decoder *addrmap.Decoder

	cycle    uint64
	nextID   uint64
	inTick   bool

	banks      []*bankfsm.Bank
	locOf      []bankLoc
	localIdx   []int                     // bank index local to its channel's refresh manager
	rankGate   []*bustiming.RankGate     // indexed by (channel, rank)
	cmdBus     []*bustiming.CommandBus   // indexed by channel
	refreshMgr []*refresh.Manager        // indexed by channel

	lastCmdType map[int]scheduler.Type
	haveLastCmd map[int]bool

	sched *scheduler.Scheduler

	requests map[uint64]*Request
	pending  []*completion

	stats      Statistics
	violations []Violation
	sink       tracer.Sink
}

func newCycleAccurateController(cfg ControllerConfig) (*cycleAccurateController, error) {
	decoder, err := addrmap.New(schemeOf(cfg.AddressMapping), orgOf(cfg.Organization), customFieldsOf(cfg.CustomFields))
	if err != nil {
		return nil, &ConfigurationError{Field: "address_mapping", Reason: err.Error()}
	}

	c := &cycleAccurateController{
		cfg:         cfg,
		decoder:     decoder,
		lastCmdType: make(map[int]scheduler.Type),
		haveLastCmd: make(map[int]bool),
		requests:    make(map[uint64]*Request),
	}

	o := cfg.Organization
	banksPerRank := o.BankGroupsPerRank * o.BanksPerGroup
	ranksTotal := o.Channels * o.RanksPerChannel

	for ch := 0; ch < o.Channels; ch++ {
		c.refreshMgr = append(c.refreshMgr, refresh.New(refresh.Config{
			Policy:      refreshPolicyOf(cfg.RefreshPolicy),
			NumBanks:    o.RanksPerChannel * banksPerRank,
			TREFI:       cfg.Timing.TREFI,
			TRFC:        cfg.Timing.TRFC,
			TRFCpb:      cfg.Timing.TRFCpb,
			TRFCsb:      cfg.Timing.TRFCsb,
			MaxPostpone: cfg.MaxPostpone,
			MaxPullIn:   cfg.MaxPullIn,
		}))
		c.cmdBus = append(c.cmdBus, &bustiming.CommandBus{})
	}

	for i := 0; i < ranksTotal; i++ {
		c.rankGate = append(c.rankGate, bustiming.NewRankGate(cfg.Timing))
	}

	for ch := 0; ch < o.Channels; ch++ {
		for rk := 0; rk < o.RanksPerChannel; rk++ {
			for bg := 0; bg < o.BankGroupsPerRank; bg++ {
				for bk := 0; bk < o.BanksPerGroup; bk++ {
					c.banks = append(c.banks, bankfsm.New(cfg.Timing))
					c.locOf = append(c.locOf, bankLoc{channel: ch, rank: rk, bankGroup: bg, bank: bk})
					c.localIdx = append(c.localIdx, rk*banksPerRank+bg*o.BanksPerGroup+bk)
				}
			}
		}
	}

	c.sched = scheduler.New(scheduler.Config{
		Policy:        schedulerPolicyOf(cfg.SchedulerPolicy),
		BufferOrg:     bufferOrgOf(cfg.BufferOrganization),
		Capacity:      cfg.QueueDepth,
		HighWatermark: cfg.HighWatermark,
		LowWatermark:  cfg.LowWatermark,
	})

	if cfg.TraceSink != nil {
		c.sink = cfg.TraceSink
	} else if cfg.EnableTracing {
		c.sink = tracer.NewLogSink(nil)
	}

	return c, nil
}

func schedulerPolicyOf(p SchedulerPolicy) scheduler.Policy {
	switch p {
	case FRFCFS:
		return scheduler.FRFCFS
	case FRFCFSGrp:
		return scheduler.FRFCFSGrp
	case GrpFRFCFS:
		return scheduler.GrpFRFCFS
	case GrpFRFCFSWM:
		return scheduler.GrpFRFCFSWM
	case QoSAware:
		return scheduler.QoSAware
	default:
		return scheduler.FIFO
	}
}

func bufferOrgOf(o BufferOrganization) scheduler.BufferOrg {
	switch o {
	case Shared:
		return scheduler.Shared
	case ReadWriteSplit:
		return scheduler.ReadWriteSplit
	default:
		return scheduler.Bankwise
	}
}

func refreshPolicyOf(p RefreshPolicy) refresh.Policy {
	switch p {
	case RefreshAllBank:
		return refresh.AllBank
	case RefreshPerBank:
		return refresh.PerBank
	case RefreshSameBank:
		return refresh.SameBank
	case RefreshPer2Bank:
		return refresh.Per2Bank
	case RefreshFineGranularity:
		return refresh.FineGranularity
	default:
		return refresh.None
	}
}

func schedulerTypeOf(t RequestType) scheduler.Type {
	if t == Write {
		return scheduler.Write
	}

	return scheduler.Read
}

// globalBank returns the flattened bank index, counted across all
// channels, of the given decoded channel, rank, bank group, and bank.
func (c *cycleAccurateController) globalBank(channel, rank, bankGroup, bank int) int {
	o := c.cfg.Organization
	banksPerRank := o.BankGroupsPerRank * o.BanksPerGroup
	ranksPerChannel := o.RanksPerChannel

	return channel*ranksPerChannel*banksPerRank + rank*banksPerRank + bankGroup*o.BanksPerGroup + bank
}

func (c *cycleAccurateController) rankIndex(channel, rank int) int {
	return channel*c.cfg.Organization.RanksPerChannel + rank
}

// Submit validates and stores req, deferring completion to a later
// Tick.
func (c *cycleAccurateController) Submit(req Request) (uint64, error) {
	decoded, err := c.decoder.Decode(req.Address)
	if err != nil {
		return 0, &InvalidAddressError{Address: req.Address, Reason: err.Error()}
	}

	bank := c.globalBank(decoded.Channel, decoded.Rank, decoded.BankGroup, decoded.Bank)

	if !c.sched.HasSpace(bank, schedulerTypeOf(req.Type)) {
		return 0, &QueueFullError{Bank: bank}
	}

	c.nextID++
	req.ID = c.nextID
	req.SubmitCycle = c.cycle
	req.Channel, req.Rank, req.BankGroup, req.Bank, req.Row, req.Column =
		decoded.Channel, decoded.Rank, decoded.BankGroup, decoded.Bank, decoded.Row, decoded.Column

	entry := &scheduler.Entry{
		ID:       req.ID,
		Bank:     bank,
		Row:      req.Row,
		Address:  req.Address,
		Type:     schedulerTypeOf(req.Type),
		Priority: priorityOf(req.Priority),
	}

	if err := c.sched.Store(entry); err != nil {
		return 0, &QueueFullError{Bank: bank}
	}

	c.requests[req.ID] = &req

	if c.sink != nil {
		c.sink.Record(tracer.Event{Kind: "start", ID: req.ID, Cycle: c.cycle, Address: req.Address, ByteSize: req.ByteSize})
	}

	return req.ID, nil
}

func priorityOf(p Priority) scheduler.Priority {
	switch p {
	case PriorityHigh:
		return scheduler.High
	case PriorityRealtime:
		return scheduler.Realtime
	case PriorityLow:
		return scheduler.Low
	default:
		return scheduler.Normal
	}
}

// Tick advances the clock by one cycle, performing the five
// sub-phases in the fixed order: bank transitions, refresh tick,
// arbitration/issue, completions, invariant checks.
func (c *cycleAccurateController) Tick() {
	if c.inTick {
		panic("memsim: re-entrant Tick")
	}

	c.inTick = true
	defer func() { c.inTick = false }()

	c.cycle++
	now := c.cycle

	for _, b := range c.banks {
		b.Tick(now)
	}

	for _, rm := range c.refreshMgr {
		rm.Tick(now)
	}

	for ch := range c.cmdBus {
		c.cmdBus[ch].BeginCycle()
	}

	c.arbitrateAndIssue(now)
	c.recordChannelActivity()
	c.fireCompletions(now)

	if c.cfg.EnableInvariants {
		c.checkInvariants(now)
	}
}

func (c *cycleAccurateController) TickN(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

func (c *cycleAccurateController) Drain() {
	for c.HasPending() {
		c.Tick()
	}
}

// recordChannelActivity folds each channel's command bus outcome for
// this cycle into the busy/idle/stall counters: busy when a command
// issued, stall when a bank on that channel had pending work but
// nothing issued, idle otherwise.
func (c *cycleAccurateController) recordChannelActivity() {
	pending := make([]bool, len(c.cmdBus))

	for bankIdx, loc := range c.locOf {
		if c.sched.HasPending(bankIdx) {
			pending[loc.channel] = true
		}
	}

	for ch := range c.cmdBus {
		switch {
		case c.cmdBus[ch].Issued():
			c.stats.BusyCycles++
		case pending[ch]:
			c.stats.StallCycles++
		default:
			c.stats.IdleCycles++
		}
	}
}

func (c *cycleAccurateController) arbitrateAndIssue(now uint64) {
	for bankIdx, bank := range c.banks {
		loc := c.locOf[bankIdx]
		ch := loc.channel
		rg := c.rankGate[c.rankIndex(loc.channel, loc.rank)]
		rm := c.refreshMgr[ch]

		local := c.localIdx[bankIdx]

		if rm.RefreshUrgent(local, now) {
			// An open bank is precharged first so the refresh can
			// follow once it is idle.
			if bank.CanIssue(bankfsm.Ref, now, 0) && c.cmdBus[ch].TryIssue(now) {
				cost := rm.Cost()
				bank.IssueRefresh(now, cost)
				rm.Issued(rm.AffectedBanks(local), now)
				c.stats.RefreshCount++
			} else if bank.CanIssue(bankfsm.Pre, now, 0) && c.cmdBus[ch].TryIssue(now) {
				bank.Issue(bankfsm.Pre, now, 0, false)
			}

			continue
		}

		if !c.sched.HasPending(bankIdx) {
			if rm.RefreshRequired(local, now) {
				if bank.CanIssue(bankfsm.Ref, now, 0) && c.cmdBus[ch].TryIssue(now) {
					cost := rm.Cost()
					bank.IssueRefresh(now, cost)
					rm.Issued(rm.AffectedBanks(local), now)
					c.stats.RefreshCount++
				}

				continue
			}

			if rm.CanPullIn(local) && bank.CanIssue(bankfsm.Ref, now, 0) && c.cmdBus[ch].TryIssue(now) {
				rm.PullIn(local, now)
				rm.Issued(rm.AffectedBanks(local), now)
				cost := rm.Cost()
				bank.IssueRefresh(now, cost)
				c.stats.RefreshCount++
			}

			continue
		}

		if rm.RefreshRequired(local, now) && rm.CanPostpone(local, now) {
			rm.Postpone(local)
		}

		openRow, hasOpenRow := bank.OpenRow()
		lastCmd, hasLastCmd := c.lastCmdType[bankIdx], c.haveLastCmd[bankIdx]

		entry, ok := c.sched.GetNext(bankIdx, openRow, hasOpenRow, lastCmd, hasLastCmd)
		if !ok {
			continue
		}

		class := bank.Classify(entry.Row)

		// A request can straddle several ticks (Empty -> ACT -> CAS,
		// Conflict -> PRE -> ACT -> CAS); by the tick CAS actually
		// issues the row is always open and matching, so the bank's
		// state no longer reflects how this request first found it.
		// Record the classification the first time the request is
		// selected and never overwrite it afterward.
		if req := c.requests[entry.ID]; req != nil && req.classified == Unclassified {
			req.classified = classificationOf(class)
		}

		switch class {
		case bankfsm.Empty:
			if bank.CanIssue(bankfsm.Act, now, entry.Row) && rg.CanActivate(now) && c.cmdBus[ch].TryIssue(now) {
				bank.Issue(bankfsm.Act, now, entry.Row, false)
				rg.RecordActivate(now)
			}
		case bankfsm.Conflict:
			if bank.CanIssue(bankfsm.Pre, now, entry.Row) && c.cmdBus[ch].TryIssue(now) {
				bank.Issue(bankfsm.Pre, now, entry.Row, false)
			}
		case bankfsm.Hit:
			c.issueCAS(now, bankIdx, bank, rg, entry)
		}
	}
}

func (c *cycleAccurateController) issueCAS(now uint64, bankIdx int, bank *bankfsm.Bank, rg *bustiming.RankGate, entry *scheduler.Entry) {
	ch := c.locOf[bankIdx].channel
	sameGroup := rg.SameGroupAsLastCAS(c.locOf[bankIdx].bankGroup)
	prevCmd, hadPrevCmd := c.lastCmdType[bankIdx], c.haveLastCmd[bankIdx]

	if entry.Type == scheduler.Read {
		if !bank.CanIssue(bankfsm.Rd, now, entry.Row) || !rg.CanRead(now, c.locOf[bankIdx].bankGroup) {
			return
		}

		if !c.cmdBus[ch].TryIssue(now) {
			return
		}

		bank.Issue(bankfsm.Rd, now, entry.Row, sameGroup)
		rg.RecordRead(now, c.locOf[bankIdx].bankGroup)
		c.completeCAS(now, bankIdx, entry,
			uint64(c.cfg.Timing.TCL)+uint64(c.cfg.Timing.TBurst))
	} else {
		if !bank.CanIssue(bankfsm.Wr, now, entry.Row) || !rg.CanWrite(now, c.locOf[bankIdx].bankGroup) {
			return
		}

		if !c.cmdBus[ch].TryIssue(now) {
			return
		}

		bank.Issue(bankfsm.Wr, now, entry.Row, sameGroup)
		rg.RecordWrite(now, c.locOf[bankIdx].bankGroup)
		c.completeCAS(now, bankIdx, entry,
			uint64(c.cfg.Timing.TWL)+uint64(c.cfg.Timing.TBurst))
	}

	if hadPrevCmd {
		if prevCmd != entry.Type {
			if entry.Type == scheduler.Read {
				c.stats.WriteToReadTurnarounds++
			} else {
				c.stats.ReadToWriteTurnarounds++
			}
		} else {
			c.stats.GroupingDecisions++
		}
	}

	c.lastCmdType[bankIdx] = entry.Type
	c.haveLastCmd[bankIdx] = true
	c.sched.Remove(entry.ID)

	c.stats.RequestsSelected++
}

func (c *cycleAccurateController) completeCAS(now uint64, bankIdx int, entry *scheduler.Entry, latencyCycles uint64) {
	req := c.requests[entry.ID]
	if req == nil {
		return
	}

	c.stats.RowHitsSelected++

	c.pending = append(c.pending, &completion{req: *req, completeAt: now + latencyCycles})
	delete(c.requests, entry.ID)
}

func classificationOf(c bankfsm.Classification) Classification {
	switch c {
	case bankfsm.Hit:
		return PageHit
	case bankfsm.Empty:
		return PageEmpty
	case bankfsm.Conflict:
		return PageConflict
	default:
		return Unclassified
	}
}

func (c *cycleAccurateController) fireCompletions(now uint64) {
	var due []*completion
	var kept []*completion

	for _, p := range c.pending {
		if p.completeAt <= now {
			due = append(due, p)
		} else {
			kept = append(kept, p)
		}
	}

	c.pending = kept

	sort.Slice(due, func(i, j int) bool { return due[i].req.ID < due[j].req.ID })

	for _, p := range due {
		latency := now - p.req.SubmitCycle

		if c.cfg.EnableStatistics {
			c.stats.recordCompletion(p.req.Type, latency, p.req.classified)
		}

		if c.sink != nil {
			c.sink.Record(tracer.Event{Kind: "end", ID: p.req.ID, Cycle: now, Latency: latency})
		}

		p.req.complete(latency)
	}
}

func (c *cycleAccurateController) checkInvariants(now uint64) {
	for bankIdx := range c.banks {
		pc := c.refreshMgr[c.locOf[bankIdx].channel].PostponeCount(c.localIdx[bankIdx])
		if pc > c.cfg.MaxPostpone {
			c.violations = append(c.violations, Violation{
				Cycle: now, InvariantID: "REFRESH-POSTPONE-BOUND",
				Message: fmt.Sprintf("postpone_count %d exceeds max_postpone %d", pc, c.cfg.MaxPostpone),
				Bank:    bankIdx,
			})

			if c.sink != nil {
				c.sink.Record(tracer.Event{Kind: "violation", Cycle: now, Message: c.violations[len(c.violations)-1].Message})
			}
		}
	}
}

func (c *cycleAccurateController) Reset() {
	c.cycle = 0
	c.nextID = 0
	c.inTick = false
	c.stats.reset()
	c.violations = nil
	c.pending = nil
	c.requests = make(map[uint64]*Request)
	c.lastCmdType = make(map[int]scheduler.Type)
	c.haveLastCmd = make(map[int]bool)
	c.sched.Reset()

	for _, b := range c.banks {
		*b = *bankfsm.New(c.cfg.Timing)
	}

	for _, rg := range c.rankGate {
		rg.Reset()
	}

	for _, bus := range c.cmdBus {
		bus.Reset()
	}

	for _, rm := range c.refreshMgr {
		rm.Reset()
	}
}

func (c *cycleAccurateController) Cycle() uint64          { return c.cycle }
func (c *cycleAccurateController) Fidelity() Fidelity     { return CycleAccurate }
func (c *cycleAccurateController) Technology() Technology { return c.cfg.Technology }
func (c *cycleAccurateController) HasPending() bool       { return c.sched.HasAnyPending() || len(c.pending) > 0 }
func (c *cycleAccurateController) PendingCount() int      { return c.sched.Occupancy() + len(c.pending) }
func (c *cycleAccurateController) Statistics() Statistics { return c.stats }
func (c *cycleAccurateController) Violations() []Violation { return c.violations }
