// Package bustiming tracks the global timing gates that span more
// than one bank: the command bus's one-issue-per-cycle limit, the
// tFAW four-activate window per rank, and the tCCD/tWTR/tRTW
// bank-group-aware bus-turnaround gates. None of this state belongs
// to any single bankfsm.Bank.
package bustiming

import "github.com/sarchlab/memsim/presets"

// RankGate tracks per-rank global timing: the tFAW activate window
// and the last CAS issued to each bank group (for choosing the L/S
// timing variant and for tCCD/tWTR gating).
type RankGate struct {
	timing presets.TimingParams

	actHistory []uint64 // ring of up to 4 most recent ACT cycles, oldest first

	lastCasCycle     map[int]uint64 // per bank group
	lastCasBankGroup int
	haveLastCas      bool

	lastReadCycle  uint64
	haveLastRead   bool
	lastWriteCycle uint64
	haveLastWrite  bool
}

// NewRankGate builds a RankGate for one rank.
func NewRankGate(timing presets.TimingParams) *RankGate {
	return &RankGate{
		timing:       timing,
		lastCasCycle: make(map[int]uint64),
	}
}

// CanActivate reports whether an ACT at cycle now would violate tFAW:
// at most four ACTs may fall within any tFAW-cycle window.
func (g *RankGate) CanActivate(now uint64) bool {
	if len(g.actHistory) < 4 {
		return true
	}

	oldest := g.actHistory[0]

	return now >= oldest+uint64(g.timing.TFAW)
}

// RecordActivate appends now to the tFAW ring, evicting the oldest
// entry once four are held.
func (g *RankGate) RecordActivate(now uint64) {
	g.actHistory = append(g.actHistory, now)
	if len(g.actHistory) > 4 {
		g.actHistory = g.actHistory[1:]
	}
}

// SameGroupAsLastCAS reports whether bankGroup matches the bank group
// of the most recently issued CAS on this rank, which selects the L
// timing variant (true) vs. S (false). No prior CAS defaults to S
// (different group), matching the controller's own conservative
// first-access behavior.
func (g *RankGate) SameGroupAsLastCAS(bankGroup int) bool {
	return g.haveLastCas && g.lastCasBankGroup == bankGroup
}

// CanRead reports whether a read at now on bankGroup satisfies
// tWTR_{L,S} (against the last write) and tCCD_{L,S} (against the
// last CAS to this bank group).
func (g *RankGate) CanRead(now uint64, bankGroup int) bool {
	if g.haveLastWrite {
		wtr := g.timing.TWTRS
		if g.SameGroupAsLastCAS(bankGroup) {
			wtr = g.timing.TWTRL
		}

		if now < g.lastWriteCycle+uint64(wtr) {
			return false
		}
	}

	if last, ok := g.lastCasCycle[bankGroup]; ok {
		ccd := g.timing.TCCDS
		if g.SameGroupAsLastCAS(bankGroup) {
			ccd = g.timing.TCCDL
		}

		if now < last+uint64(ccd) {
			return false
		}
	}

	return true
}

// CanWrite reports whether a write at now on bankGroup satisfies tRTW
// (against the last read) and tCCD_{L,S}.
func (g *RankGate) CanWrite(now uint64, bankGroup int) bool {
	if g.haveLastRead {
		if now < g.lastReadCycle+uint64(g.timing.TRTW) {
			return false
		}
	}

	if last, ok := g.lastCasCycle[bankGroup]; ok {
		ccd := g.timing.TCCDS
		if g.SameGroupAsLastCAS(bankGroup) {
			ccd = g.timing.TCCDL
		}

		if now < last+uint64(ccd) {
			return false
		}
	}

	return true
}

// RecordRead updates the last-CAS and last-read bookkeeping after a
// read is issued.
func (g *RankGate) RecordRead(now uint64, bankGroup int) {
	g.lastCasCycle[bankGroup] = now
	g.lastCasBankGroup = bankGroup
	g.haveLastCas = true
	g.lastReadCycle = now
	g.haveLastRead = true
}

// RecordWrite updates the last-CAS and last-write bookkeeping after a
// write is issued.
func (g *RankGate) RecordWrite(now uint64, bankGroup int) {
	g.lastCasCycle[bankGroup] = now
	g.lastCasBankGroup = bankGroup
	g.haveLastCas = true
	g.lastWriteCycle = now
	g.haveLastWrite = true
}

// Reset clears all recorded history, for controller Reset().
func (g *RankGate) Reset() {
	g.actHistory = nil
	g.lastCasCycle = make(map[int]uint64)
	g.haveLastCas = false
	g.haveLastRead = false
	g.haveLastWrite = false
}

// CommandBus enforces at most one command issued per cycle across an
// entire channel.
type CommandBus struct {
	lastIssueCycle uint64
	issuedThisTick bool
	haveIssued     bool
}

// TryIssue reports whether a command may be issued at now, and if so
// marks the bus as occupied for this cycle. A caller must call
// BeginCycle at the start of each tick before the first TryIssue.
func (c *CommandBus) TryIssue(now uint64) bool {
	if c.issuedThisTick {
		return false
	}

	c.issuedThisTick = true
	c.lastIssueCycle = now
	c.haveIssued = true

	return true
}

// BeginCycle clears the per-cycle issue flag.
func (c *CommandBus) BeginCycle() {
	c.issuedThisTick = false
}

// Issued reports whether a command has already been issued this
// cycle, for the controller's busy/idle/stall accounting.
func (c *CommandBus) Issued() bool {
	return c.issuedThisTick
}

// Reset clears all bus history.
func (c *CommandBus) Reset() {
	*c = CommandBus{}
}
