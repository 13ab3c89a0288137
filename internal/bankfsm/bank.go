// Package bankfsm implements the per-bank JEDEC protocol state
// machine: idle/activating/active/reading/writing/precharging/
// refreshing, with per-command earliest-issue cycles.
package bankfsm

import "github.com/sarchlab/memsim/presets"

// State is one of the seven bank states.
type State int

const (
	Idle State = iota
	Activating
	Active
	Reading
	Writing
	Precharging
	Refreshing
)

func (s State) String() string {
	switch s {
	case Activating:
		return "ACTIVATING"
	case Active:
		return "ACTIVE"
	case Reading:
		return "READING"
	case Writing:
		return "WRITING"
	case Precharging:
		return "PRECHARGING"
	case Refreshing:
		return "REFRESHING"
	default:
		return "IDLE"
	}
}

// Command is one of the five commands a bank accepts.
type Command int

const (
	Act Command = iota
	Rd
	Wr
	Pre
	Ref
)

// Classification records how a request's target bank looked right
// before an ACT/RD/WR decision.
type Classification int

const (
	Unclassified Classification = iota
	Hit
	Empty
	Conflict
)

// Bank is one (channel, rank, bank) protocol state machine. It holds
// no knowledge of the scheduler or of other banks; tFAW, tCCD, tWTR,
// and tRTW are cross-bank or cross-rank concerns owned by the
// bustiming package and consulted by the controller before issuing.
type Bank struct {
	timing presets.TimingParams

	state      State
	openRow    int
	rowValid   bool
	stateUntil uint64

	nextAct uint64
	nextRd  uint64
	nextWr  uint64
	nextPre uint64
}

// New builds a Bank in the IDLE state.
func New(timing presets.TimingParams) *Bank {
	return &Bank{timing: timing}
}

// State returns the bank's current state.
func (b *Bank) State() State { return b.state }

// OpenRow returns the currently open row and whether one is open
// (meaningful only in ACTIVE/READING/WRITING).
func (b *Bank) OpenRow() (row int, ok bool) { return b.openRow, b.rowValid }

// Classify reports how row compares to the bank's current state,
// without mutating anything.
func (b *Bank) Classify(row int) Classification {
	switch b.state {
	case Active, Reading, Writing:
		if b.rowValid && b.openRow == row {
			return Hit
		}

		return Conflict
	case Idle:
		return Empty
	default:
		return Unclassified
	}
}

// CanIssue reports whether cmd is eligible against this bank's own
// per-command earliest-issue cycles and state, ignoring cross-bank
// gates (tFAW, tCCD, tWTR, tRTW), which the caller must check
// separately via bustiming.
func (b *Bank) CanIssue(cmd Command, now uint64, row int) bool {
	switch cmd {
	case Act:
		return b.state == Idle && now >= b.nextAct
	case Rd:
		return b.state == Active && now >= b.nextRd
	case Wr:
		return b.state == Active && now >= b.nextWr
	case Pre:
		return b.state == Active && now >= b.nextPre
	case Ref:
		return b.state == Idle
	default:
		return false
	}
}

// Issue applies cmd's effect to the bank's state and per-command
// cycles. sameGroup selects the L (true) or S (false) timing variant
// for RD/WR transitions, per the controller's bank-group bookkeeping.
func (b *Bank) Issue(cmd Command, now uint64, row int, sameGroup bool) {
	t := b.timing

	switch cmd {
	case Act:
		b.openRow = row
		b.rowValid = true
		b.state = Activating
		b.stateUntil = now + uint64(t.TRCD)
		b.nextAct = now + uint64(t.TRC)
		b.nextRd = now + uint64(t.TRCD)
		b.nextWr = now + uint64(t.TRCD)
	case Rd:
		b.state = Reading
		b.stateUntil = now + uint64(t.TBurst)
		ccd := t.TCCDS
		if sameGroup {
			ccd = t.TCCDL
		}
		b.nextRd = now + uint64(ccd)
		b.nextWr = now + uint64(t.TRTW)
		b.nextPre = now + uint64(t.TRTP)
	case Wr:
		b.state = Writing
		b.stateUntil = now + uint64(t.TBurst)
		ccd := t.TCCDS
		wtr := t.TWTRS
		if sameGroup {
			ccd = t.TCCDL
			wtr = t.TWTRL
		}
		b.nextWr = now + uint64(ccd)
		b.nextRd = now + uint64(wtr)
		b.nextPre = now + uint64(t.TWL) + uint64(t.TBurst) + uint64(t.TWR)
	case Pre:
		b.state = Precharging
		b.stateUntil = now + uint64(t.TRP)
		b.nextAct = now + uint64(t.TRP)
		b.rowValid = false
	case Ref:
		b.state = Refreshing
		b.stateUntil = now + uint64(t.TRFCpb)
	}
}

// IssueRefresh transitions the bank to REFRESHING for durationCycles.
// The duration depends on the refresh manager's policy (tRFC,
// tRFCpb, or tRFCsb), so it is supplied by the caller rather than
// looked up from the bank's own timing table.
func (b *Bank) IssueRefresh(now uint64, durationCycles int) {
	b.state = Refreshing
	b.stateUntil = now + uint64(durationCycles)
	b.rowValid = false
}

// Tick auto-transitions ACTIVATING/PRECHARGING/REFRESHING/
// READING/WRITING when their deadline has elapsed, and reports
// whether a transition happened this call.
func (b *Bank) Tick(now uint64) bool {
	if now < b.stateUntil {
		return false
	}

	switch b.state {
	case Activating:
		b.state = Active
		return true
	case Reading, Writing:
		b.state = Active
		return true
	case Precharging, Refreshing:
		b.state = Idle
		b.openRow = 0
		b.rowValid = false
		return true
	default:
		return false
	}
}
