// Package refresh implements the refresh manager: per-bank (or
// per-rank, depending on policy) deadlines, postponement, pull-in,
// and urgency signalling.
package refresh

// Policy selects the refresh manager's granularity.
type Policy int

const (
	None Policy = iota
	AllBank
	PerBank
	SameBank
	Per2Bank
	FineGranularity
)

// Config configures a Manager.
type Config struct {
	Policy      Policy
	NumBanks    int
	TREFI       int
	TRFC        int
	TRFCpb      int
	TRFCsb      int
	MaxPostpone int
	MaxPullIn   int
}

type bankState struct {
	deadline      uint64
	postponeCount int
	pullInCount   int
}

// Manager tracks refresh deadlines for every bank and answers the
// controller's urgency questions each tick. It never issues a
// refresh itself; the controller calls Issued once it has actually
// won arbitration for the affected banks.
type Manager struct {
	cfg   Config
	banks []bankState
}

// New builds a Manager with every bank's first deadline at tREFI.
// Under FINE_GRANULARITY the tREFI used for every deadline is half
// the configured value.
func New(cfg Config) *Manager {
	if cfg.Policy == FineGranularity && cfg.TREFI > 1 {
		cfg.TREFI /= 2
	}

	m := &Manager{cfg: cfg, banks: make([]bankState, cfg.NumBanks)}
	m.Reset()

	return m
}

// Reset reinitializes every bank's deadline to tREFI and clears
// postpone/pull-in counts.
func (m *Manager) Reset() {
	for i := range m.banks {
		m.banks[i] = bankState{deadline: uint64(m.cfg.TREFI)}
	}
}

// Tick is a no-op placeholder for symmetry with the other
// per-cycle collaborators; deadlines are evaluated lazily by
// RefreshRequired/RefreshUrgent against the current cycle, so no
// state changes on a tick with no issue.
func (m *Manager) Tick(now uint64) {}

// RefreshRequired reports whether bank's deadline has been reached.
func (m *Manager) RefreshRequired(bank int, now uint64) bool {
	if m.cfg.Policy == None {
		return false
	}

	return now >= m.banks[bank].deadline
}

// RefreshUrgent reports whether bank has exhausted its postpone
// budget. Once postpone_count reaches max_postpone a bank must be
// refreshed immediately, independent of its (already-extended)
// deadline, or the tREFI*(1+max_postpone) retention bound is at risk.
func (m *Manager) RefreshUrgent(bank int, now uint64) bool {
	if m.cfg.Policy == None {
		return false
	}

	return m.banks[bank].postponeCount >= m.cfg.MaxPostpone
}

// CanPostpone reports whether bank's refresh may be deferred: true
// only when the bank is not already urgent.
func (m *Manager) CanPostpone(bank int, now uint64) bool {
	return !m.RefreshUrgent(bank, now)
}

// Postpone defers bank's refresh by one tREFI interval and increments
// its postpone count.
func (m *Manager) Postpone(bank int) {
	b := &m.banks[bank]
	b.postponeCount++
	b.deadline += uint64(m.cfg.TREFI)
}

// CanPullIn reports whether bank still has pull-in budget left, so a
// caller can check before committing to the side effects of issuing
// an early refresh.
func (m *Manager) CanPullIn(bank int) bool {
	return m.banks[bank].pullInCount < m.cfg.MaxPullIn
}

// PullIn opportunistically satisfies bank's next deadline early,
// consuming one unit of pull-in budget. Returns false if the pull-in
// budget is exhausted.
func (m *Manager) PullIn(bank int, now uint64) bool {
	b := &m.banks[bank]
	if b.pullInCount >= m.cfg.MaxPullIn {
		return false
	}

	b.pullInCount++
	b.deadline = now + uint64(m.cfg.TREFI)
	b.postponeCount = 0

	return true
}

// Cost returns the refresh cycle cost (in memory-clock cycles) for
// the configured policy.
func (m *Manager) Cost() int {
	switch m.cfg.Policy {
	case AllBank:
		return m.cfg.TRFC
	case SameBank:
		return m.cfg.TRFCsb
	case FineGranularity:
		return m.cfg.TRFCpb / 2
	case PerBank, Per2Bank:
		return m.cfg.TRFCpb
	default:
		return 0
	}
}

// AffectedBanks returns the set of bank indices one refresh issued
// against bank affects, per policy: ALL_BANK affects every bank this
// Manager tracks, PER_2_BANK affects bank and its pair (bank^1), and
// every other policy affects only bank itself. SAME_BANK is among
// the latter: it does not extend to the same bank index in other
// ranks.
func (m *Manager) AffectedBanks(bank int) []int {
	switch m.cfg.Policy {
	case AllBank:
		all := make([]int, len(m.banks))
		for i := range all {
			all[i] = i
		}

		return all
	case Per2Bank:
		pair := bank ^ 1
		if pair < len(m.banks) {
			return []int{bank, pair}
		}

		return []int{bank}
	default:
		return []int{bank}
	}
}

// Issued resets the deadline (to now + tREFI) and the postpone count
// of each bank in banks, for a refresh issued at now.
func (m *Manager) Issued(banks []int, now uint64) {
	for _, b := range banks {
		m.banks[b].deadline = now + uint64(m.cfg.TREFI)
		m.banks[b].postponeCount = 0
	}
}

// PostponeCount returns bank's current postpone count, for invariant
// checking (postpone_count <= max_postpone).
func (m *Manager) PostponeCount(bank int) int {
	return m.banks[bank].postponeCount
}
