package memsim

// Statistics is an additive counter bundle updated exclusively by
// state-changing controller calls (Submit, Tick, reset). Query
// methods that derive a metric from the counters are side-effect
// free.
type Statistics struct {
	Reads  uint64
	Writes uint64

	TotalReadLatency  uint64
	TotalWriteLatency uint64
	MinLatency        uint64
	MaxLatency        uint64

	PageHits      uint64
	PageEmpty     uint64
	PageConflicts uint64

	RefreshCount uint64

	ReadToWriteTurnarounds uint64
	WriteToReadTurnarounds uint64

	BusyCycles uint64
	IdleCycles uint64
	StallCycles uint64

	RequestsSelected  uint64
	RowHitsSelected   uint64
	GroupingDecisions uint64
}

// TotalRequests is reads + writes.
func (s *Statistics) TotalRequests() uint64 { return s.Reads + s.Writes }

// AvgReadLatency is TotalReadLatency / Reads, or 0 if there are none.
func (s *Statistics) AvgReadLatency() float64 {
	if s.Reads == 0 {
		return 0
	}

	return float64(s.TotalReadLatency) / float64(s.Reads)
}

// AvgWriteLatency is TotalWriteLatency / Writes, or 0 if there are none.
func (s *Statistics) AvgWriteLatency() float64 {
	if s.Writes == 0 {
		return 0
	}

	return float64(s.TotalWriteLatency) / float64(s.Writes)
}

// AvgLatency is the combined average latency across reads and writes.
func (s *Statistics) AvgLatency() float64 {
	total := s.Reads + s.Writes
	if total == 0 {
		return 0
	}

	return float64(s.TotalReadLatency+s.TotalWriteLatency) / float64(total)
}

// PageHitRate is PageHits / (PageHits + PageEmpty + PageConflicts).
func (s *Statistics) PageHitRate() float64 {
	total := s.PageHits + s.PageEmpty + s.PageConflicts
	if total == 0 {
		return 0
	}

	return float64(s.PageHits) / float64(total)
}

// PageConflictRate is PageConflicts / (PageHits + PageEmpty + PageConflicts).
func (s *Statistics) PageConflictRate() float64 {
	total := s.PageHits + s.PageEmpty + s.PageConflicts
	if total == 0 {
		return 0
	}

	return float64(s.PageConflicts) / float64(total)
}

// Utilization is BusyCycles / (BusyCycles + IdleCycles + StallCycles).
func (s *Statistics) Utilization() float64 {
	total := s.BusyCycles + s.IdleCycles + s.StallCycles
	if total == 0 {
		return 0
	}

	return float64(s.BusyCycles) / float64(total)
}

// ReadRatio is Reads / (Reads + Writes).
func (s *Statistics) ReadRatio() float64 {
	total := s.Reads + s.Writes
	if total == 0 {
		return 0
	}

	return float64(s.Reads) / float64(total)
}

// recordCompletion folds one completed request's latency and
// classification into the bundle. Called once per completion, never
// from a query method.
func (s *Statistics) recordCompletion(typ RequestType, latency uint64, class Classification) {
	if s.MinLatency == 0 || latency < s.MinLatency {
		s.MinLatency = latency
	}

	if latency > s.MaxLatency {
		s.MaxLatency = latency
	}

	switch typ {
	case Read:
		s.Reads++
		s.TotalReadLatency += latency
	case Write:
		s.Writes++
		s.TotalWriteLatency += latency
	}

	switch class {
	case PageHit:
		s.PageHits++
	case PageEmpty:
		s.PageEmpty++
	case PageConflict:
		s.PageConflicts++
	}
}

// Merge folds other's counters additively into s, for aggregating
// statistics across multiple independent channels or runs.
func (s *Statistics) Merge(other *Statistics) {
	if other == nil {
		return
	}

	s.Reads += other.Reads
	s.Writes += other.Writes
	s.TotalReadLatency += other.TotalReadLatency
	s.TotalWriteLatency += other.TotalWriteLatency

	if s.MinLatency == 0 || (other.MinLatency != 0 && other.MinLatency < s.MinLatency) {
		s.MinLatency = other.MinLatency
	}

	if other.MaxLatency > s.MaxLatency {
		s.MaxLatency = other.MaxLatency
	}

	s.PageHits += other.PageHits
	s.PageEmpty += other.PageEmpty
	s.PageConflicts += other.PageConflicts
	s.RefreshCount += other.RefreshCount
	s.ReadToWriteTurnarounds += other.ReadToWriteTurnarounds
	s.WriteToReadTurnarounds += other.WriteToReadTurnarounds
	s.BusyCycles += other.BusyCycles
	s.IdleCycles += other.IdleCycles
	s.StallCycles += other.StallCycles
	s.RequestsSelected += other.RequestsSelected
	s.RowHitsSelected += other.RowHitsSelected
	s.GroupingDecisions += other.GroupingDecisions
}

// reset zeroes every counter in place.
func (s *Statistics) reset() {
	*s = Statistics{}
}
