package presets

// TimingParams is a full set of JEDEC timing parameters, expressed in
// memory-clock cycles. It lives in this package (rather than the
// root memsim package) because the preset tables below are the
// canonical source of values for it; memsim.TimingParams is a type
// alias to this type.
type TimingParams struct {
	TRCD int
	TRP  int
	TRAS int
	TRC  int

	TCL  int
	TWL  int
	TCWL int
	TAL  int

	TCCDL int
	TCCDS int
	TRRDL int
	TRRDS int
	TFAW  int

	TWTRL int
	TWTRS int
	TRTW  int
	TRTP  int
	TWR   int
	TPPD  int
	TRTRS int

	TBurst int

	TREFI  int
	TRFC   int
	TRFCpb int
	TRFCsb int
	TCKE   int
	TXP    int
	TXS    int
	TCKESR int
	TMRD   int
	TMOD   int

	FixedReadLatency  int
	FixedWriteLatency int

	MeanReadLatency  float64
	MeanWriteLatency float64
	LatencyStddev    float64

	PageHitFactor      float64
	PageEmptyFactor    float64
	PageConflictFactor float64
}

// OrganizationParams describes the physical layout of the memory
// subsystem: channels, ranks, bank groups, banks, rows, columns.
type OrganizationParams struct {
	Channels          int
	RanksPerChannel   int
	BankGroupsPerRank int
	BanksPerGroup     int
	RowsPerBank       int
	ColumnsPerRow     int
	DeviceWidth       int
	DevicesPerRank    int
	BurstLength       int
}

// BanksPerRank is a derived convenience: bank groups times banks per
// group.
func (o OrganizationParams) BanksPerRank() int {
	return o.BankGroupsPerRank * o.BanksPerGroup
}

// defaultOrg is the organization shared by every technology preset
// unless a technology overrides it (HBM's wider bank-group count, for
// instance).
func defaultOrg() OrganizationParams {
	return OrganizationParams{
		Channels:          1,
		RanksPerChannel:   1,
		BankGroupsPerRank: 4,
		BanksPerGroup:     4,
		RowsPerBank:       65536,
		ColumnsPerRow:     1024,
		DeviceWidth:       16,
		DevicesPerRank:    1,
		BurstLength:       16,
	}
}

// genericDefaults mirrors the DDR3-class baseline used when no
// technology-specific anchor applies: a generic, moderate timing set
// usable for IDEAL and as a fallback.
func genericDefaults() TimingParams {
	return TimingParams{
		TRCD: 14, TRP: 14, TRAS: 28, TRC: 42,
		TCL: 14, TWL: 8, TCWL: 8, TAL: 0,
		TCCDL: 6, TCCDS: 4, TRRDL: 6, TRRDS: 4, TFAW: 24,
		TWTRL: 10, TWTRS: 4, TRTW: 14, TRTP: 6, TWR: 24, TPPD: 2, TRTRS: 2,
		TBurst: 8,
		TREFI: 3900, TRFC: 280, TRFCpb: 90, TRFCsb: 90,
		TCKE: 5, TXP: 6, TXS: 216, TCKESR: 5, TMRD: 8, TMOD: 15,
		FixedReadLatency: 100, FixedWriteLatency: 100,
		MeanReadLatency: 80, MeanWriteLatency: 90, LatencyStddev: 20,
		PageHitFactor: 0.7, PageEmptyFactor: 1.0, PageConflictFactor: 1.3,
	}
}

// scale multiplies the ACT/CAS/turnaround timing fields (tRCD through
// tWR below) by num/den, using truncating integer division with a
// floor of 1 cycle, to derive a speed grade adjacent to a known JEDEC
// anchor. tBurst, tAL, tPPD, tRTRS, the refresh and power-down
// fields, and the latency/factor fields are left untouched.
func scale(t TimingParams, num, den int) TimingParams {
	s := func(v int) int {
		r := v * num / den
		if r < 1 {
			return 1
		}

		return r
	}

	t.TRCD = s(t.TRCD)
	t.TRP = s(t.TRP)
	t.TRAS = s(t.TRAS)
	t.TRC = s(t.TRC)
	t.TCL = s(t.TCL)
	t.TWL = s(t.TWL)
	t.TCWL = s(t.TCWL)
	t.TCCDL = s(t.TCCDL)
	t.TCCDS = s(t.TCCDS)
	t.TRRDL = s(t.TRRDL)
	t.TRRDS = s(t.TRRDS)
	t.TFAW = s(t.TFAW)
	t.TWTRL = s(t.TWTRL)
	t.TWTRS = s(t.TWTRS)
	t.TRTW = s(t.TRTW)
	t.TRTP = s(t.TRTP)
	t.TWR = s(t.TWR)

	return t
}
