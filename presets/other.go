package presets

// DDR5 returns the timing and organization for the given DDR5 speed
// grade. No dedicated DDR5 anchor is carried in this package;
// DDR5-4800 (the JEDEC baseline grade) maps onto the generic
// defaults, which were themselves authored as a DDR-class baseline,
// and other grades scale from there.
func DDR5(speedMTs int) (TimingParams, OrganizationParams) {
	o := defaultOrg()
	o.DeviceWidth = 8

	if speedMTs == 4800 {
		return genericDefaults(), o
	}

	return scale(genericDefaults(), speedMTs, 4800), o
}

// Ideal returns near-zero timing, useful as a scheduler/refresh
// stress test that removes JEDEC timing as a confound: most delays,
// tBurst and the refresh cycle times included, are 1 cycle; tRC is 2,
// tFAW is 4, tAL, tPPD, tRTRS and tCKESR are 0, and tREFI is 100000.
func Ideal(speedMTs int) (TimingParams, OrganizationParams) {
	t := TimingParams{
		TRCD: 1, TRP: 1, TRAS: 1, TRC: 2,
		TCL: 1, TWL: 1, TCWL: 1,
		TCCDL: 1, TCCDS: 1, TRRDL: 1, TRRDS: 1, TFAW: 4,
		TWTRL: 1, TWTRS: 1, TRTW: 1, TRTP: 1, TWR: 1,
		TBurst: 1,
		TREFI: 100000, TRFC: 1, TRFCpb: 1, TRFCsb: 1,
		TCKE: 1, TXP: 1, TXS: 1, TMRD: 1, TMOD: 1,
		FixedReadLatency: 1, FixedWriteLatency: 1,
		MeanReadLatency: 1, MeanWriteLatency: 1, LatencyStddev: 0,
		PageHitFactor: 1, PageEmptyFactor: 1, PageConflictFactor: 1,
	}

	return t, defaultOrg()
}
