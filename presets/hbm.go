package presets

// hbmOrg reflects HBM's wide bank-group interleave: 8 bank groups of
// 4 banks per rank (vs. 4x4 for the other technologies here), and a
// x128 pseudo-channel device width.
func hbmOrg() OrganizationParams {
	o := defaultOrg()
	o.BankGroupsPerRank = 8
	o.BanksPerGroup = 4
	o.DeviceWidth = 128
	o.BurstLength = 4

	return o
}

// HBM3 returns the timing and organization for the given HBM3 speed
// grade (MT/s per pin). 5600 is the JEDEC-anchored reference timing.
func HBM3(speedMTs int) (TimingParams, OrganizationParams) {
	if speedMTs == 5600 {
		return hbm3_5600(), hbmOrg()
	}

	return scale(hbm3_5600(), speedMTs, 5600), hbmOrg()
}

func hbm3_5600() TimingParams {
	t := genericDefaults()
	t.TRCD = 14
	t.TRP = 14
	t.TRAS = 28
	t.TRC = 42
	t.TCL = 14
	t.TWL = 4
	t.TCWL = 4
	t.TWR = 16
	t.TRTP = 4
	t.TRRDL = 4
	t.TRRDS = 4
	t.TCCDL = 4
	t.TCCDS = 2
	t.TFAW = 16
	t.TWTRL = 8
	t.TWTRS = 4
	t.TRTW = 14
	t.TBurst = 4
	t.TRFC = 280
	t.TRFCpb = 90
	t.TREFI = 1950

	return t
}

// HBM3E returns the timing and organization for the given HBM3E speed
// grade, scaled from the HBM3-5600 anchor; HBM3E's refresh interval
// is tighter still, reflecting the denser stacks it targets.
func HBM3E(speedMTs int) (TimingParams, OrganizationParams) {
	t := scale(hbm3_5600(), speedMTs, 5600)
	t.TREFI = 1750
	t.TRFCsb = 100

	return t, hbmOrg()
}

// HBM4 returns the timing and organization for the given HBM4 speed
// grade, scaled from the HBM3-5600 anchor to the requested rate and
// widened to a 16-bank-group layout (HBM4 doubles HBM3's
// pseudo-channel count).
func HBM4(speedMTs int) (TimingParams, OrganizationParams) {
	t := scale(hbm3_5600(), speedMTs, 5600)
	t.TREFI = 1750

	o := hbmOrg()
	o.BankGroupsPerRank = 16

	return t, o
}
