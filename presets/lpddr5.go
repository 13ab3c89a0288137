package presets

// LPDDR5 returns the timing and organization for the given LPDDR5
// speed grade. 6400, 7500, and 8533 are JEDEC-anchored reference
// timings; other speed grades are scaled from the 6400 anchor.
func LPDDR5(speedMTs int) (TimingParams, OrganizationParams) {
	return lpddr5Timing(speedMTs), lpddr5Org()
}

func lpddr5Org() OrganizationParams {
	return defaultOrg()
}

func lpddr5Timing(speedMTs int) TimingParams {
	switch speedMTs {
	case 6400:
		return lpddr5_6400()
	case 7500:
		return lpddr5_7500()
	case 8533:
		return lpddr5_8533()
	default:
		return scale(lpddr5_6400(), speedMTs, 6400)
	}
}

func lpddr5_6400() TimingParams {
	t := genericDefaults()
	t.TRCD = 18
	t.TRP = 18
	t.TRAS = 42
	t.TRC = 60
	t.TCL = 17
	t.TWL = 8
	t.TCWL = 8
	t.TWR = 34
	t.TRTP = 12
	t.TRRDL = 8
	t.TRRDS = 4
	t.TCCDL = 8
	t.TCCDS = 4
	t.TFAW = 32
	t.TWTRL = 16
	t.TWTRS = 8
	t.TRTW = 18
	t.TBurst = 8
	t.TRFC = 280
	t.TRFCpb = 90
	t.TREFI = 3900

	return t
}

func lpddr5_7500() TimingParams {
	t := lpddr5_6400()
	t.TRCD = 21
	t.TRP = 21
	t.TRAS = 49
	t.TRC = 70
	t.TCL = 20
	t.TWL = 10
	t.TCWL = 10
	t.TWR = 40
	t.TRTP = 14
	t.TRRDL = 9
	t.TRRDS = 5
	t.TCCDL = 9
	t.TCCDS = 5
	t.TFAW = 37
	t.TWTRL = 19
	t.TWTRS = 9
	t.TRTW = 21

	return t
}

func lpddr5_8533() TimingParams {
	t := lpddr5_6400()
	t.TRCD = 24
	t.TRP = 24
	t.TRAS = 56
	t.TRC = 80
	t.TCL = 22
	t.TWL = 11
	t.TCWL = 11
	t.TWR = 45
	t.TRTP = 16
	t.TRRDL = 11
	t.TRRDS = 5
	t.TCCDL = 11
	t.TCCDS = 5
	t.TFAW = 43
	t.TWTRL = 22
	t.TWTRS = 11
	t.TRTW = 24

	return t
}

// LPDDR5X returns the timing and organization for the given LPDDR5X
// speed grade. 8533 is the JEDEC-anchored reference timing; other
// grades scale from it.
func LPDDR5X(speedMTs int) (TimingParams, OrganizationParams) {
	if speedMTs == 8533 {
		return lpddr5x_8533(), lpddr5Org()
	}

	return scale(lpddr5x_8533(), speedMTs, 8533), lpddr5Org()
}

func lpddr5x_8533() TimingParams {
	t := lpddr5_6400()
	t.TRCD = 24
	t.TRP = 24
	t.TRAS = 56
	t.TRC = 80
	t.TCL = 22
	t.TWL = 11
	t.TCWL = 11
	t.TWR = 45
	t.TRTP = 16

	return t
}

// LPDDR6 returns the timing and organization for the given LPDDR6
// speed grade. LPDDR6 has no published source anchor in this package;
// its timings are derived by scaling the LPDDR5X-8533 anchor to the
// requested data rate, which keeps the ACT/CAS/refresh relationships
// realistic without inventing an unrelated protocol.
func LPDDR6(speedMTs int) (TimingParams, OrganizationParams) {
	t := scale(lpddr5x_8533(), speedMTs, 8533)
	t.TREFI = 3900

	return t, lpddr5Org()
}
