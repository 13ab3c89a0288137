package presets

func gddrOrg() OrganizationParams {
	o := defaultOrg()
	o.DeviceWidth = 32

	return o
}

// GDDR7 returns the timing and organization for the given GDDR7
// speed grade. 32000 is the JEDEC-anchored reference timing.
func GDDR7(speedMTs int) (TimingParams, OrganizationParams) {
	if speedMTs == 32000 {
		return gddr7_32000(), gddrOrg()
	}

	return scale(gddr7_32000(), speedMTs, 32000), gddrOrg()
}

func gddr7_32000() TimingParams {
	t := genericDefaults()
	t.TRCD = 20
	t.TRP = 20
	t.TRAS = 46
	t.TRC = 66
	t.TCL = 20
	t.TWL = 10
	t.TCWL = 10
	t.TWR = 28
	t.TRTP = 10
	t.TRRDL = 6
	t.TRRDS = 4
	t.TCCDL = 4
	t.TCCDS = 2
	t.TFAW = 24
	t.TWTRL = 12
	t.TWTRS = 6
	t.TRTW = 16
	t.TBurst = 8
	t.TRFC = 350
	t.TREFI = 1950

	return t
}

// GDDR6 returns the timing and organization for the given GDDR6 speed
// grade, derived by scaling the GDDR7-32000 anchor down to GDDR6's
// lower data rates (typically 12000-24000 MT/s); GDDR6's refresh
// interval is less aggressive than GDDR7's.
func GDDR6(speedMTs int) (TimingParams, OrganizationParams) {
	t := scale(gddr7_32000(), speedMTs, 32000)
	t.TREFI = 3900
	t.TRFC = 280

	return t, gddrOrg()
}
