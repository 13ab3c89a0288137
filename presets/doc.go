// Package presets provides per-technology default TimingParams and
// OrganizationParams, keyed by speed grade. These tables are pure
// data: a switch over the speed grade, no control flow beyond that.
//
// LPDDR5, LPDDR5X, HBM3, and GDDR7 values at their headline speed
// grades come from JEDEC-representative reference timings; adjacent
// speed grades and the remaining technologies are scaled from those
// anchors using the same tCL/speed and tRAS/tRC relationships the
// anchors exhibit, since vendor datasheets for every grade are not
// universally published.
package presets
