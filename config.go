package memsim

import (
	"github.com/sarchlab/memsim/internal/tracer"
	"github.com/sarchlab/memsim/presets"
)

// Technology names a JEDEC (or near-JEDEC) memory technology. It
// selects a default timing preset in package presets and has no
// behavior of its own beyond that lookup key.
type Technology int

const (
	IDEAL Technology = iota
	DDR5
	LPDDR5
	LPDDR5X
	LPDDR6
	HBM3
	HBM3E
	HBM4
	GDDR6
	GDDR7
)

func (t Technology) String() string {
	switch t {
	case DDR5:
		return "DDR5"
	case LPDDR5:
		return "LPDDR5"
	case LPDDR5X:
		return "LPDDR5X"
	case LPDDR6:
		return "LPDDR6"
	case HBM3:
		return "HBM3"
	case HBM3E:
		return "HBM3E"
	case HBM4:
		return "HBM4"
	case GDDR6:
		return "GDDR6"
	case GDDR7:
		return "GDDR7"
	default:
		return "IDEAL"
	}
}

// Fidelity selects which controller implementation Builder.Build
// constructs. All three share the Controller interface.
type Fidelity int

const (
	Behavioral Fidelity = iota
	Transactional
	CycleAccurate
)

func (f Fidelity) String() string {
	switch f {
	case Transactional:
		return "TRANSACTIONAL"
	case CycleAccurate:
		return "CYCLE_ACCURATE"
	default:
		return "BEHAVIORAL"
	}
}

// AddressMappingScheme selects how a physical address is decoded into
// (channel, rank, bank-group, bank, row, column).
type AddressMappingScheme int

const (
	RowBankColumn AddressMappingScheme = iota
	RowColumnBank
	BankRowColumn
	CustomMapping
)

// AddressField names one field a CUSTOM mapping can bit-slice.
type AddressField int

const (
	FieldColumn AddressField = iota
	FieldBank
	FieldBankGroup
	FieldRow
	FieldRank
	FieldChannel
)

// FieldSlice is one entry of a CUSTOM address mapping: Width bits,
// consumed from the address from the low bit upward in the order the
// slices appear, are assigned to Field. This makes a mapping data,
// not code.
type FieldSlice struct {
	Field AddressField
	Width int
}

// TimingParams is a full set of JEDEC timing parameters, expressed in
// memory-clock cycles. Immutable for a controller's lifetime. The
// canonical definition lives in package presets, which owns the
// technology timing tables; this is a type alias for convenience so
// callers never need to import presets just to name the type.
type TimingParams = presets.TimingParams

// OrganizationParams describes the physical layout of the memory
// subsystem that the address decoder and bank state machines are
// instantiated over. Alias of presets.OrganizationParams; see
// TimingParams for why the canonical definition lives there.
type OrganizationParams = presets.OrganizationParams

// SchedulerPolicy selects the per-bank candidate-selection rule. See
// package internal/scheduler for the implementations.
type SchedulerPolicy int

const (
	FIFO SchedulerPolicy = iota
	FRFCFS
	FRFCFSGrp
	GrpFRFCFS
	GrpFRFCFSWM
	QoSAware
)

// BufferOrganization selects how the scheduler partitions its request
// slots.
type BufferOrganization int

const (
	Bankwise BufferOrganization = iota
	Shared
	ReadWriteSplit
)

// RefreshPolicy selects the refresh manager's granularity.
type RefreshPolicy int

const (
	RefreshNone RefreshPolicy = iota
	RefreshAllBank
	RefreshPerBank
	RefreshSameBank
	RefreshPer2Bank
	RefreshFineGranularity
)

// ControllerConfig is the full, immutable configuration consumed by
// New and Builder.Build. MakeBuilder starts from technology presets
// and scheduler/refresh defaults; New uses every field as given and
// does not fill in zero values.
type ControllerConfig struct {
	Technology Technology
	Fidelity   Fidelity
	SpeedMTs   int

	QueueDepth int

	Timing       TimingParams
	Organization OrganizationParams

	AddressMapping AddressMappingScheme
	CustomFields   []FieldSlice

	SchedulerPolicy    SchedulerPolicy
	BufferOrganization BufferOrganization
	HighWatermark      int
	LowWatermark       int

	RefreshPolicy RefreshPolicy
	MaxPostpone   int
	MaxPullIn     int

	EnableTracing    bool
	EnableStatistics bool
	EnableInvariants bool

	// TraceSink, when non-nil, replaces the default log-based tracer
	// attached when EnableTracing is set. Lets a caller opt into the
	// SQLite-backed sink (or any other tracer.Sink) without this
	// package importing database/sql itself.
	TraceSink tracer.Sink
}

// ClockMHz derives the memory clock from SpeedMTs (double data rate).
func (c ControllerConfig) ClockMHz() int {
	return c.SpeedMTs / 2
}

// ClockPeriodPs derives the clock period in picoseconds.
func (c ControllerConfig) ClockPeriodPs() int {
	mhz := c.ClockMHz()
	if mhz == 0 {
		return 0
	}

	return 1_000_000 / mhz
}
