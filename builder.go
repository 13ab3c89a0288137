package memsim

import (
	"github.com/sarchlab/memsim/internal/tracer"
	"github.com/sarchlab/memsim/presets"
)

// Builder assembles a ControllerConfig through chained With* calls,
// each returning a new Builder value, and produces a Controller with
// Build. The zero-value Builder is not usable; start from MakeBuilder.
type Builder struct {
	cfg ControllerConfig
}

// MakeBuilder returns a Builder with LPDDR5-6400 timing, a
// CYCLE_ACCURATE fidelity, FR-FCFS-GRP scheduling over a bankwise
// buffer, and ALL_BANK refresh, all of which can be overridden.
func MakeBuilder() Builder {
	b := Builder{
		cfg: ControllerConfig{
			Technology:         LPDDR5,
			Fidelity:           CycleAccurate,
			SpeedMTs:           6400,
			QueueDepth:         64,
			AddressMapping:     RowBankColumn,
			SchedulerPolicy:    FRFCFSGrp,
			BufferOrganization: Bankwise,
			HighWatermark:      8,
			LowWatermark:       2,
			RefreshPolicy:      RefreshAllBank,
			MaxPostpone:        8,
			MaxPullIn:          8,
			EnableStatistics:   true,
			EnableInvariants:   true,
		},
	}

	b.cfg.Timing, b.cfg.Organization = presets.LPDDR5(6400)

	return b
}

// WithTechnology sets the technology and reloads its default timing
// and organization preset for speedMTs. Call WithTiming or
// WithOrganization afterward to override individual fields.
func (b Builder) WithTechnology(tech Technology, speedMTs int) Builder {
	b.cfg.Technology = tech
	b.cfg.SpeedMTs = speedMTs
	b.cfg.Timing, b.cfg.Organization = presetFor(tech, speedMTs)

	return b
}

func presetFor(tech Technology, speedMTs int) (TimingParams, OrganizationParams) {
	switch tech {
	case DDR5:
		return presets.DDR5(speedMTs)
	case LPDDR5:
		return presets.LPDDR5(speedMTs)
	case LPDDR5X:
		return presets.LPDDR5X(speedMTs)
	case LPDDR6:
		return presets.LPDDR6(speedMTs)
	case HBM3:
		return presets.HBM3(speedMTs)
	case HBM3E:
		return presets.HBM3E(speedMTs)
	case HBM4:
		return presets.HBM4(speedMTs)
	case GDDR6:
		return presets.GDDR6(speedMTs)
	case GDDR7:
		return presets.GDDR7(speedMTs)
	default:
		return presets.Ideal(speedMTs)
	}
}

// WithFidelity sets the fidelity level.
func (b Builder) WithFidelity(f Fidelity) Builder {
	b.cfg.Fidelity = f
	return b
}

// WithQueueDepth sets the scheduler buffer capacity.
func (b Builder) WithQueueDepth(n int) Builder {
	b.cfg.QueueDepth = n
	return b
}

// WithTiming overrides the full timing bundle.
func (b Builder) WithTiming(t TimingParams) Builder {
	b.cfg.Timing = t
	return b
}

// WithOrganization overrides the full organization bundle.
func (b Builder) WithOrganization(o OrganizationParams) Builder {
	b.cfg.Organization = o
	return b
}

// WithAddressMapping selects the address decoding scheme. fields is
// only consulted when scheme is CustomMapping.
func (b Builder) WithAddressMapping(scheme AddressMappingScheme, fields ...FieldSlice) Builder {
	b.cfg.AddressMapping = scheme
	b.cfg.CustomFields = fields

	return b
}

// WithSchedulerPolicy selects the per-bank candidate-selection policy.
func (b Builder) WithSchedulerPolicy(p SchedulerPolicy) Builder {
	b.cfg.SchedulerPolicy = p
	return b
}

// WithBufferOrganization selects how the scheduler partitions slots.
func (b Builder) WithBufferOrganization(o BufferOrganization) Builder {
	b.cfg.BufferOrganization = o
	return b
}

// WithWatermarks sets the hysteresis thresholds used by
// GRP-FR-FCFS-WM.
func (b Builder) WithWatermarks(high, low int) Builder {
	b.cfg.HighWatermark = high
	b.cfg.LowWatermark = low

	return b
}

// WithRefreshPolicy selects the refresh manager's granularity.
func (b Builder) WithRefreshPolicy(p RefreshPolicy) Builder {
	b.cfg.RefreshPolicy = p
	return b
}

// WithRefreshLimits sets the postpone/pull-in bounds.
func (b Builder) WithRefreshLimits(maxPostpone, maxPullIn int) Builder {
	b.cfg.MaxPostpone = maxPostpone
	b.cfg.MaxPullIn = maxPullIn

	return b
}

// WithTracing turns on the lightweight log-based tracer.
func (b Builder) WithTracing(enable bool) Builder {
	b.cfg.EnableTracing = enable
	return b
}

// WithTraceSink attaches sink as the trace destination, overriding
// the default log-based tracer. Implies WithTracing(true).
func (b Builder) WithTraceSink(sink tracer.Sink) Builder {
	b.cfg.EnableTracing = true
	b.cfg.TraceSink = sink

	return b
}

// WithStatistics turns statistics counting on or off.
func (b Builder) WithStatistics(enable bool) Builder {
	b.cfg.EnableStatistics = enable
	return b
}

// WithInvariants turns runtime timing-invariant checking on or off.
func (b Builder) WithInvariants(enable bool) Builder {
	b.cfg.EnableInvariants = enable
	return b
}

// Build validates the accumulated configuration and constructs a
// Controller, or returns a ConfigurationError.
func (b Builder) Build() (Controller, error) {
	return New(b.cfg)
}

// Config returns the accumulated configuration without building a
// controller, useful for inspection or for constructing a second
// controller sharing the configuration.
func (b Builder) Config() ControllerConfig {
	return b.cfg
}
