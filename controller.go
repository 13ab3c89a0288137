package memsim

// Controller is the capability set shared by all three fidelities:
// submit, tick, drain, reset, queries, statistics, tracing, and
// invariants.
type Controller interface {
	// Submit validates and accepts a request, assigning it a fresh,
	// monotonically increasing ID. At BEHAVIORAL fidelity the
	// completion callback fires before Submit returns; at the other
	// two fidelities completion is deferred to a later Tick.
	Submit(req Request) (id uint64, err error)

	// Tick advances the simulation clock by one cycle.
	Tick()

	// TickN advances the simulation clock by n cycles.
	TickN(n int)

	// Drain calls Tick until HasPending is false.
	Drain()

	// Reset zeros the cycle counter, clears all banks and scheduler
	// state, clears refresh state, and resets statistics. Any pending
	// requests are discarded without firing their callbacks.
	Reset()

	Cycle() uint64
	Fidelity() Fidelity
	Technology() Technology
	HasPending() bool
	PendingCount() int

	Statistics() Statistics
	Violations() []Violation
}

// New constructs a Controller for the given configuration, dispatching
// on cfg.Fidelity. Prefer Builder for everyday construction; New is
// the direct entry point Builder.Build itself uses.
func New(cfg ControllerConfig) (Controller, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	switch cfg.Fidelity {
	case Behavioral:
		return newBehavioralController(cfg), nil
	case Transactional:
		return newTransactionalController(cfg), nil
	default:
		return newCycleAccurateController(cfg)
	}
}

func validateConfig(cfg ControllerConfig) error {
	if cfg.Organization.BanksPerGroup <= 0 || cfg.Organization.BankGroupsPerRank <= 0 {
		return &ConfigurationError{Field: "organization.banks", Reason: "banks per rank must be > 0"}
	}

	if cfg.Organization.RowsPerBank <= 0 {
		return &ConfigurationError{Field: "organization.rows_per_bank", Reason: "must be > 0"}
	}

	if cfg.Organization.ColumnsPerRow <= 0 {
		return &ConfigurationError{Field: "organization.columns_per_row", Reason: "must be > 0"}
	}

	if cfg.QueueDepth <= 0 {
		return &ConfigurationError{Field: "queue_depth", Reason: "must be > 0"}
	}

	if cfg.Fidelity == CycleAccurate {
		t := cfg.Timing
		if t.TRAS < t.TRCD {
			return &ConfigurationError{Field: "timing.tRAS", Reason: "tRAS must be >= tRCD"}
		}

		if t.TRC < t.TRAS+t.TRP {
			return &ConfigurationError{Field: "timing.tRC", Reason: "tRC must be >= tRAS + tRP"}
		}

		if t.TFAW <= 0 {
			return &ConfigurationError{Field: "timing.tFAW", Reason: "must be > 0"}
		}

		if t.TBurst <= 0 {
			return &ConfigurationError{Field: "timing.tBurst", Reason: "must be > 0"}
		}

		if t.TREFI <= 0 {
			return &ConfigurationError{Field: "timing.tREFI", Reason: "must be > 0"}
		}
	}

	return nil
}
