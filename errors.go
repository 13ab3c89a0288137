package memsim

import "fmt"

// QueueFullError is returned by Submit when the scheduler buffer has
// no space left for the request's bank. The caller should retry after
// advancing the clock with Tick.
type QueueFullError struct {
	Bank int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("memsim: queue full for bank %d", e.Bank)
}

// InvalidAddressError is returned by Submit when an address decodes
// to an out-of-range field (row, bank, rank, or channel). This is a
// caller bug, not a transient condition.
type InvalidAddressError struct {
	Address uint64
	Reason  string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("memsim: invalid address 0x%x: %s", e.Address, e.Reason)
}

// ConfigurationError is returned by Builder.Build when a
// ControllerConfig is internally inconsistent. Construction fails;
// there is no partially-built controller to recover.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("memsim: invalid configuration field %q: %s", e.Field, e.Reason)
}

// Violation is a non-fatal diagnostic raised by invariant checking
// when enabled. It never aborts the simulation; it is appended to the
// controller's violation list and, if tracing is enabled, forwarded
// to the trace sink.
type Violation struct {
	Cycle       uint64
	InvariantID string
	Message     string
	Channel     int
	Bank        int
}

func (v Violation) String() string {
	return fmt.Sprintf("cycle %d: [%s] channel=%d bank=%d: %s",
		v.Cycle, v.InvariantID, v.Channel, v.Bank, v.Message)
}
