// Package tracer provides the two observability sinks a Controller
// can attach: a lightweight stdlib-log tracer, always available when
// tracing is enabled, and an optional SQLite-backed sink for
// persisting a run's transaction and violation history.
package tracer

import "log"

// Event is one transaction lifecycle event or invariant violation
// forwarded to a Sink.
type Event struct {
	Kind      string // "start", "end", "violation"
	ID        uint64
	Cycle     uint64
	Address   uint64
	ByteSize  uint64
	Latency   uint64
	Message   string
}

// Sink receives trace events. Controllers hold at most one Sink;
// WithTraceSink replaces it.
type Sink interface {
	Record(e Event)
	Close() error
}

// logSink writes one line per event through an injected *log.Logger,
// in a terse CSV-ish format.
type logSink struct {
	logger *log.Logger
}

// NewLogSink builds a Sink that writes through logger. A nil logger
// falls back to log.Default().
func NewLogSink(logger *log.Logger) Sink {
	if logger == nil {
		logger = log.Default()
	}

	return &logSink{logger: logger}
}

func (s *logSink) Record(e Event) {
	switch e.Kind {
	case "start":
		s.logger.Printf("start, %d, %d, 0x%x, %d\n", e.Cycle, e.ID, e.Address, e.ByteSize)
	case "end":
		s.logger.Printf("end, %d, %d, %d\n", e.Cycle, e.ID, e.Latency)
	case "violation":
		s.logger.Printf("violation, %d, %s\n", e.Cycle, e.Message)
	}
}

func (s *logSink) Close() error { return nil }
