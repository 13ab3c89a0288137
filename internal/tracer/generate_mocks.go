//go:generate mockgen -destination=mock_tracer.go -package=tracer github.com/sarchlab/memsim/internal/tracer Sink

package tracer
