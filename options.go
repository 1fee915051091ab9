package pairsel

import (
	"log/slog"

	"github.com/hupe1980/pairsel/codec"
	"github.com/hupe1980/pairsel/report"
	"github.com/hupe1980/pairsel/resource"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	workers          int
	epsilon          float64
	controller       *resource.Controller
	report           *report.Report
}

// Option configures New.
type Option func(*options)

// WithCodec sets the codec used by Run to decode events and encode
// results. It overrides the codec field of the configuration. If nil is
// passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures metrics collection.
//
// Example:
//
//	metrics := &pairsel.BasicMetricsCollector{}
//	p, _ := pairsel.New(cfg, pairsel.WithMetricsCollector(metrics))
//	// ... process events ...
//	stats := metrics.GetStats()
//	fmt.Printf("Events: %d, Avg latency: %dns\n", stats.EventCount, stats.EventAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := pairsel.NewJSONLogger(slog.LevelInfo)
//	p, _ := pairsel.New(cfg, pairsel.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithWorkers bounds the number of events processed concurrently by
// ProcessBatch. It overrides the workers field of the configuration.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithEpsilon overrides the tie tolerance of every comparator chain.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		o.epsilon = eps
	}
}

// WithResourceController shares a resource controller between processors.
// Worker slots, memory reservations and IO budget are taken from it.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithReport fills run summary histograms while processing.
func WithReport(r *report.Report) Option {
	return func(o *options) {
		o.report = r
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
