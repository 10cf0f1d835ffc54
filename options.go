package flatcol

import (
	"log/slog"

	"github.com/flatcol/flatcol/codec"
)

const (
	// DefaultWidth is the initial slot width of a new collection.
	DefaultWidth = 64

	// DefaultGrowthIncrement is the unit by which slot width grows when a
	// document's encoded form outgrows the current width.
	DefaultGrowthIncrement = 64
)

type options struct {
	increment  int
	codec      codec.Codec
	logger     *Logger
	metrics    MetricsCollector
	syncWrites bool
}

// Option configures Open behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. codec-specific constructor variants).
type Option func(*options)

// WithGrowthIncrement sets the unit by which slot width grows.
//
// A larger increment means fewer file rewrites at the cost of more padding per
// line. If the increment exceeds DefaultWidth it also raises the initial slot
// width, so a freshly created collection never starts narrower than one
// increment. Values < 1 are ignored.
func WithGrowthIncrement(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.increment = n
		}
	}
}

// WithCodec configures the codec used to encode documents into store lines.
//
// If nil is passed, codec.Default is used. All documents in one file must be
// written and read with wire-compatible codecs.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
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

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &flatcol.BasicMetricsCollector{}
//	col, _ := flatcol.Open[User]("users.col", flatcol.WithMetricsCollector(metrics))
//	// ... use col ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithSyncWrites makes every mutating operation fsync the store file before
// returning. The default trades durability for speed and leaves syncing to
// the OS (or an explicit Sync call).
func WithSyncWrites(sync bool) Option {
	return func(o *options) {
		o.syncWrites = sync
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		increment: DefaultGrowthIncrement,
		codec:     codec.Default,
		logger:    NoopLogger(),
		metrics:   NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
