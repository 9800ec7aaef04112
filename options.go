package vfsgo

import (
	"log/slog"

	"github.com/hupe1980/vfsgo/resource"
	"github.com/hupe1980/vfsgo/vnode"
)

// DefaultTableCapacity is the per-process descriptor table size used when
// WithTableCapacity is not given.
const DefaultTableCapacity = 32

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	res              *resource.Controller
}

// Option configures VFS constructor behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vfsgo.BasicMetricsCollector{}
//	vfs, _ := vfsgo.New(resolver, vfsgo.WithMetricsCollector(metrics))
//	// ... use vfs ...
//	stats := metrics.GetStats()
//	fmt.Printf("Opens: %d, Avg latency: %dns\n", stats.OpenCount, stats.OpenAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vfsgo.NewJSONLogger(slog.LevelInfo)
//	vfs, _ := vfsgo.New(resolver, vfsgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
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

// WithResourceController bounds the number of live file objects across all
// processes of this VFS and rate-limits snapshot IO. Pass nil for no limits.
func WithResourceController(res *resource.Controller) Option {
	return func(o *options) {
		o.res = res
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

type processOptions struct {
	tableCapacity int
	cwd           *vnode.Ref
}

// ProcessOption configures a new process.
type ProcessOption func(*processOptions)

// WithTableCapacity sets the descriptor table size for the process.
// Values below 1 fall back to DefaultTableCapacity.
func WithTableCapacity(capacity int) ProcessOption {
	return func(o *processOptions) {
		o.tableCapacity = capacity
	}
}

// WithWorkingDirectory sets the initial working directory reference.
// The process takes ownership of the reference and releases it on Exit.
// Without this option relative paths resolve from the filesystem root.
func WithWorkingDirectory(cwd *vnode.Ref) ProcessOption {
	return func(o *processOptions) {
		o.cwd = cwd
	}
}

func applyProcessOptions(optFns []ProcessOption) processOptions {
	o := processOptions{
		tableCapacity: DefaultTableCapacity,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.tableCapacity < 1 {
		o.tableCapacity = DefaultTableCapacity
	}
	return o
}
