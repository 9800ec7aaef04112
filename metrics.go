package vfsgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    openCounter   prometheus.Counter
//	    openHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordOpen(duration time.Duration, err error) {
//	    p.openCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordOpen is called after each open operation.
	// duration is the total time taken, err is nil if successful.
	RecordOpen(duration time.Duration, err error)

	// RecordClose is called after each close operation.
	RecordClose(duration time.Duration, err error)

	// RecordDup is called after each descriptor duplication.
	RecordDup(duration time.Duration, err error)

	// RecordExit is called after process teardown.
	// closed is the number of descriptors released.
	RecordExit(closed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(time.Duration, error)  {}
func (NoopMetricsCollector) RecordClose(time.Duration, error) {}
func (NoopMetricsCollector) RecordDup(time.Duration, error)   {}
func (NoopMetricsCollector) RecordExit(int, time.Duration)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount      atomic.Int64
	OpenErrors     atomic.Int64
	OpenTotalNanos atomic.Int64
	CloseCount     atomic.Int64
	CloseErrors    atomic.Int64
	DupCount       atomic.Int64
	DupErrors      atomic.Int64
	ExitCount      atomic.Int64
	ExitClosed     atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(duration time.Duration, err error) {
	b.OpenCount.Add(1)
	b.OpenTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.OpenErrors.Add(1)
	}
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose(duration time.Duration, err error) {
	b.CloseCount.Add(1)
	if err != nil {
		b.CloseErrors.Add(1)
	}
}

// RecordDup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDup(duration time.Duration, err error) {
	b.DupCount.Add(1)
	if err != nil {
		b.DupErrors.Add(1)
	}
}

// RecordExit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExit(closed int, duration time.Duration) {
	b.ExitCount.Add(1)
	b.ExitClosed.Add(int64(closed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:    b.OpenCount.Load(),
		OpenErrors:   b.OpenErrors.Load(),
		OpenAvgNanos: b.getAvgOpenNanos(),
		CloseCount:   b.CloseCount.Load(),
		CloseErrors:  b.CloseErrors.Load(),
		DupCount:     b.DupCount.Load(),
		DupErrors:    b.DupErrors.Load(),
		ExitCount:    b.ExitCount.Load(),
		ExitClosed:   b.ExitClosed.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgOpenNanos() int64 {
	count := b.OpenCount.Load()
	if count == 0 {
		return 0
	}
	return b.OpenTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount    int64
	OpenErrors   int64
	OpenAvgNanos int64
	CloseCount   int64
	CloseErrors  int64
	DupCount     int64
	DupErrors    int64
	ExitCount    int64
	ExitClosed   int64
}
