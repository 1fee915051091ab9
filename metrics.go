package pairsel

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metric package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordEvent is called after each event. err is nil on success.
	RecordEvent(duration time.Duration, err error)

	// RecordBatch is called after each batch with the number of events
	// submitted.
	RecordBatch(count int, duration time.Duration, err error)

	// RecordSelection is called after each pair selection. found reports a
	// complete pair.
	RecordSelection(step string, found bool, duration time.Duration)

	// RecordMatch is called after each match table with the number of
	// primaries that have at least one match.
	RecordMatch(step string, primaries, matched int)

	// RecordVeto is called after each veto decision.
	RecordVeto(step string, vetoed bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEvent(time.Duration, error)            {}
func (NoopMetricsCollector) RecordBatch(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordSelection(string, bool, time.Duration) {}
func (NoopMetricsCollector) RecordMatch(string, int, int)                {}
func (NoopMetricsCollector) RecordVeto(string, bool)                     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EventCount      atomic.Int64
	EventErrors     atomic.Int64
	EventTotalNanos atomic.Int64
	BatchCount      atomic.Int64
	BatchEvents     atomic.Int64
	BatchErrors     atomic.Int64
	SelectionCount  atomic.Int64
	SelectionFound  atomic.Int64
	MatchPrimaries  atomic.Int64
	MatchMatched    atomic.Int64
	VetoCount       atomic.Int64
	VetoVetoed      atomic.Int64
}

// RecordEvent implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvent(duration time.Duration, err error) {
	b.EventCount.Add(1)
	b.EventTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EventErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(count int, _ time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchEvents.Add(int64(count))
	if err != nil {
		b.BatchErrors.Add(1)
	}
}

// RecordSelection implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSelection(_ string, found bool, _ time.Duration) {
	b.SelectionCount.Add(1)
	if found {
		b.SelectionFound.Add(1)
	}
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(_ string, primaries, matched int) {
	b.MatchPrimaries.Add(int64(primaries))
	b.MatchMatched.Add(int64(matched))
}

// RecordVeto implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVeto(_ string, vetoed bool) {
	b.VetoCount.Add(1)
	if vetoed {
		b.VetoVetoed.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EventCount:     b.EventCount.Load(),
		EventErrors:    b.EventErrors.Load(),
		EventAvgNanos:  b.getAvgEventNanos(),
		BatchCount:     b.BatchCount.Load(),
		BatchEvents:    b.BatchEvents.Load(),
		BatchErrors:    b.BatchErrors.Load(),
		SelectionCount: b.SelectionCount.Load(),
		SelectionFound: b.SelectionFound.Load(),
		MatchPrimaries: b.MatchPrimaries.Load(),
		MatchMatched:   b.MatchMatched.Load(),
		VetoCount:      b.VetoCount.Load(),
		VetoVetoed:     b.VetoVetoed.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgEventNanos() int64 {
	count := b.EventCount.Load()
	if count == 0 {
		return 0
	}
	return b.EventTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EventCount     int64
	EventErrors    int64
	EventAvgNanos  int64
	BatchCount     int64
	BatchEvents    int64
	BatchErrors    int64
	SelectionCount int64
	SelectionFound int64
	MatchPrimaries int64
	MatchMatched   int64
	VetoCount      int64
	VetoVetoed     int64
}
