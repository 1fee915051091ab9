package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/pairsel"
)

const namespace = "pairsel"

// Collector implements pairsel.MetricsCollector on Prometheus vectors.
type Collector struct {
	eventDuration *prometheus.HistogramVec
	events        *prometheus.CounterVec
	batchEvents   prometheus.Histogram
	batches       *prometheus.CounterVec

	selectionDuration *prometheus.HistogramVec
	selections        *prometheus.CounterVec

	matchPrimaries *prometheus.CounterVec
	matchMatched   *prometheus.CounterVec

	vetoes *prometheus.CounterVec
}

var _ pairsel.MetricsCollector = (*Collector)(nil)

// NewCollector creates and registers all processor metrics. A nil
// registerer selects prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		eventDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_duration_seconds",
			Help:      "Time spent processing one event",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"status"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total events processed by status",
		}, []string{"status"}),
		batchEvents: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_events",
			Help:      "Number of events submitted per batch",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total batches processed by status",
		}, []string{"status"}),
		selectionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_duration_seconds",
			Help:      "Time spent in one pair selection",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}, []string{"step"}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Total pair selections by step and outcome",
		}, []string{"step", "found"}),
		matchPrimaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_primaries_total",
			Help:      "Total primary candidates offered to a match step",
		}, []string{"step"}),
		matchMatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_matched_total",
			Help:      "Total primary candidates with at least one match",
		}, []string{"step"}),
		vetoes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "veto_decisions_total",
			Help:      "Total veto decisions by step and outcome",
		}, []string{"step", "vetoed"}),
	}

	reg.MustRegister(
		c.eventDuration,
		c.events,
		c.batchEvents,
		c.batches,
		c.selectionDuration,
		c.selections,
		c.matchPrimaries,
		c.matchMatched,
		c.vetoes,
	)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordEvent implements pairsel.MetricsCollector.
func (c *Collector) RecordEvent(duration time.Duration, err error) {
	s := status(err)
	c.eventDuration.WithLabelValues(s).Observe(duration.Seconds())
	c.events.WithLabelValues(s).Inc()
}

// RecordBatch implements pairsel.MetricsCollector.
func (c *Collector) RecordBatch(count int, _ time.Duration, err error) {
	c.batchEvents.Observe(float64(count))
	c.batches.WithLabelValues(status(err)).Inc()
}

// RecordSelection implements pairsel.MetricsCollector.
func (c *Collector) RecordSelection(step string, found bool, duration time.Duration) {
	c.selectionDuration.WithLabelValues(step).Observe(duration.Seconds())
	c.selections.WithLabelValues(step, strconv.FormatBool(found)).Inc()
}

// RecordMatch implements pairsel.MetricsCollector.
func (c *Collector) RecordMatch(step string, primaries, matched int) {
	c.matchPrimaries.WithLabelValues(step).Add(float64(primaries))
	c.matchMatched.WithLabelValues(step).Add(float64(matched))
}

// RecordVeto implements pairsel.MetricsCollector.
func (c *Collector) RecordVeto(step string, vetoed bool) {
	c.vetoes.WithLabelValues(step, strconv.FormatBool(vetoed)).Inc()
}
