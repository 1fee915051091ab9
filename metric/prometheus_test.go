package metric

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordEvent(time.Millisecond, nil)
	c.RecordBatch(4, time.Second, nil)
	c.RecordSelection("mutau", true, time.Microsecond)
	c.RecordMatch("tau_jets", 2, 1)
	c.RecordVeto("dimuon", false)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"pairsel_event_duration_seconds",
		"pairsel_events_total",
		"pairsel_batch_events",
		"pairsel_batches_total",
		"pairsel_selection_duration_seconds",
		"pairsel_selections_total",
		"pairsel_match_primaries_total",
		"pairsel_match_matched_total",
		"pairsel_veto_decisions_total",
	} {
		assert.True(t, names[want], want)
	}
}

func TestCollector_Counts(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordEvent(time.Millisecond, nil)
	c.RecordEvent(time.Millisecond, nil)
	c.RecordEvent(time.Millisecond, errors.New("boom"))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.events.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("error")))

	c.RecordSelection("mutau", true, 0)
	c.RecordSelection("mutau", false, 0)
	c.RecordSelection("mutau", true, 0)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.selections.WithLabelValues("mutau", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.selections.WithLabelValues("mutau", "false")))

	c.RecordMatch("tau_jets", 3, 2)
	c.RecordMatch("tau_jets", 1, 0)
	assert.Equal(t, 4.0, testutil.ToFloat64(c.matchPrimaries.WithLabelValues("tau_jets")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.matchMatched.WithLabelValues("tau_jets")))

	c.RecordVeto("dimuon", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.vetoes.WithLabelValues("dimuon", "true")))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
