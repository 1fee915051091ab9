package pairsel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/event"
	"github.com/hupe1980/pairsel/report"
	"github.com/hupe1980/pairsel/resource"
)

const testConfig = `
version: 1
pairs:
  - name: mutau
    preset: mt
    first: {collection: muon, mask: tight_muons}
    second: {collection: tau, mask: medium_taus}
  - name: tautau
    preset: tt
    first: {collection: tau, mask: medium_taus}
  - name: bb
    preset: bb
    working_point: 0.5
    first: {collection: jet, mask: bjets}
matches:
  - name: muon_jets
    primary: {collection: muon, mask: tight_muons}
    secondary: {collection: jet}
    max_delta_r: 0.5
  - name: tau_jets
    from: {pair: mutau, slot: second}
    secondary: {collection: jet, mask: good_jets}
    max_delta_r: 1.5
others:
  - name: third_tau
    pair: tautau
    source: {collection: tau, mask: medium_taus}
  - name: extra_tau
    pair: mutau
    source: {collection: tau, mask: medium_taus}
best:
  - name: top_btag
    source: {collection: jet, mask: good_jets}
    column: btag
  - name: top_tau_ratio
    source: {collection: tau}
    numerator: vs_jet
    denominator: vs_e
first_within:
  - name: muon_jet
    from: {pair: mutau, slot: first}
    target: {collection: jet}
    max_delta_r: 0.5
vetoes:
  - name: dimuon
    kind: dilepton
    source: {collection: muon, mask: tight_muons}
    min_delta_r: 0.15
  - name: clean_jets
    kind: clean
    source: {collection: jet, mask: good_jets}
    against: {collection: muon, mask: tight_muons}
    min_delta_r: 0.4
  - name: jet_map
    kind: veto_map
    source: {collection: jet, mask: good_jets}
    against: {collection: muon, mask: tight_muons}
    min_delta_r: 0.4
    map:
      eta_edges: [-3, 0.5, 3]
      phi_edges: [-3.15, 0, 3.15]
      values: [[0, 0], [0, 1]]
`

func testProcessor(t *testing.T, opts ...Option) *Processor {
	t.Helper()
	cfg, err := ParseConfig([]byte(testConfig))
	require.NoError(t, err)
	p, err := New(cfg, opts...)
	require.NoError(t, err)
	return p
}

func testEvent(number uint64) *event.Event {
	muon := collection.New("muon",
		[]float64{30, 45}, []float64{0, 0}, []float64{0, 1}, []float64{0.1, 0.1}).
		WithColumn("charge", []float64{-1, 1})
	tau := collection.New("tau",
		[]float64{20, 60, 35}, []float64{1, 1, 1}, []float64{0, 1, 2}, []float64{1, 1, 1}).
		WithColumn("vs_jet", []float64{0.3, 0.6, 0.9}).
		WithColumn("vs_e", []float64{0.7, 0.4, 0.1})
	jet := collection.New("jet",
		[]float64{100, 80, 50, 40}, []float64{0, 0, 2, 1}, []float64{1, 1.05, 3, -2}, []float64{10, 10, 5, 5}).
		WithColumn("btag", []float64{0.9, 0.2, 0.8, 0.1})

	return &event.Event{
		Run:    1,
		Lumi:   2,
		Number: number,
		Collections: map[string]*collection.Collection{
			"muon": muon,
			"tau":  tau,
			"jet":  jet,
		},
		Masks: map[string]event.MaskSpec{
			"tight_muons": {Collection: "muon", Bits: []int{1, 1}},
			"medium_taus": {Collection: "tau", Bits: []int{1, 1, 1}},
			"good_jets":   {Collection: "jet", Bits: []int{1, 1, 1, 1}},
			"bjets":       {Collection: "jet", Indices: []int{0, 2}},
		},
	}
}

func TestProcessEvent(t *testing.T) {
	p := testProcessor(t)

	res, err := p.ProcessEvent(context.Background(), testEvent(7))
	require.NoError(t, err)
	assert.Equal(t, event.ID{Run: 1, Lumi: 2, Number: 7}, res.ID())

	t.Run("Pairs", func(t *testing.T) {
		mutau := res.Pairs["mutau"]
		assert.Equal(t, []int{1, 1}, mutau.Ints)
		require.NotNil(t, mutau.DeltaR)
		assert.InDelta(t, 1.0, *mutau.DeltaR, 1e-9)
		require.NotNil(t, mutau.Mass)
		assert.Greater(t, *mutau.Mass, 0.0)

		assert.Equal(t, []int{1, 2}, res.Pairs["tautau"].Ints)
		assert.Equal(t, []int{0, 2}, res.Pairs["bb"].Ints)
	})

	t.Run("Matches", func(t *testing.T) {
		m := res.Matches["muon_jets"]
		assert.Equal(t, []int{0, 2}, m.Counts)
		assert.Equal(t, []int{0, 1}, m.Lists[1])
		assert.Empty(t, m.Lists[0])

		tj := res.Matches["tau_jets"]
		require.Len(t, tj.Counts, 3)
		assert.Equal(t, []int{0, 2, 0}, tj.Counts)
		assert.Equal(t, []int{0, 1}, tj.Lists[1])
	})

	t.Run("Others", func(t *testing.T) {
		assert.Equal(t, 0, res.Others["third_tau"])
		assert.Equal(t, 0, res.Others["extra_tau"])
	})

	t.Run("Best", func(t *testing.T) {
		assert.Equal(t, 0, res.Best["top_btag"])
		assert.Equal(t, 2, res.Best["top_tau_ratio"])
	})

	t.Run("FirstWithin", func(t *testing.T) {
		assert.Equal(t, 0, res.FirstWithin["muon_jet"])
	})

	t.Run("Vetoes", func(t *testing.T) {
		assert.True(t, res.Vetoes["dimuon"])
		assert.True(t, res.Vetoes["jet_map"])
		assert.Equal(t, []int{2, 3}, res.Cleaned["clean_jets"])
		assert.True(t, res.Vetoed())
	})
}

func TestProcessEvent_MissingPair(t *testing.T) {
	p := testProcessor(t)

	e := testEvent(1)
	e.Masks["medium_taus"] = event.MaskSpec{Collection: "tau", Bits: []int{0, 0, 0}}

	res, err := p.ProcessEvent(context.Background(), e)
	require.NoError(t, err)

	mutau := res.Pairs["mutau"]
	assert.Equal(t, []int{-1, -1}, mutau.Ints)
	assert.Nil(t, mutau.DeltaR)
	assert.Nil(t, mutau.Mass)

	// Pair-anchored steps see no candidates.
	assert.Equal(t, []int{0, 0, 0}, res.Matches["tau_jets"].Counts)
	assert.Equal(t, -1, res.FirstWithin["muon_jet"])
	assert.Equal(t, -1, res.Others["third_tau"])
	assert.Equal(t, -1, res.Others["extra_tau"])
}

func TestProcessEvent_OtherOnCrossPair(t *testing.T) {
	p := testProcessor(t)

	e := testEvent(1)
	e.Masks["medium_taus"] = event.MaskSpec{Collection: "tau", Bits: []int{0, 1, 1}}

	res, err := p.ProcessEvent(context.Background(), e)
	require.NoError(t, err)

	// muon 1 pairs with tau 1; tau 2 is the remaining medium tau
	assert.Equal(t, []int{1, 1}, res.Pairs["mutau"].Ints)
	assert.Equal(t, 2, res.Others["extra_tau"])
}

func TestProcessEvent_SingleBJet(t *testing.T) {
	p := testProcessor(t)

	e := testEvent(1)
	e.Masks["bjets"] = event.MaskSpec{Collection: "jet", Indices: []int{0}}

	res, err := p.ProcessEvent(context.Background(), e)
	require.NoError(t, err)

	// jet 1 is below the working point but too close to the anchor;
	// jet 3 is below it and well separated
	assert.Equal(t, []int{0, 3}, res.Pairs["bb"].Ints)
}

func TestProcessEvent_Errors(t *testing.T) {
	p := testProcessor(t)

	t.Run("MaskOutOfRange", func(t *testing.T) {
		e := testEvent(3)
		e.Masks["bjets"] = event.MaskSpec{Collection: "jet", Indices: []int{0, 7}}

		_, err := p.ProcessEvent(context.Background(), e)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPrecondition)
		assert.NotErrorIs(t, err, ErrInvalidEvent)

		var ee *EventError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, uint64(3), ee.Event.Number)

		var ie *collection.IndexError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, 7, ie.Index)
	})

	t.Run("ColumnLength", func(t *testing.T) {
		e := testEvent(4)
		e.Collections["tau"].Eta = []float64{1, 1}

		_, err := p.ProcessEvent(context.Background(), e)
		assert.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("MissingCollection", func(t *testing.T) {
		e := testEvent(5)
		delete(e.Collections, "tau")
		delete(e.Masks, "medium_taus")

		_, err := p.ProcessEvent(context.Background(), e)
		assert.ErrorIs(t, err, ErrInvalidEvent)
		assert.ErrorIs(t, err, event.ErrUnknownMask)

		var ee *EventError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, "mutau", ee.Step)
	})

	t.Run("MissingColumn", func(t *testing.T) {
		e := testEvent(6)
		delete(e.Collections["jet"].Columns, "btag")

		_, err := p.ProcessEvent(context.Background(), e)
		assert.ErrorIs(t, err, ErrInvalidEvent)

		var ee *EventError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, "top_btag", ee.Step)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.ProcessEvent(ctx, testEvent(8))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestProcessEvent_Deterministic(t *testing.T) {
	p := testProcessor(t)

	first, err := p.ProcessEvent(context.Background(), testEvent(1))
	require.NoError(t, err)
	for range 10 {
		again, err := p.ProcessEvent(context.Background(), testEvent(1))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestProcessBatch(t *testing.T) {
	p := testProcessor(t, WithWorkers(4))
	assert.Equal(t, 4, p.Workers())

	events := make([]*event.Event, 32)
	for i := range events {
		events[i] = testEvent(uint64(i))
	}

	results, err := p.ProcessBatch(context.Background(), events)
	require.NoError(t, err)
	require.Len(t, results, len(events))
	for i, r := range results {
		assert.Equal(t, uint64(i), r.Event)
		assert.Equal(t, []int{1, 1}, r.Pairs["mutau"].Ints)
	}
}

func TestProcessBatch_Empty(t *testing.T) {
	p := testProcessor(t)

	results, err := p.ProcessBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProcessBatch_Error(t *testing.T) {
	p := testProcessor(t, WithWorkers(2))

	events := []*event.Event{testEvent(0), testEvent(1), testEvent(2)}
	events[1].Masks["bjets"] = event.MaskSpec{Collection: "jet", Indices: []int{9}}

	results, err := p.ProcessBatch(context.Background(), events)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrPrecondition)

	var ee *EventError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, uint64(1), ee.Event.Number)
}

func TestProcessBatch_ResourceController(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxWorkers: 1})
	p := testProcessor(t, WithWorkers(8), WithResourceController(rc))

	events := make([]*event.Event, 8)
	for i := range events {
		events[i] = testEvent(uint64(i))
	}

	results, err := p.ProcessBatch(context.Background(), events)
	require.NoError(t, err)
	assert.Len(t, results, 8)
	assert.Equal(t, int64(0), rc.BusyWorkers())
}

func TestProcessor_Metrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	p := testProcessor(t, WithMetricsCollector(mc))

	_, err := p.ProcessBatch(context.Background(), []*event.Event{testEvent(0), testEvent(1)})
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.EventCount)
	assert.Equal(t, int64(0), stats.EventErrors)
	assert.Equal(t, int64(1), stats.BatchCount)
	assert.Equal(t, int64(6), stats.SelectionCount)
	assert.Equal(t, int64(6), stats.SelectionFound)
	assert.Equal(t, int64(4), stats.VetoCount)
	assert.Equal(t, int64(4), stats.VetoVetoed)
}

func TestProcessor_Report(t *testing.T) {
	r := report.New()
	p := testProcessor(t, WithReport(r))

	e := testEvent(1)
	_, err := p.ProcessEvent(context.Background(), e)
	require.NoError(t, err)

	missing := testEvent(2)
	missing.Masks["medium_taus"] = event.MaskSpec{Collection: "tau", Bits: []int{0, 0, 0}}
	_, err = p.ProcessEvent(context.Background(), missing)
	require.NoError(t, err)

	s := r.Summary()
	assert.Equal(t, int64(2), s.Events)

	var mutau *report.PairSummary
	for i := range s.Pairs {
		if s.Pairs[i].Step == "mutau" {
			mutau = &s.Pairs[i]
		}
	}
	require.NotNil(t, mutau)
	assert.Equal(t, int64(1), mutau.Found)
	assert.Equal(t, int64(1), mutau.Missing)
	assert.InDelta(t, 1.0, mutau.MeanDeltaR, 1e-9)
}

type countingCollector struct {
	NoopMetricsCollector
	events atomic.Int64
}

func (c *countingCollector) RecordEvent(time.Duration, error) { c.events.Add(1) }

func TestProcessor_FailedEventsAreRecorded(t *testing.T) {
	mc := &countingCollector{}
	p := testProcessor(t, WithMetricsCollector(mc))

	e := testEvent(1)
	delete(e.Collections, "jet")
	_, err := p.ProcessEvent(context.Background(), e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEvent))
	assert.Equal(t, int64(1), mc.events.Load())
}

func TestNew_Workers(t *testing.T) {
	cfg, err := ParseConfig([]byte("version: 1\nworkers: 3\n"))
	require.NoError(t, err)

	p, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Workers())

	p, err = New(cfg, WithWorkers(5))
	require.NoError(t, err)
	assert.Equal(t, 5, p.Workers())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(nil)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
}
