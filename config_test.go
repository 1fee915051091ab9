package pairsel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pairsel/codec"
	"github.com/hupe1980/pairsel/compare"
	"github.com/hupe1980/pairsel/selection"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfig))
	require.NoError(t, err)

	assert.Equal(t, ConfigVersion, cfg.Version)
	require.Len(t, cfg.Pairs, 3)
	assert.Equal(t, "mt", cfg.Pairs[0].Preset)
	require.NotNil(t, cfg.Pairs[2].WorkingPoint)
	assert.Equal(t, 0.5, *cfg.Pairs[2].WorkingPoint)
	require.NotNil(t, cfg.Matches[1].From)
	assert.Equal(t, SlotSecond, cfg.Matches[1].From.Slot)
	require.NotNil(t, cfg.Vetoes[2].Map)
	assert.Equal(t, 1, cfg.Vetoes[2].Map.Flagged())

	require.NoError(t, cfg.Validate())
}

func TestParseConfig_UnknownField(t *testing.T) {
	_, err := ParseConfig([]byte("version: 1\npairz: []\n"))
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "yaml", ce.Field)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairsel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Vetoes, 3)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{
			name:  "Version",
			yaml:  "version: 2",
			field: "version",
		},
		{
			name:  "Compression",
			yaml:  "compression: gzip",
			field: "compression",
		},
		{
			name:  "MissingName",
			yaml:  "pairs: [{preset: tt, first: {collection: tau}}]",
			field: "pairs[0].name",
		},
		{
			name:  "MissingCollection",
			yaml:  "pairs: [{name: p, preset: tt, first: {mask: m}}]",
			field: "pairs[0].first.collection",
		},
		{
			name:  "DuplicateName",
			yaml:  "pairs: [{name: p, preset: tt, first: {collection: tau}}]\nbest: [{name: p, source: {collection: jet}, column: btag}]",
			field: "best[0].name",
		},
		{
			name:  "MissingKind",
			yaml:  "pairs: [{name: p, first: {collection: tau}}]",
			field: "pairs[0].kind",
		},
		{
			name:  "PresetConflict",
			yaml:  "pairs: [{name: p, preset: tt, kind: cross, first: {collection: tau}}]",
			field: "pairs[0].kind",
		},
		{
			name:  "CrossWithoutSecond",
			yaml:  "pairs: [{name: p, kind: cross, first: {collection: muon}}]",
			field: "pairs[0].second",
		},
		{
			name:  "SameWithSecond",
			yaml:  "pairs: [{name: p, kind: same, first: {collection: tau}, second: {collection: tau}}]",
			field: "pairs[0].second",
		},
		{
			name:  "KeysAndOrdering",
			yaml:  "pairs: [{name: p, kind: same, ordering: pt, keys: [{side: first, column: pt, order: desc}], first: {collection: tau}}]",
			field: "pairs[0].keys",
		},
		{
			name:  "InvalidKeyOrder",
			yaml:  "pairs: [{name: p, kind: same, keys: [{side: first, column: pt, order: up}], first: {collection: tau}}]",
			field: "pairs[0].keys[0].order",
		},
		{
			name:  "InvalidWindow",
			yaml:  "pairs: [{name: p, preset: tt, window: {min: 2, max: 1}, first: {collection: tau}}]",
			field: "pairs[0].window",
		},
		{
			name:  "AnchoredWithoutWorkingPoint",
			yaml:  "pairs: [{name: p, preset: bb, first: {collection: jet}}]",
			field: "pairs[0].working_point",
		},
		{
			name:  "AnchoredAcrossCollections",
			yaml:  "pairs: [{name: p, preset: bb, working_point: 0.5, first: {collection: jet}, second: {collection: fatjet}}]",
			field: "pairs[0].second.collection",
		},
		{
			name:  "AnchoredWithWindow",
			yaml:  "pairs: [{name: p, preset: bb, working_point: 0.5, window: {min: 0, max: 1}, first: {collection: jet}}]",
			field: "pairs[0].kind",
		},
		{
			name:  "CrossWithWorkingPoint",
			yaml:  "pairs: [{name: p, preset: mt, working_point: 0.5, first: {collection: muon}, second: {collection: tau}}]",
			field: "pairs[0].kind",
		},
		{
			name:  "MatchWithoutPrimary",
			yaml:  "matches: [{name: m, secondary: {collection: jet}, max_delta_r: 0.4}]",
			field: "matches[0].primary",
		},
		{
			name:  "MatchMaxDeltaR",
			yaml:  "matches: [{name: m, primary: {collection: tau}, secondary: {collection: jet}, max_delta_r: 0}]",
			field: "matches[0].max_delta_r",
		},
		{
			name:  "MatchUnknownPair",
			yaml:  "matches: [{name: m, from: {pair: nope}, secondary: {collection: jet}, max_delta_r: 0.4}]",
			field: "matches[0].from.pair",
		},
		{
			name: "MatchBothSlotsAcrossCollections",
			yaml: "pairs: [{name: p, preset: mt, first: {collection: muon}, second: {collection: tau}}]\n" +
				"matches: [{name: m, from: {pair: p}, secondary: {collection: jet}, max_delta_r: 0.4}]",
			field: "matches[0].from.slot",
		},
		{
			name:  "OtherUnknownPair",
			yaml:  "others: [{name: o, pair: nope, source: {collection: tau, mask: m}}]",
			field: "others[0].pair",
		},
		{
			name: "OtherWithoutMask",
			yaml: "pairs: [{name: p, preset: tt, first: {collection: tau}}]\n" +
				"others: [{name: o, pair: p, source: {collection: tau}}]",
			field: "others[0].source.mask",
		},
		{
			name: "OtherForeignCollection",
			yaml: "pairs: [{name: p, preset: mt, first: {collection: muon}, second: {collection: tau}}]\n" +
				"others: [{name: o, pair: p, source: {collection: muon, mask: m}}]",
			field: "others[0].source.collection",
		},
		{
			name:  "BestWithoutScore",
			yaml:  "best: [{name: b, source: {collection: jet}}]",
			field: "best[0].column",
		},
		{
			name:  "BestRatioWithoutDenominator",
			yaml:  "best: [{name: b, source: {collection: tau}, numerator: vs_jet}]",
			field: "best[0].denominator",
		},
		{
			name: "FirstWithinBothSlots",
			yaml: "pairs: [{name: p, preset: tt, first: {collection: tau}}]\n" +
				"first_within: [{name: f, from: {pair: p, slot: both}, target: {collection: jet}, max_delta_r: 0.4}]",
			field: "first_within[0].from.slot",
		},
		{
			name:  "VetoUnknownKind",
			yaml:  "vetoes: [{name: v, kind: maybe, source: {collection: muon}}]",
			field: "vetoes[0].kind",
		},
		{
			name:  "CleanWithoutAgainst",
			yaml:  "vetoes: [{name: v, kind: clean, source: {collection: jet}, min_delta_r: 0.4}]",
			field: "vetoes[0].against",
		},
		{
			name:  "VetoMapWithoutMap",
			yaml:  "vetoes: [{name: v, kind: veto_map, source: {collection: jet}, against: {collection: muon}}]",
			field: "vetoes[0].map",
		},
		{
			name: "VetoMapInvalidGrid",
			yaml: "vetoes: [{name: v, kind: veto_map, source: {collection: jet}, against: {collection: muon}, " +
				"map: {eta_edges: [0, 1], phi_edges: [0, 1], values: [[0, 1]]}}]",
			field: "vetoes[0].map",
		},
		{
			name:  "NegativeResources",
			yaml:  "resources: {max_workers: -1}",
			field: "resources.max_workers",
		},
		{
			name:  "ReportBinning",
			yaml:  "report: {delta_r: {bins: 0, min: 0, max: 5}}",
			field: "report.delta_r",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.yaml))
			require.NoError(t, err)

			err = cfg.Validate()
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field, ce.Error())
		})
	}
}

func TestConfig_ValidateNil(t *testing.T) {
	var cfg *Config
	var ce *ConfigError
	require.ErrorAs(t, cfg.Validate(), &ce)
}

func TestCompile_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfig))
	require.NoError(t, err)

	p, err := compile(cfg, 0)
	require.NoError(t, err)

	assert.Equal(t, codec.Default, p.codec)
	assert.Nil(t, p.compression)
	assert.Equal(t, SlotSecond, p.matches[1].from.Slot)
	assert.Equal(t, Source{Collection: "tau", Mask: "medium_taus"}, p.matches[1].primary)
	assert.Equal(t, SlotFirst, p.firstWithin[0].from.Slot)
	assert.Equal(t, "charge", p.vetoes[0].chargeColumn)

	cross, ok := p.pairs[0].sel.(*selection.CrossSelector)
	require.True(t, ok)
	assert.Equal(t, selection.DefaultBoostedWindow, cross.Window())
	assert.Equal(t, selection.KindAnchored, p.pairs[2].sel.Kind())
	assert.Equal(t, Source{Collection: "jet"}, p.pairs[2].second)
	assert.Equal(t, Source{Collection: "tau", Mask: "medium_taus"}, p.others[1].source)
}

func TestCompile_Codec(t *testing.T) {
	cfg, err := ParseConfig([]byte("codec: json\ncompression: zstd\n"))
	require.NoError(t, err)

	p, err := compile(cfg, 0)
	require.NoError(t, err)
	assert.Equal(t, codec.JSON{}, p.codec)
	require.NotNil(t, p.compression)
	assert.Equal(t, codec.CompressionZstd, *p.compression)
}

func TestBuildChain(t *testing.T) {
	t.Run("Isolation", func(t *testing.T) {
		chain, err := buildChain(PairStep{Ordering: "isolation", IsoColumn: "reliso"})
		require.NoError(t, err)
		assert.Equal(t, compare.IsolationOrdering("reliso"), chain)
	})

	t.Run("DefaultIsoColumn", func(t *testing.T) {
		chain, err := buildChain(PairStep{Ordering: "isolation"})
		require.NoError(t, err)
		assert.Equal(t, compare.IsolationOrdering("iso"), chain)
	})

	t.Run("Keys", func(t *testing.T) {
		chain, err := buildChain(PairStep{Keys: []KeyConfig{
			{Side: "second", Column: "iso", Order: "asc"},
			{Side: "first", Column: "pt", Order: "desc"},
		}})
		require.NoError(t, err)
		require.Len(t, chain.Keys, 2)
		assert.Equal(t, compare.Second, chain.Keys[0].Side)
		assert.Equal(t, compare.Ascending, chain.Keys[0].Order)
		assert.Equal(t, compare.First, chain.Keys[1].Side)
		assert.Equal(t, compare.Descending, chain.Keys[1].Order)
	})
}

func TestCompile_EpsilonOverride(t *testing.T) {
	cfg, err := ParseConfig([]byte("epsilon: 0.01\npairs: [{name: p, preset: tt, first: {collection: tau}}]\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	_, err = New(cfg, WithEpsilon(0.5))
	require.NoError(t, err)
}

func TestConfig_NewReport(t *testing.T) {
	cfg, err := ParseConfig([]byte("report: {mass: {bins: 10, min: 0, max: 100}}\n"))
	require.NoError(t, err)

	r := cfg.NewReport()
	r.FillPair("p", 1, 50)
	s := r.Summary()
	require.Len(t, s.Pairs, 1)
	assert.InDelta(t, 50.0, s.Pairs[0].MeanMass, 1e-9)
}
