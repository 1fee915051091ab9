package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/geometry"
	"github.com/hupe1980/pairsel/model"
)

func flat(name string, eta []float64) *collection.Collection {
	n := len(eta)
	pt := make([]float64, n)
	for i := range pt {
		pt[i] = 50
	}
	return collection.New(name, pt, eta, make([]float64, n), make([]float64, n))
}

func TestBuild_RankOrdersByDeltaR(t *testing.T) {
	fatjets := flat("fatjet", []float64{0})
	jets := flat("jet", []float64{0.5, 0.1, 0.3, 2.0})

	tbl, err := Build(fatjets, jets, []int{0}, []int{0, 1, 2, 3}, 0.8)
	require.NoError(t, err)

	assert.Equal(t, model.Found(1), tbl.Rank(0, 0))
	assert.Equal(t, model.Found(2), tbl.Rank(0, 1))
	assert.Equal(t, model.Found(0), tbl.Rank(0, 2))
	assert.Equal(t, model.NotFound, tbl.Rank(0, 3))
	assert.Equal(t, 3, tbl.Count(0))
	assert.Equal(t, []int{1, 2, 0}, tbl.Matches(0))

	dr, ok := tbl.DeltaR(0, 0)
	require.True(t, ok)
	assert.InDelta(t, 0.1, dr, 1e-12)
}

func TestBuild_NonCandidatesEmpty(t *testing.T) {
	fatjets := flat("fatjet", []float64{0, 1, 2})
	jets := flat("jet", []float64{0.05, 1.05, 2.05})

	tbl, err := Build(fatjets, jets, []int{1}, []int{0, 1, 2}, 0.8)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []int{0, 1, 0}, tbl.Counts())
	assert.Empty(t, tbl.Matches(0))
	assert.Equal(t, []int{1}, tbl.Matches(1))
	assert.Equal(t, [][]int{{}, {1}, {}}, tbl.Lists())
}

func TestBuild_StrictMaximum(t *testing.T) {
	fatjets := flat("fatjet", []float64{0})
	jets := flat("jet", []float64{0.5, 0.25})

	tbl, err := Build(fatjets, jets, []int{0}, []int{0, 1}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, tbl.Matches(0))
}

func TestBuild_EqualDeltaRKeepsCandidateOrder(t *testing.T) {
	fatjets := flat("fatjet", []float64{0})
	jets := flat("jet", []float64{0.25, -0.25, 0.25})

	tbl, err := Build(fatjets, jets, []int{0}, []int{2, 0, 1}, 0.8)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, tbl.Matches(0))
}

func TestBuild_Errors(t *testing.T) {
	fatjets := flat("fatjet", []float64{0})
	jets := flat("jet", []float64{0.1})

	_, err := Build(fatjets, jets, []int{0}, []int{0}, 0)
	assert.ErrorIs(t, err, ErrInvalidMaxDeltaR)

	_, err = Build(fatjets, jets, []int{1}, []int{0}, 0.8)
	var ie *collection.IndexError
	assert.ErrorAs(t, err, &ie)
}

func TestTable_OutOfRangeQueries(t *testing.T) {
	var tbl *Table
	assert.Equal(t, model.NotFound, tbl.Rank(0, 0))
	assert.Equal(t, 0, tbl.Count(0))
	assert.Empty(t, tbl.Counts())

	tbl, err := Build(flat("a", []float64{0}), flat("b", []float64{0}), []int{0}, []int{0}, 0.4)
	require.NoError(t, err)
	assert.Equal(t, model.NotFound, tbl.Rank(-1, 0))
	assert.Equal(t, model.NotFound, tbl.Rank(0, -1))
	assert.Equal(t, model.NotFound, tbl.Rank(5, 0))
	assert.Nil(t, tbl.Matches(5))
}

func TestMatcher(t *testing.T) {
	_, err := NewMatcher(-0.1)
	assert.ErrorIs(t, err, ErrInvalidMaxDeltaR)

	m, err := NewMatcher(0.8)
	require.NoError(t, err)

	tbl, err := m.Build(flat("a", []float64{0}), flat("b", []float64{0.7, 0.9}), []int{0}, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, tbl.Matches(0))
}

func TestFirstWithin(t *testing.T) {
	fatjets := flat("fatjet", []float64{2.0, 0.3, 0.1})

	t.Run("FirstInListOrder", func(t *testing.T) {
		ref := geometry.P4(40, 0, 0, 4.2)
		idx, err := FirstWithin(ref, fatjets, []int{0, 1, 2}, 0.8)
		require.NoError(t, err)
		assert.Equal(t, model.Found(1), idx)
	})

	t.Run("AbsentReference", func(t *testing.T) {
		ref := geometry.P4(0, 0, 0, 0)
		idx, err := FirstWithin(ref, fatjets, []int{0, 1, 2}, 0.8)
		require.NoError(t, err)
		assert.Equal(t, model.NotFound, idx)
	})

	t.Run("NoneWithin", func(t *testing.T) {
		ref := geometry.P4(40, -2, 0, 0)
		idx, err := FirstWithin(ref, fatjets, []int{0, 1, 2}, 0.8)
		require.NoError(t, err)
		assert.Equal(t, model.NotFound, idx)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		ref := geometry.P4(40, 0, 0, 0)
		_, err := FirstWithin(ref, fatjets, []int{9}, 0.8)
		var ie *collection.IndexError
		assert.ErrorAs(t, err, &ie)
	})
}
