package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/compare"
	"github.com/hupe1980/pairsel/model"
)

func TestSameSelector_TooFew(t *testing.T) {
	taus := newColl("tau", obj{40, 0, 0}, obj{30, 1, 0})

	for _, cands := range [][]int{nil, {1}} {
		p, err := TauTau().Select(Input{First: taus, FirstCandidates: cands})
		require.NoError(t, err)
		assert.Equal(t, model.NoPair, p)
	}
}

func TestSameSelector_SwapsToLeadingFirst(t *testing.T) {
	taus := newColl("tau", obj{20, 0, 0}, obj{50, 1, 0})

	p, err := TauTau().Select(Input{First: taus, FirstCandidates: all(taus)})
	require.NoError(t, err)
	assert.Equal(t, model.PairOf(1, 0), p)
}

func TestSameSelector_Ranking(t *testing.T) {
	taus := newColl("tau", obj{10, 0, 0}, obj{50, 1, 0}, obj{40, 2, 0}, obj{30, 3, 0})

	p, err := TauTau().Select(Input{First: taus, FirstCandidates: all(taus)})
	require.NoError(t, err)
	assert.Equal(t, model.PairOf(1, 2), p)
}

func TestSameSelector_OpenWindow(t *testing.T) {
	s, err := NewSameSelector("tt", compare.PtOrdering(), Window{Min: 0.5, Max: 2.0})
	require.NoError(t, err)

	taus := newColl("tau", obj{60, 0, 0}, obj{50, 0.5, 0})
	p, err := s.Select(Input{First: taus, FirstCandidates: all(taus)})
	require.NoError(t, err)
	assert.Equal(t, model.NoPair, p)

	taus = newColl("tau", obj{60, 0, 0}, obj{50, 0.5, 0}, obj{20, 1.5, 0})
	p, err = s.Select(Input{First: taus, FirstCandidates: all(taus)})
	require.NoError(t, err)
	// (0,1) at the boundary is rejected, (0,2) accepted
	assert.Equal(t, model.PairOf(0, 2), p)
}

func TestSameSelector_NoSelfPair(t *testing.T) {
	taus := newColl("tau", obj{60, 0, 0}, obj{50, 1, 0})
	s, err := NewSameSelector("tt", compare.PtOrdering(), Window{Min: 0, Max: 5})
	require.NoError(t, err)

	p, err := s.Select(Input{First: taus, FirstCandidates: []int{0, 0}})
	require.NoError(t, err)
	assert.Equal(t, model.NoPair, p)
}

func TestSameSelector_OutOfRange(t *testing.T) {
	taus := newColl("tau", obj{60, 0, 0})
	_, err := TauTau().Select(Input{First: taus, FirstCandidates: []int{0, 1}})
	var ie *collection.IndexError
	assert.ErrorAs(t, err, &ie)
}
