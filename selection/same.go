package selection

import (
	"fmt"

	"github.com/hupe1980/pairsel/compare"
	"github.com/hupe1980/pairsel/geometry"
	"github.com/hupe1980/pairsel/model"
)

// SameSelector pairs two distinct objects of one collection.
type SameSelector struct {
	name   string
	chain  compare.Chain
	window Window
}

// NewSameSelector creates a single-collection selector.
func NewSameSelector(name string, chain compare.Chain, window Window) (*SameSelector, error) {
	if err := chain.Validate(); err != nil {
		return nil, fmt.Errorf("selector %q: %w", name, err)
	}
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("selector %q: %w", name, err)
	}
	return &SameSelector{name: name, chain: chain, window: window}, nil
}

func (s *SameSelector) Name() string { return s.name }

func (s *SameSelector) Kind() Kind { return KindSame }

// Window returns the accepted separation window.
func (s *SameSelector) Window() Window { return s.window }

// Select returns the best-ranked unordered pair inside the window, ordered so
// that the first object has the higher pt, or NoPair.
func (s *SameSelector) Select(in Input) (model.Pair, error) {
	coll, cands := in.First, in.FirstCandidates
	if err := coll.CheckIndices(cands); err != nil {
		return model.NoPair, err
	}
	if len(cands) < 2 {
		return model.NoPair, nil
	}

	cmp, err := s.chain.Bind(coll, coll, cands, cands)
	if err != nil {
		return model.NoPair, err
	}

	pairs := geometry.Pairs(len(cands))
	compare.Sort(pairs, cmp)

	for _, p := range pairs {
		i, j := cands[p.I], cands[p.J]
		if i == j {
			continue
		}
		if !s.window.Contains(deltaR(coll, i, coll, j)) {
			continue
		}
		// search order and output order differ
		if coll.Pt[i] < coll.Pt[j] {
			i, j = j, i
		}
		return model.PairOf(i, j), nil
	}
	return model.NoPair, nil
}
