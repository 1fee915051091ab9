package selection

import (
	"fmt"

	"github.com/hupe1980/pairsel/compare"
	"github.com/hupe1980/pairsel/geometry"
	"github.com/hupe1980/pairsel/model"
)

// CrossSelector pairs one object of the first collection with one object of
// the second.
type CrossSelector struct {
	name   string
	chain  compare.Chain
	window Window
}

// NewCrossSelector creates a cross-collection selector.
func NewCrossSelector(name string, chain compare.Chain, window Window) (*CrossSelector, error) {
	if err := chain.Validate(); err != nil {
		return nil, fmt.Errorf("selector %q: %w", name, err)
	}
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("selector %q: %w", name, err)
	}
	return &CrossSelector{name: name, chain: chain, window: window}, nil
}

func (s *CrossSelector) Name() string { return s.name }

func (s *CrossSelector) Kind() Kind { return KindCross }

// Window returns the accepted separation window.
func (s *CrossSelector) Window() Window { return s.window }

// Select returns the best-ranked cross pair inside the window, or NoPair.
func (s *CrossSelector) Select(in Input) (model.Pair, error) {
	second := in.second()
	if err := in.First.CheckIndices(in.FirstCandidates); err != nil {
		return model.NoPair, err
	}
	if err := second.CheckIndices(in.SecondCandidates); err != nil {
		return model.NoPair, err
	}
	if len(in.FirstCandidates) == 0 || len(in.SecondCandidates) == 0 {
		return model.NoPair, nil
	}

	cmp, err := s.chain.Bind(in.First, second, in.FirstCandidates, in.SecondCandidates)
	if err != nil {
		return model.NoPair, err
	}

	pairs := geometry.CrossProduct(len(in.FirstCandidates), len(in.SecondCandidates))
	compare.Sort(pairs, cmp)

	for _, p := range pairs {
		i, j := in.FirstCandidates[p.I], in.SecondCandidates[p.J]
		if s.window.Contains(deltaR(in.First, i, second, j)) {
			return model.PairOf(i, j), nil
		}
	}
	return model.NoPair, nil
}
