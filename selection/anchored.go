package selection

import (
	"fmt"
	"math"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/model"
)

// DefaultBBMinDeltaR is the minimum separation of the two jets of a b pair.
const DefaultBBMinDeltaR = 0.4

// AnchoredSelector keeps the first primary candidate as anchor and searches a
// partner for it.
//
// With several primary candidates the partner is the first later primary
// candidate separated from the anchor by more than MinDeltaR. With a single
// primary candidate every secondary candidate is scanned and the one with the
// highest discriminant below the working point wins, again subject to the
// separation cut.
type AnchoredSelector struct {
	name         string
	column       string
	workingPoint float64
	minDeltaR    float64
}

// NewAnchoredSelector creates an anchored selector. column names the
// discriminant column (b-tag score) of the secondary collection.
func NewAnchoredSelector(name, column string, workingPoint, minDeltaR float64) (*AnchoredSelector, error) {
	if column == "" {
		return nil, fmt.Errorf("selector %q: discriminant column is required", name)
	}
	if math.IsNaN(workingPoint) {
		return nil, fmt.Errorf("selector %q: working point must be a number", name)
	}
	if math.IsNaN(minDeltaR) || minDeltaR < 0 {
		return nil, fmt.Errorf("selector %q: %w: min delta R must be non-negative, got %g", name, ErrInvalidWindow, minDeltaR)
	}
	return &AnchoredSelector{name: name, column: column, workingPoint: workingPoint, minDeltaR: minDeltaR}, nil
}

func (s *AnchoredSelector) Name() string { return s.name }

func (s *AnchoredSelector) Kind() Kind { return KindAnchored }

// Select returns (anchor, partner), (anchor, NotFound) or NoPair.
// FirstCandidates are the primary (b-tagged) candidates, SecondCandidates the
// full pool searched when only one primary candidate exists. A Second
// collection with the same Name as First is taken to hold the same objects,
// so the anchor is never its own partner.
func (s *AnchoredSelector) Select(in Input) (model.Pair, error) {
	second := in.second()
	if err := in.First.CheckIndices(in.FirstCandidates); err != nil {
		return model.NoPair, err
	}
	if err := second.CheckIndices(in.SecondCandidates); err != nil {
		return model.NoPair, err
	}

	switch a := newAnchor(in.FirstCandidates).(type) {
	case emptyAnchor:
		return model.NoPair, nil
	case singleAnchor:
		return s.selectSingle(in.First, a, second, in.SecondCandidates)
	case multiAnchor:
		return s.selectMulti(in.First, a), nil
	default:
		panic(fmt.Sprintf("selection: unexpected anchor variant %T", a))
	}
}

func (s *AnchoredSelector) selectSingle(first *collection.Collection, a singleAnchor,
	pool *collection.Collection, cands []int) (model.Pair, error) {
	disc, err := pool.Column(s.column)
	if err != nil {
		return model.NoPair, err
	}

	best := model.NotFound
	bestScore := -1.0
	for _, j := range cands {
		if j >= len(disc) {
			return model.NoPair, &collection.IndexError{Collection: pool.Name, Column: s.column, Index: j, Len: len(disc)}
		}
		if sameCollection(first, pool) && j == a.anchor {
			continue
		}
		score := disc[j]
		if !(score < s.workingPoint && score > bestScore) {
			continue
		}
		if deltaR(first, a.anchor, pool, j) <= s.minDeltaR {
			continue
		}
		best, bestScore = model.Found(j), score
	}
	return model.Pair{First: model.Found(a.anchor), Second: best}, nil
}

func (s *AnchoredSelector) selectMulti(first *collection.Collection, a multiAnchor) model.Pair {
	for _, j := range a.rest {
		if j == a.anchor {
			continue
		}
		if deltaR(first, a.anchor, first, j) > s.minDeltaR {
			return model.PairOf(a.anchor, j)
		}
	}
	return model.Pair{First: model.Found(a.anchor), Second: model.NotFound}
}

// sameCollection reports whether a and b hold the same objects, either as
// one value or as two views carrying the same name.
func sameCollection(a, b *collection.Collection) bool {
	return a == b || a.Name == b.Name
}

// anchor is the closed set of primary candidate shapes.
type anchor interface{ isAnchor() }

type emptyAnchor struct{}

type singleAnchor struct{ anchor int }

type multiAnchor struct {
	anchor int
	rest   []int
}

func (emptyAnchor) isAnchor()  {}
func (singleAnchor) isAnchor() {}
func (multiAnchor) isAnchor()  {}

func newAnchor(cands []int) anchor {
	switch len(cands) {
	case 0:
		return emptyAnchor{}
	case 1:
		return singleAnchor{anchor: cands[0]}
	default:
		return multiAnchor{anchor: cands[0], rest: cands[1:]}
	}
}
