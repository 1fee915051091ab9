package match

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"go-hep.org/x/hep/fmom"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/geometry"
	"github.com/hupe1980/pairsel/model"
)

// ErrInvalidMaxDeltaR is returned for a non-positive maximum separation.
var ErrInvalidMaxDeltaR = errors.New("match: max delta R must be positive")

type entry struct {
	index  int
	deltaR float64
}

// Table holds, per primary index, the matched secondary indices ordered by
// ascending separation. Primaries that were not candidates hold no matches.
type Table struct {
	entries [][]entry
}

// Build matches every primary candidate against every secondary candidate.
// Matches satisfy deltaR < maxDeltaR; equal separations keep candidate order.
func Build(primary, secondary *collection.Collection, primaryCands, secondaryCands []int, maxDeltaR float64) (*Table, error) {
	if err := validateMaxDeltaR(maxDeltaR); err != nil {
		return nil, err
	}
	if err := primary.CheckIndices(primaryCands); err != nil {
		return nil, err
	}
	if err := secondary.CheckIndices(secondaryCands); err != nil {
		return nil, err
	}

	t := &Table{entries: make([][]entry, primary.Len())}
	for _, p := range primaryCands {
		var matched []entry
		for _, s := range secondaryCands {
			dr := geometry.DeltaR(primary.Eta[p], primary.Phi[p], secondary.Eta[s], secondary.Phi[s])
			if dr < maxDeltaR {
				matched = append(matched, entry{index: s, deltaR: dr})
			}
		}
		slices.SortStableFunc(matched, func(a, b entry) int {
			switch {
			case a.deltaR < b.deltaR:
				return -1
			case a.deltaR > b.deltaR:
				return 1
			default:
				return 0
			}
		})
		t.entries[p] = matched
	}
	return t, nil
}

// Len returns the number of primary slots.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Rank returns the k-th closest match of primary p, or NotFound.
func (t *Table) Rank(p, k int) model.Index {
	if p < 0 || p >= t.Len() || k < 0 || k >= len(t.entries[p]) {
		return model.NotFound
	}
	return model.Found(t.entries[p][k].index)
}

// DeltaR returns the separation of the k-th closest match of primary p.
func (t *Table) DeltaR(p, k int) (float64, bool) {
	if p < 0 || p >= t.Len() || k < 0 || k >= len(t.entries[p]) {
		return 0, false
	}
	return t.entries[p][k].deltaR, true
}

// Count returns the number of matches of primary p.
func (t *Table) Count(p int) int {
	if p < 0 || p >= t.Len() {
		return 0
	}
	return len(t.entries[p])
}

// Counts returns the match count of every primary slot.
func (t *Table) Counts() []int {
	out := make([]int, t.Len())
	for p := range out {
		out[p] = len(t.entries[p])
	}
	return out
}

// Matches returns a copy of the matched indices of primary p.
func (t *Table) Matches(p int) []int {
	if p < 0 || p >= t.Len() {
		return nil
	}
	out := make([]int, len(t.entries[p]))
	for k, e := range t.entries[p] {
		out[k] = e.index
	}
	return out
}

// Lists returns a copy of every primary slot's matched indices.
func (t *Table) Lists() [][]int {
	out := make([][]int, t.Len())
	for p := range out {
		out[p] = t.Matches(p)
	}
	return out
}

// Matcher is a reusable matching configuration.
type Matcher struct {
	MaxDeltaR float64
}

// NewMatcher validates maxDeltaR and returns a Matcher.
func NewMatcher(maxDeltaR float64) (*Matcher, error) {
	if err := validateMaxDeltaR(maxDeltaR); err != nil {
		return nil, err
	}
	return &Matcher{MaxDeltaR: maxDeltaR}, nil
}

// Build is Build with the matcher's maximum separation.
func (m *Matcher) Build(primary, secondary *collection.Collection, primaryCands, secondaryCands []int) (*Table, error) {
	return Build(primary, secondary, primaryCands, secondaryCands, m.MaxDeltaR)
}

// FirstWithin returns the first candidate, in list order, closer than
// maxDeltaR to ref. A reference with pt <= 0 is treated as absent.
func FirstWithin(ref fmom.PtEtaPhiM, coll *collection.Collection, cands []int, maxDeltaR float64) (model.Index, error) {
	if err := validateMaxDeltaR(maxDeltaR); err != nil {
		return model.NotFound, err
	}
	if err := coll.CheckIndices(cands); err != nil {
		return model.NotFound, err
	}
	if !(ref.Pt() > 0) {
		return model.NotFound, nil
	}
	for _, i := range cands {
		p := geometry.P4(coll.Pt[i], coll.Eta[i], coll.Phi[i], coll.Mass[i])
		if geometry.DeltaRP4(&ref, &p) < maxDeltaR {
			return model.Found(i), nil
		}
	}
	return model.NotFound, nil
}

func validateMaxDeltaR(v float64) error {
	if math.IsNaN(v) || v <= 0 {
		return fmt.Errorf("%w, got %g", ErrInvalidMaxDeltaR, v)
	}
	return nil
}
