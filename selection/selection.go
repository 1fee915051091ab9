package selection

import (
	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/geometry"
	"github.com/hupe1980/pairsel/model"
)

// Kind names a pairing mode.
type Kind string

const (
	KindCross    Kind = "cross"
	KindSame     Kind = "same"
	KindAnchored Kind = "anchored"
)

// Input holds the read-only views a selector works on. Candidate lists hold
// original indices into their collection. Selectors that work on a single
// collection read First and FirstCandidates; a nil Second falls back to First.
type Input struct {
	First            *collection.Collection
	Second           *collection.Collection
	FirstCandidates  []int
	SecondCandidates []int
}

func (in Input) second() *collection.Collection {
	if in.Second == nil {
		return in.First
	}
	return in.Second
}

// Selector chooses one pair per event.
type Selector interface {
	Name() string
	Kind() Kind
	Select(in Input) (model.Pair, error)
}

// deltaR is the separation of object i of a and object j of b. Both indices
// must have been checked.
func deltaR(a *collection.Collection, i int, b *collection.Collection, j int) float64 {
	pa := geometry.P4(a.Pt[i], a.Eta[i], a.Phi[i], a.Mass[i])
	pb := geometry.P4(b.Pt[j], b.Eta[j], b.Phi[j], b.Mass[j])
	return geometry.DeltaRP4(&pa, &pb)
}

var (
	_ Selector = (*CrossSelector)(nil)
	_ Selector = (*SameSelector)(nil)
	_ Selector = (*AnchoredSelector)(nil)
)
