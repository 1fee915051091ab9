package selection

import (
	"github.com/hupe1980/pairsel/compare"
)

// Channel presets. Each panics only if its built-in configuration is
// invalid, which the package tests rule out.

// MuTau selects a muon and a boosted tau.
func MuTau() *CrossSelector {
	return mustCross("mt", compare.PtOrdering(), DefaultBoostedWindow)
}

// ETau selects an electron and a boosted tau.
func ETau() *CrossSelector {
	return mustCross("et", compare.PtOrdering(), DefaultBoostedWindow)
}

// TauTau selects two boosted taus.
func TauTau() *SameSelector {
	s, err := NewSameSelector("tt", compare.PtOrdering(), DefaultBoostedWindow)
	if err != nil {
		panic(err)
	}
	return s
}

// BB selects a b-jet pair using the "btag" column and the given working point.
func BB(workingPoint float64) *AnchoredSelector {
	s, err := NewAnchoredSelector("bb", "btag", workingPoint, DefaultBBMinDeltaR)
	if err != nil {
		panic(err)
	}
	return s
}

func mustCross(name string, chain compare.Chain, w Window) *CrossSelector {
	s, err := NewCrossSelector(name, chain, w)
	if err != nil {
		panic(err)
	}
	return s
}
