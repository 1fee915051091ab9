package veto

import (
	"fmt"
	"slices"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/geometry"
)

// Dilepton reports whether any unordered pair of candidates has opposite
// charge and a separation larger than minDeltaR.
func Dilepton(coll *collection.Collection, cands []int, chargeColumn string, minDeltaR float64) (bool, error) {
	charge, err := coll.Column(chargeColumn)
	if err != nil {
		return false, err
	}
	if err := coll.CheckIndices(cands); err != nil {
		return false, err
	}
	for _, p := range geometry.Pairs(len(cands)) {
		i, j := cands[p.I], cands[p.J]
		if charge[i]*charge[j] >= 0 {
			continue
		}
		if geometry.DeltaR(coll.Eta[i], coll.Phi[i], coll.Eta[j], coll.Phi[j]) > minDeltaR {
			return true, nil
		}
	}
	return false, nil
}

// Clean returns the primary candidates that are at least minDeltaR away from
// every secondary candidate. The candidate order is kept.
func Clean(primary *collection.Collection, primaryCands []int, secondary *collection.Collection, secondaryCands []int, minDeltaR float64) ([]int, error) {
	if err := primary.CheckIndices(primaryCands); err != nil {
		return nil, err
	}
	if err := secondary.CheckIndices(secondaryCands); err != nil {
		return nil, err
	}
	return slices.DeleteFunc(slices.Clone(primaryCands), func(i int) bool {
		return overlaps(primary, i, secondary, secondaryCands, minDeltaR)
	}), nil
}

func overlaps(primary *collection.Collection, i int, secondary *collection.Collection, cands []int, minDeltaR float64) bool {
	for _, j := range cands {
		if geometry.DeltaR(primary.Eta[i], primary.Phi[i], secondary.Eta[j], secondary.Phi[j]) < minDeltaR {
			return true
		}
	}
	return false
}

// Evaluator looks up a veto map value for a direction. Non-zero values flag
// the direction.
type Evaluator interface {
	Evaluate(eta, phi float64) (float64, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(eta, phi float64) (float64, error)

func (f EvaluatorFunc) Evaluate(eta, phi float64) (float64, error) { return f(eta, phi) }

// VetoMap reports whether any jet candidate, after removing jets within
// minDeltaR of a muon candidate, points into a flagged region of eval.
func VetoMap(jets *collection.Collection, jetCands []int, muons *collection.Collection, muonCands []int, minDeltaR float64, eval Evaluator) (bool, error) {
	if eval == nil {
		return false, fmt.Errorf("veto: nil evaluator")
	}
	cleaned, err := Clean(jets, jetCands, muons, muonCands, minDeltaR)
	if err != nil {
		return false, err
	}
	for _, i := range cleaned {
		v, err := eval.Evaluate(jets.Eta[i], jets.Phi[i])
		if err != nil {
			return false, fmt.Errorf("veto: evaluate jet %d: %w", i, err)
		}
		if v != 0 {
			return true, nil
		}
	}
	return false, nil
}
