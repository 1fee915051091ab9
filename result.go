package pairsel

import (
	"math"

	"github.com/hupe1980/pairsel/event"
	"github.com/hupe1980/pairsel/model"
)

// PairResult is the outcome of one pair step. Pair serializes as
// [first, second] with -1 for empty slots.
type PairResult struct {
	Pair   model.Pair `json:"-"`
	Ints   []int      `json:"pair"`
	DeltaR *float64   `json:"delta_r,omitempty"`
	Mass   *float64   `json:"mass,omitempty"`
}

func newPairResult(p model.Pair) PairResult {
	return PairResult{Pair: p, Ints: p.Ints()}
}

func (r *PairResult) setKinematics(deltaR, mass float64) {
	if isFinite(deltaR) {
		r.DeltaR = &deltaR
	}
	if isFinite(mass) {
		r.Mass = &mass
	}
}

// MatchResult is the match table of one step. Lists[p] holds the
// secondary indices matched to primary p in ascending ΔR order.
type MatchResult struct {
	Lists  [][]int `json:"lists"`
	Counts []int   `json:"counts"`
}

// Result holds every step outcome of one event.
type Result struct {
	Run         uint32                 `json:"run"`
	Lumi        uint32                 `json:"lumi"`
	Event       uint64                 `json:"event"`
	Pairs       map[string]PairResult  `json:"pairs,omitempty"`
	Matches     map[string]MatchResult `json:"matches,omitempty"`
	Others      map[string]int         `json:"others,omitempty"`
	Best        map[string]int         `json:"best,omitempty"`
	FirstWithin map[string]int         `json:"first_within,omitempty"`
	Vetoes      map[string]bool        `json:"vetoes,omitempty"`
	Cleaned     map[string][]int       `json:"cleaned,omitempty"`
}

func newResult(id event.ID) *Result {
	return &Result{
		Run:         id.Run,
		Lumi:        id.Lumi,
		Event:       id.Number,
		Pairs:       make(map[string]PairResult),
		Matches:     make(map[string]MatchResult),
		Others:      make(map[string]int),
		Best:        make(map[string]int),
		FirstWithin: make(map[string]int),
		Vetoes:      make(map[string]bool),
		Cleaned:     make(map[string][]int),
	}
}

// ID returns the event identifier.
func (r *Result) ID() event.ID {
	return event.ID{Run: r.Run, Lumi: r.Lumi, Number: r.Event}
}

// Vetoed reports whether any event-level veto fired.
func (r *Result) Vetoed() bool {
	for _, v := range r.Vetoes {
		if v {
			return true
		}
	}
	return false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
