package report

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"go-hep.org/x/hep/hbook"
)

// Binning is a fixed-width 1D binning.
type Binning struct {
	Bins int     `yaml:"bins" json:"bins"`
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
}

// Validate checks that the binning describes at least one bin.
func (b Binning) Validate() error {
	if b.Bins <= 0 || !(b.Max > b.Min) {
		return fmt.Errorf("report: invalid binning %d bins on [%g, %g)", b.Bins, b.Min, b.Max)
	}
	return nil
}

func (b Binning) hist(name, title string) *hbook.H1D {
	h := hbook.NewH1D(b.Bins, b.Min, b.Max)
	h.Annotation()["name"] = name
	h.Annotation()["title"] = title
	return h
}

var (
	// DefaultDeltaRBinning covers the boosted selection window.
	DefaultDeltaRBinning = Binning{Bins: 50, Min: 0, Max: 5}
	// DefaultMassBinning covers the di-object mass range in GeV.
	DefaultMassBinning = Binning{Bins: 60, Min: 0, Max: 300}
	// DefaultCountBinning covers match multiplicities.
	DefaultCountBinning = Binning{Bins: 10, Min: 0, Max: 10}
)

// Option configures a Report.
type Option func(*Report)

// WithDeltaRBinning overrides the ΔR binning.
func WithDeltaRBinning(b Binning) Option {
	return func(r *Report) { r.deltaR = b }
}

// WithMassBinning overrides the mass binning.
func WithMassBinning(b Binning) Option {
	return func(r *Report) { r.mass = b }
}

type pairStats struct {
	deltaR  *hbook.H1D
	mass    *hbook.H1D
	missing int64
}

type vetoStats struct {
	passed int64
	vetoed int64
}

// Report is safe for concurrent use.
type Report struct {
	mu     sync.Mutex
	deltaR Binning
	mass   Binning
	counts Binning

	events  int64
	pairs   map[string]*pairStats
	matches map[string]*hbook.H1D
	vetoes  map[string]*vetoStats
}

// New creates an empty Report.
func New(opts ...Option) *Report {
	r := &Report{
		deltaR:  DefaultDeltaRBinning,
		mass:    DefaultMassBinning,
		counts:  DefaultCountBinning,
		pairs:   make(map[string]*pairStats),
		matches: make(map[string]*hbook.H1D),
		vetoes:  make(map[string]*vetoStats),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddEvent counts one processed event.
func (r *Report) AddEvent() {
	r.mu.Lock()
	r.events++
	r.mu.Unlock()
}

func (r *Report) pair(step string) *pairStats {
	s, ok := r.pairs[step]
	if !ok {
		s = &pairStats{
			deltaR: r.deltaR.hist("/"+step+"/delta_r", step+" ΔR"),
			mass:   r.mass.hist("/"+step+"/mass", step+" invariant mass"),
		}
		r.pairs[step] = s
	}
	return s
}

// FillPair records a complete pair of step. Non-finite values are
// skipped.
func (r *Report) FillPair(step string, deltaR, mass float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.pair(step)
	if !math.IsNaN(deltaR) && !math.IsInf(deltaR, 0) {
		s.deltaR.Fill(deltaR, 1)
	}
	if !math.IsNaN(mass) && !math.IsInf(mass, 0) {
		s.mass.Fill(mass, 1)
	}
}

// FillMissing records an event in which step found no complete pair.
func (r *Report) FillMissing(step string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pair(step).missing++
}

// FillMultiplicity records the number of matches of one primary object.
func (r *Report) FillMultiplicity(step string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.matches[step]
	if !ok {
		h = r.counts.hist("/"+step+"/multiplicity", step+" match multiplicity")
		r.matches[step] = h
	}
	h.Fill(float64(n), 1)
}

// FillVeto records a veto decision.
func (r *Report) FillVeto(step string, vetoed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.vetoes[step]
	if !ok {
		s = &vetoStats{}
		r.vetoes[step] = s
	}
	if vetoed {
		s.vetoed++
	} else {
		s.passed++
	}
}

// PairSummary describes the pairs of one step.
type PairSummary struct {
	Step       string  `json:"step"`
	Found      int64   `json:"found"`
	Missing    int64   `json:"missing"`
	MeanDeltaR float64 `json:"mean_delta_r"`
	MeanMass   float64 `json:"mean_mass"`
}

// VetoSummary describes the decisions of one veto step.
type VetoSummary struct {
	Step   string `json:"step"`
	Passed int64  `json:"passed"`
	Vetoed int64  `json:"vetoed"`
}

// Summary is a snapshot of the report.
type Summary struct {
	Events int64         `json:"events"`
	Pairs  []PairSummary `json:"pairs,omitempty"`
	Vetoes []VetoSummary `json:"vetoes,omitempty"`
}

// Summary returns per-step totals in step name order.
func (r *Report) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Summary{Events: r.events}
	for _, step := range sortedKeys(r.pairs) {
		s := r.pairs[step]
		ps := PairSummary{Step: step, Found: s.deltaR.Entries(), Missing: s.missing}
		if ps.Found > 0 {
			ps.MeanDeltaR = s.deltaR.XMean()
			ps.MeanMass = s.mass.XMean()
		}
		out.Pairs = append(out.Pairs, ps)
	}
	for _, step := range sortedKeys(r.vetoes) {
		s := r.vetoes[step]
		out.Vetoes = append(out.Vetoes, VetoSummary{Step: step, Passed: s.passed, Vetoed: s.vetoed})
	}
	return out
}

// MarshalYODA encodes every histogram in name order.
func (r *Report) MarshalYODA() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var hists []*hbook.H1D
	for _, s := range r.pairs {
		hists = append(hists, s.deltaR, s.mass)
	}
	for _, h := range r.matches {
		hists = append(hists, h)
	}
	slices.SortFunc(hists, func(a, b *hbook.H1D) int {
		return strings.Compare(a.Name(), b.Name())
	})

	var buf bytes.Buffer
	for _, h := range hists {
		raw, err := h.MarshalYODA()
		if err != nil {
			return nil, fmt.Errorf("report: %s: %w", h.Name(), err)
		}
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
