package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/event"
	"github.com/hupe1980/pairsel/geometry"
	"github.com/hupe1980/pairsel/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*(maxVal-minVal)
	}
}

// FillExponential fills dst with minVal plus exponentially distributed
// values of the given mean, the usual shape of a pt spectrum.
func (r *RNG) FillExponential(dst []float64, minVal, mean float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = minVal + r.rand.ExpFloat64()*mean
	}
}

// CollectionOption configures Collection.
type CollectionOption func(*collectionOptions)

type collectionOptions struct {
	minPt, meanPt float64
	etaMax        float64
	mass          float64
	columns       map[string][2]float64
}

// WithPt sets the pt threshold and mean excess above it.
func WithPt(minPt, meanPt float64) CollectionOption {
	return func(o *collectionOptions) {
		o.minPt, o.meanPt = minPt, meanPt
	}
}

// WithEtaMax sets the pseudorapidity acceptance |eta| < etaMax.
func WithEtaMax(etaMax float64) CollectionOption {
	return func(o *collectionOptions) {
		o.etaMax = etaMax
	}
}

// WithMass sets the mass of every object.
func WithMass(mass float64) CollectionOption {
	return func(o *collectionOptions) {
		o.mass = mass
	}
}

// WithColumn adds a column with values uniform in [minVal, maxVal).
func WithColumn(name string, minVal, maxVal float64) CollectionOption {
	return func(o *collectionOptions) {
		o.columns[name] = [2]float64{minVal, maxVal}
	}
}

// Collection generates n objects with random kinematics.
func (r *RNG) Collection(name string, n int, optFns ...CollectionOption) *collection.Collection {
	o := collectionOptions{minPt: 20, meanPt: 30, etaMax: 2.5, columns: make(map[string][2]float64)}
	for _, fn := range optFns {
		fn(&o)
	}

	pt := make([]float64, n)
	eta := make([]float64, n)
	phi := make([]float64, n)
	mass := make([]float64, n)
	r.FillExponential(pt, o.minPt, o.meanPt)
	r.FillUniformRange(eta, -o.etaMax, o.etaMax)
	r.FillUniformRange(phi, -math.Pi, math.Pi)
	for i := range mass {
		mass[i] = o.mass
	}

	c := collection.New(name, pt, eta, phi, mass)

	// Column order is fixed so a seed reproduces the same values.
	names := make([]string, 0, len(o.columns))
	for col := range o.columns {
		names = append(names, col)
	}
	sort.Strings(names)
	for _, col := range names {
		values := make([]float64, n)
		r.FillUniformRange(values, o.columns[col][0], o.columns[col][1])
		c.WithColumn(col, values)
	}
	return c
}

// Bits returns a random 0/1 mask of length n where each bit is set with
// probability p.
func (r *RNG) Bits(n int, p float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	bits := make([]int, n)
	for i := range bits {
		if r.rand.Float64() < p {
			bits[i] = 1
		}
	}
	return bits
}

// Subset returns a random ordered subset of [0, n) where each index is
// kept with probability p.
func (r *RNG) Subset(n int, p float64) []int {
	var out []int
	for i, b := range r.Bits(n, p) {
		if b == 1 {
			out = append(out, i)
		}
	}
	return out
}

// EventSpec describes a random event.
type EventSpec struct {
	ID event.ID
	// Collections maps a name to its object count.
	Collections map[string]int
	// Masks maps a mask name to the collection it selects from. Each
	// object passes with probability MaskRate.
	Masks    map[string]string
	MaskRate float64
	Options  []CollectionOption
}

// Event generates an event. Collections and masks are generated in name
// order.
func (r *RNG) Event(spec EventSpec) *event.Event {
	e := &event.Event{
		Run:         spec.ID.Run,
		Lumi:        spec.ID.Lumi,
		Number:      spec.ID.Number,
		Collections: make(map[string]*collection.Collection, len(spec.Collections)),
		Masks:       make(map[string]event.MaskSpec, len(spec.Masks)),
	}
	for _, name := range sortedKeys(spec.Collections) {
		e.Collections[name] = r.Collection(name, spec.Collections[name], spec.Options...)
	}

	rate := spec.MaskRate
	if rate == 0 {
		rate = 0.5
	}
	for _, name := range sortedKeys(spec.Masks) {
		coll := spec.Masks[name]
		e.Masks[name] = event.MaskSpec{Collection: coll, Bits: r.Bits(spec.Collections[coll], rate)}
	}
	return e
}

// ReferenceCross is a brute-force cross selection with pt ordering: among
// all pairs strictly inside (minDR, maxDR) it returns the one with the
// highest first pt, then the highest second pt, earliest on exact ties.
func ReferenceCross(first, second *collection.Collection, fc, sc []int, minDR, maxDR float64) model.Pair {
	best := model.NoPair
	for _, i := range fc {
		for _, j := range sc {
			dr := geometry.DeltaR(first.Eta[i], first.Phi[i], second.Eta[j], second.Phi[j])
			if !(dr > minDR && dr < maxDR) {
				continue
			}
			if !best.Complete() || better(first.Pt[i], second.Pt[j], first.Pt[best.First.Int()], second.Pt[best.Second.Int()]) {
				best = model.PairOf(i, j)
			}
		}
	}
	return best
}

// ReferenceSame is ReferenceCross over distinct unordered pairs of one
// collection, returned with the higher-pt object first.
func ReferenceSame(coll *collection.Collection, cands []int, minDR, maxDR float64) model.Pair {
	best := model.NoPair
	var bestA, bestB float64
	for a := 0; a < len(cands); a++ {
		for b := a + 1; b < len(cands); b++ {
			i, j := cands[a], cands[b]
			if i == j {
				continue
			}
			dr := geometry.DeltaR(coll.Eta[i], coll.Phi[i], coll.Eta[j], coll.Phi[j])
			if !(dr > minDR && dr < maxDR) {
				continue
			}
			if best.Complete() && !better(coll.Pt[i], coll.Pt[j], bestA, bestB) {
				continue
			}
			bestA, bestB = coll.Pt[i], coll.Pt[j]
			if coll.Pt[i] < coll.Pt[j] {
				i, j = j, i
			}
			best = model.PairOf(i, j)
		}
	}
	return best
}

// ReferenceMatches returns, for primary p, the secondary candidates closer
// than maxDR in ascending separation.
func ReferenceMatches(primary, secondary *collection.Collection, p int, sc []int, maxDR float64) []int {
	type hit struct {
		j  int
		dr float64
	}
	var hits []hit
	for _, j := range sc {
		dr := geometry.DeltaR(primary.Eta[p], primary.Phi[p], secondary.Eta[j], secondary.Phi[j])
		if dr < maxDR {
			hits = append(hits, hit{j, dr})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].dr < hits[b].dr })

	out := make([]int, len(hits))
	for k, h := range hits {
		out[k] = h.j
	}
	return out
}

func better(a1, a2, b1, b2 float64) bool {
	if a1 != b1 {
		return a1 > b1
	}
	return a2 > b2
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
