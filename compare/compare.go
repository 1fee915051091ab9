package compare

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/geometry"
)

// DefaultEpsilon is the tie tolerance between two key values.
const DefaultEpsilon = 1e-5

var (
	// ErrEmptyChain is returned when a chain has no keys.
	ErrEmptyChain = errors.New("compare: chain has no keys")
	// ErrInvalidEpsilon is returned for a negative or NaN epsilon.
	ErrInvalidEpsilon = errors.New("compare: epsilon must be a non-negative number")
)

// Side selects the pair constituent a key is evaluated on.
type Side int

const (
	First Side = iota
	Second
)

func (s Side) String() string {
	switch s {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Order states which values rank first.
type Order int

const (
	// Ascending ranks lower values first (e.g. isolation).
	Ascending Order = iota
	// Descending ranks higher values first (e.g. transverse momentum).
	Descending
)

func (o Order) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// Key is one ranking criterion.
type Key struct {
	// Name is an optional label used in traces.
	Name   string
	Side   Side
	Column string
	Order  Order
}

func (k Key) String() string {
	if k.Name != "" {
		return k.Name
	}
	return fmt.Sprintf("%s.%s %s", k.Side, k.Column, k.Order)
}

// Chain is an ordered list of keys with a shared tie tolerance.
type Chain struct {
	Keys    []Key
	Epsilon float64
}

// NewChain creates a chain with DefaultEpsilon.
func NewChain(keys ...Key) Chain {
	return Chain{Keys: keys, Epsilon: DefaultEpsilon}
}

// PtOrdering ranks by first-object pt, then second-object pt, both descending.
func PtOrdering() Chain {
	return NewChain(
		Key{Side: First, Column: collection.ColumnPt, Order: Descending},
		Key{Side: Second, Column: collection.ColumnPt, Order: Descending},
	)
}

// IsolationOrdering ranks by first-object isolation (ascending), then
// first-object pt and second-object pt (descending).
func IsolationOrdering(isoColumn string) Chain {
	return NewChain(
		Key{Side: First, Column: isoColumn, Order: Ascending},
		Key{Side: First, Column: collection.ColumnPt, Order: Descending},
		Key{Side: Second, Column: collection.ColumnPt, Order: Descending},
	)
}

// WithEpsilon returns a copy of the chain with another tie tolerance.
func (c Chain) WithEpsilon(eps float64) Chain {
	c.Keys = slices.Clone(c.Keys)
	c.Epsilon = eps
	return c
}

// Validate checks the chain configuration.
func (c Chain) Validate() error {
	if len(c.Keys) == 0 {
		return ErrEmptyChain
	}
	if c.Epsilon < 0 || math.IsNaN(c.Epsilon) {
		return ErrInvalidEpsilon
	}
	for i, k := range c.Keys {
		if k.Column == "" {
			return fmt.Errorf("compare: key %d has no column", i)
		}
		if k.Side != First && k.Side != Second {
			return fmt.Errorf("compare: key %d has invalid side %d", i, int(k.Side))
		}
		if k.Order != Ascending && k.Order != Descending {
			return fmt.Errorf("compare: key %d has invalid order %d", i, int(k.Order))
		}
	}
	return nil
}

// ApproxEqual reports whether a and b differ by at most eps, scaled by the
// larger magnitude once that exceeds one. Values near unity are compared
// absolutely.
func ApproxEqual(a, b, eps float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= eps*scale
}

// Func compares two candidate pairs: negative if a ranks before b, positive
// if after, zero if tied on every key.
type Func func(a, b geometry.IndexPair) int

// Bind resolves the chain against the two candidate views. Pair positions
// passed to the returned Func index into firstCands and secondCands; for
// single-collection pairing pass the same collection and list twice.
func (c Chain) Bind(first, second *collection.Collection, firstCands, secondCands []int) (Func, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	values := make([][]float64, len(c.Keys))
	for k, key := range c.Keys {
		coll, cands := first, firstCands
		if key.Side == Second {
			coll, cands = second, secondCands
		}
		col, err := coll.Column(key.Column)
		if err != nil {
			return nil, err
		}
		v := make([]float64, len(cands))
		for p, i := range cands {
			if i < 0 || i >= len(col) {
				return nil, &collection.IndexError{Collection: coll.Name, Column: key.Column, Index: i, Len: len(col)}
			}
			v[p] = col[i]
		}
		values[k] = v
	}

	keys := slices.Clone(c.Keys)
	eps := c.Epsilon
	return func(a, b geometry.IndexPair) int {
		for k, key := range keys {
			pa, pb := a.I, b.I
			if key.Side == Second {
				pa, pb = a.J, b.J
			}
			if r := compareValues(values[k][pa], values[k][pb], key.Order, eps); r != 0 {
				return r
			}
		}
		return 0
	}, nil
}

// Sort orders pairs in place with a stable sort.
//
// Epsilon ties are not transitive: a ties b and b ties c while a and c
// differ, so a chain is not a strict weak ordering once key values
// spread across more than one tolerance. The stable sort still yields
// the same result for the same input order, but that result can depend on
// the enumeration order of the pairs.
func Sort(pairs []geometry.IndexPair, cmp Func) {
	slices.SortStableFunc(pairs, cmp)
}

// compareValues ranks NaN after every number and treats two NaNs as tied.
func compareValues(a, b float64, order Order, eps float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	if ApproxEqual(a, b, eps) {
		return 0
	}
	less := a < b
	if order == Descending {
		less = a > b
	}
	if less {
		return -1
	}
	return 1
}
