package model

import (
	"fmt"
)

// Index is a position into an original collection, or NotFound.
type Index int

// NotFound marks an empty result slot.
const NotFound Index = -1

// Found returns the Index for a valid position.
// Negative positions collapse to NotFound.
func Found(i int) Index {
	if i < 0 {
		return NotFound
	}
	return Index(i)
}

// Ok reports whether the index refers to an object.
func (i Index) Ok() bool { return i >= 0 }

// Get returns the position and whether it is valid.
func (i Index) Get() (int, bool) {
	if i < 0 {
		return -1, false
	}
	return int(i), true
}

// Int returns the raw position (-1 for NotFound).
func (i Index) Int() int {
	if i < 0 {
		return -1
	}
	return int(i)
}

// String returns a string representation of the Index.
func (i Index) String() string {
	if !i.Ok() {
		return "NotFound"
	}
	return fmt.Sprintf("Index(%d)", int(i))
}

// Pair is an ordered pair of result slots.
type Pair struct {
	First  Index
	Second Index
}

// NoPair is the sentinel returned when no candidate pair exists.
var NoPair = Pair{First: NotFound, Second: NotFound}

// PairOf builds a Pair from raw positions; negative values become NotFound.
func PairOf(first, second int) Pair {
	return Pair{First: Found(first), Second: Found(second)}
}

// Complete reports whether both slots are filled.
func (p Pair) Complete() bool { return p.First.Ok() && p.Second.Ok() }

// Empty reports whether neither slot is filled.
func (p Pair) Empty() bool { return !p.First.Ok() && !p.Second.Ok() }

// Swap returns the pair with its slots exchanged.
func (p Pair) Swap() Pair { return Pair{First: p.Second, Second: p.First} }

// Ints returns the [first, second] wire form with -1 for empty slots.
func (p Pair) Ints() []int { return []int{p.First.Int(), p.Second.Int()} }

// String returns a string representation of the Pair.
func (p Pair) String() string {
	return fmt.Sprintf("Pair(%d,%d)", p.First.Int(), p.Second.Int())
}
