// Package model defines the result types shared by the selection packages.
//
// # Identity Types
//
//   - Index: a position into an original (unmasked) collection, or NotFound
//   - Pair: two Index slots, possibly referring to two different collections
//
// NotFound (-1) is reserved and lies outside every valid index domain [0, N).
// A Pair whose slots are both NotFound is NoPair, the "no candidate" outcome.
// Selection never reports "no candidate" through an error.
//
//	p := model.PairOf(3, 1)
//	if first, ok := p.First.Get(); ok {
//	    fmt.Println("leading object", first)
//	}
package model
