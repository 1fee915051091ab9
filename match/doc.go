// Package match associates every object of a primary collection with the
// nearby objects of a secondary collection.
//
// Build produces a Table indexed by original primary index. Each entry lists
// the secondary candidates closer than the maximum separation, nearest first.
// Rank and Count read the table; FirstWithin finds the first candidate near a
// single reference four-vector.
package match
