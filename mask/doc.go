// Package mask provides selection masks over object collections.
//
// A Mask marks the "good" objects of one collection. It is produced outside
// the selection core (threshold or identification cuts) and consumed read-only.
// Masks are stored as Roaring bitmaps so that sparse masks over large
// collections stay small and iteration is always in ascending index order.
//
// Candidate index lists are the ordered positions of set bits (Nonzero) or,
// for collections delivered upstream as index lists, the list itself
// (Candidates keeps the delivered order).
package mask
