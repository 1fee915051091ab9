// Package collection holds the per-event object collections consumed by the
// selection core.
//
// A Collection is a set of equal-length columns (pt, eta, phi, mass plus any
// named extra quantities such as isolation, charge or tagger scores). Index i
// refers to the same object in every column.
//
// Accessors are bounds-checked: an index outside a column is a contract
// violation between the component that built a mask or index list and the
// collection it was built for, and is reported as an *IndexError rather than
// silently defaulted.
package collection
