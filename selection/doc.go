// Package selection picks at most one representative pair of objects per
// event.
//
// Three selectors cover the pairing modes:
//
//   - CrossSelector pairs one object from each of two collections
//     (lepton and tau in the semileptonic channels).
//   - SameSelector pairs two distinct objects of one collection (tau and tau).
//   - AnchoredSelector keeps the leading primary candidate as an anchor and
//     searches a partner for it (b-jet pairing).
//
// Cross and same selection enumerate every candidate pair, stable-sort them
// with a compare.Chain and accept the first pair whose angular separation lies
// strictly inside a Window. Selectors are immutable and safe for concurrent
// use. Missing candidates yield model.NoPair; indices outside a collection
// yield a *collection.IndexError.
package selection
