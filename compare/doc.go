// Package compare implements the comparator chain that ranks candidate pairs.
//
// A Chain is an ordered list of keys. Each key reads one column of either the
// first or the second constituent of a pair and states whether lower or
// higher values rank first. Keys are evaluated in order; two values within
// Epsilon of each other are tied and fall through to the next key.
//
// The comparator is bound to explicit read-only views of the collections
// (Bind) instead of capturing them, so a Chain is a plain value that can be
// shared between goroutines. Sorting is stable: candidates that tie on every
// key keep their enumeration order.
//
// Approximate equality is not transitive, so a chain is not a strict weak
// ordering in the mathematical sense for values packed closer than Epsilon.
// Determinism does not depend on it: the same input and the same stable sort
// always produce the same order.
package compare
