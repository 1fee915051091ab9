// Package geometry provides angular-separation metrics and the index
// enumerations used by pair selection.
//
// Directions are given as (pseudorapidity, azimuth). The azimuth difference is
// reduced into (-π, π] before the Euclidean distance is taken, so DeltaR is
// symmetric and insensitive to the 2π wrap-around.
//
// Enumerations (Pairs, CrossProduct, Combinations) produce positions in a
// fixed row-major order. Pair selection relies on this order: after a stable
// sort, equal candidates keep their enumeration order and the first accepted
// candidate wins.
package geometry
