// Package testutil provides testing utilities for pairsel.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random collections and events and
// brute-force reference selections to check the optimized ones against.
//
// # Random Events
//
//	rng := testutil.NewRNG(seed)
//	taus := rng.Collection("tau", 4, testutil.WithColumn("iso", 0, 1))
//	ev := rng.Event(testutil.EventSpec{Collections: map[string]int{"muon": 2, "tau": 3}})
//
// # Reference Selection
//
//	want := testutil.ReferenceCross(muons, taus, mc, tc, 0.1, 5.0)
package testutil
