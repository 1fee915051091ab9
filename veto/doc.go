// Package veto implements event-level vetoes built on the same angular
// primitives as pair selection: the opposite-sign dilepton veto, overlap
// cleaning of one candidate list against another, and the jet veto map.
package veto
