// Package report accumulates per-step summary histograms over a run:
// ΔR and invariant mass of selected pairs, match multiplicities and veto
// decisions. Histograms are go-hep hbook objects and export as YODA.
package report
