package veto

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOutOfGrid is returned by Grid.Evaluate for a direction outside the map.
var ErrOutOfGrid = errors.New("veto: direction outside of map")

// Grid is a binned (eta, phi) veto map. Values[i][j] covers
// [EtaEdges[i], EtaEdges[i+1]) x [PhiEdges[j], PhiEdges[j+1]).
type Grid struct {
	EtaEdges []float64   `json:"eta_edges" yaml:"eta_edges"`
	PhiEdges []float64   `json:"phi_edges" yaml:"phi_edges"`
	Values   [][]float64 `json:"values" yaml:"values"`
}

// Validate checks that edges are strictly increasing and the value matrix
// matches the binning.
func (g *Grid) Validate() error {
	for _, edges := range []struct {
		name string
		v    []float64
	}{{"eta", g.EtaEdges}, {"phi", g.PhiEdges}} {
		if len(edges.v) < 2 {
			return fmt.Errorf("veto: %s edges need at least two values", edges.name)
		}
		for k := 1; k < len(edges.v); k++ {
			if !(edges.v[k] > edges.v[k-1]) {
				return fmt.Errorf("veto: %s edges must be strictly increasing", edges.name)
			}
		}
	}
	if len(g.Values) != len(g.EtaEdges)-1 {
		return fmt.Errorf("veto: %d eta rows, want %d", len(g.Values), len(g.EtaEdges)-1)
	}
	for i, row := range g.Values {
		if len(row) != len(g.PhiEdges)-1 {
			return fmt.Errorf("veto: row %d has %d phi bins, want %d", i, len(row), len(g.PhiEdges)-1)
		}
	}
	return nil
}

// Evaluate returns the value of the bin containing (eta, phi).
func (g *Grid) Evaluate(eta, phi float64) (float64, error) {
	i, ok := bin(g.EtaEdges, eta)
	if !ok {
		return 0, fmt.Errorf("%w: eta %g", ErrOutOfGrid, eta)
	}
	j, ok := bin(g.PhiEdges, phi)
	if !ok {
		return 0, fmt.Errorf("%w: phi %g", ErrOutOfGrid, phi)
	}
	return g.Values[i][j], nil
}

// Flagged returns the number of non-zero bins.
func (g *Grid) Flagged() int {
	n := 0
	for _, row := range g.Values {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

func bin(edges []float64, x float64) (int, bool) {
	if len(edges) < 2 || !(x >= edges[0]) || x >= edges[len(edges)-1] {
		return 0, false
	}
	return sort.Search(len(edges), func(k int) bool { return edges[k] > x }) - 1, true
}
