package collection

import (
	"sort"

	"go-hep.org/x/hep/fmom"

	"github.com/hupe1980/pairsel/geometry"
	"github.com/hupe1980/pairsel/mask"
)

// Standard column names.
const (
	ColumnPt   = "pt"
	ColumnEta  = "eta"
	ColumnPhi  = "phi"
	ColumnMass = "mass"
)

// Collection is one event's objects of a single kind.
type Collection struct {
	Name    string               `json:"name,omitempty"`
	Pt      []float64            `json:"pt"`
	Eta     []float64            `json:"eta"`
	Phi     []float64            `json:"phi"`
	Mass    []float64            `json:"mass"`
	Columns map[string][]float64 `json:"columns,omitempty"`
}

// New creates a collection from its kinematic columns.
func New(name string, pt, eta, phi, mass []float64) *Collection {
	return &Collection{Name: name, Pt: pt, Eta: eta, Phi: phi, Mass: mass}
}

// WithColumn attaches a named column and returns the collection.
func (c *Collection) WithColumn(name string, values []float64) *Collection {
	if c.Columns == nil {
		c.Columns = make(map[string][]float64)
	}
	c.Columns[name] = values
	return c
}

// Len returns the number of objects.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Pt)
}

// Validate checks that every column has the length of the pt column.
func (c *Collection) Validate() error {
	n := c.Len()
	for _, col := range []struct {
		name string
		v    []float64
	}{{ColumnEta, c.Eta}, {ColumnPhi, c.Phi}, {ColumnMass, c.Mass}} {
		if len(col.v) != n {
			return &LengthError{Collection: c.Name, Column: col.name, Len: len(col.v), Want: n}
		}
	}
	names := make([]string, 0, len(c.Columns))
	for name := range c.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if l := len(c.Columns[name]); l != n {
			return &LengthError{Collection: c.Name, Column: name, Len: l, Want: n}
		}
	}
	return nil
}

// Column returns the named column. The kinematic columns are addressable by
// their standard names.
func (c *Collection) Column(name string) ([]float64, error) {
	switch name {
	case ColumnPt:
		return c.Pt, nil
	case ColumnEta:
		return c.Eta, nil
	case ColumnPhi:
		return c.Phi, nil
	case ColumnMass:
		return c.Mass, nil
	}
	v, ok := c.Columns[name]
	if !ok {
		return nil, &ColumnError{Collection: c.Name, Column: name}
	}
	return v, nil
}

// Value returns column[i].
func (c *Collection) Value(column string, i int) (float64, error) {
	v, err := c.Column(column)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(v) {
		return 0, &IndexError{Collection: c.Name, Column: column, Index: i, Len: len(v)}
	}
	return v[i], nil
}

// P4 returns the four-vector of object i.
func (c *Collection) P4(i int) (fmom.PtEtaPhiM, error) {
	if err := c.CheckIndex(i); err != nil {
		return fmom.PtEtaPhiM{}, err
	}
	return geometry.P4(c.Pt[i], c.Eta[i], c.Phi[i], c.Mass[i]), nil
}

// Direction returns (eta, phi) of object i.
func (c *Collection) Direction(i int) (eta, phi float64, err error) {
	if err := c.CheckIndex(i); err != nil {
		return 0, 0, err
	}
	return c.Eta[i], c.Phi[i], nil
}

// CheckIndex verifies that i addresses an object in every kinematic column.
func (c *Collection) CheckIndex(i int) error {
	for _, col := range []struct {
		name string
		v    []float64
	}{{ColumnPt, c.Pt}, {ColumnEta, c.Eta}, {ColumnPhi, c.Phi}, {ColumnMass, c.Mass}} {
		if i < 0 || i >= len(col.v) {
			return &IndexError{Collection: c.Name, Column: col.name, Index: i, Len: len(col.v)}
		}
	}
	return nil
}

// CheckIndices verifies every index with CheckIndex.
func (c *Collection) CheckIndices(indices []int) error {
	for _, i := range indices {
		if err := c.CheckIndex(i); err != nil {
			return err
		}
	}
	return nil
}

// Candidates returns the candidate index list of m after checking that the
// mask belongs to this collection.
func (c *Collection) Candidates(m *mask.Mask) ([]int, error) {
	if m.Len() != c.Len() {
		return nil, &LengthError{Collection: c.Name, Column: "mask", Len: m.Len(), Want: c.Len()}
	}
	cands := m.Candidates()
	if err := c.CheckIndices(cands); err != nil {
		return nil, err
	}
	return cands, nil
}

// Take returns column values at the given indices.
func Take(column []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for k, i := range indices {
		out[k] = column[i]
	}
	return out
}
