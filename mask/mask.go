package mask

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Mask is a boolean mask aligned with a collection of length Len.
// A Mask is immutable after construction and safe for concurrent reads.
type Mask struct {
	rb  *roaring.Bitmap
	n   int
	idx []int // delivered order, nil when built from bits
}

// New creates an empty mask of length n.
func New(n int) *Mask {
	return &Mask{rb: roaring.New(), n: n}
}

// FromBools builds a mask from a boolean vector.
func FromBools(bits []bool) *Mask {
	m := New(len(bits))
	for i, b := range bits {
		if b {
			m.rb.Add(uint32(i))
		}
	}
	return m
}

// FromInts builds a mask from a 0/1 integer vector; any non-zero value is set.
func FromInts(bits []int) *Mask {
	m := New(len(bits))
	for i, b := range bits {
		if b != 0 {
			m.rb.Add(uint32(i))
		}
	}
	return m
}

// FromIndices builds a mask of length n from an index list.
// The delivered order is kept and returned by Candidates.
// Indices outside [0, n) or repeated indices are rejected.
func FromIndices(n int, indices []int) (*Mask, error) {
	m := New(n)
	m.idx = make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("mask: index %d out of range [0, %d)", i, n)
		}
		if !m.rb.CheckedAdd(uint32(i)) {
			return nil, fmt.Errorf("mask: duplicate index %d", i)
		}
		m.idx = append(m.idx, i)
	}
	return m, nil
}

// Len returns the length of the collection the mask is aligned with.
func (m *Mask) Len() int {
	if m == nil {
		return 0
	}
	return m.n
}

// Count returns the number of set entries.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	return int(m.rb.GetCardinality())
}

// IsEmpty reports whether no entry is set.
func (m *Mask) IsEmpty() bool {
	return m == nil || m.rb.IsEmpty()
}

// Contains reports whether entry i is set.
func (m *Mask) Contains(i int) bool {
	if m == nil || i < 0 {
		return false
	}
	return m.rb.Contains(uint32(i))
}

// Nonzero returns the set positions in ascending order.
func (m *Mask) Nonzero() []int {
	if m == nil {
		return nil
	}
	out := make([]int, 0, m.rb.GetCardinality())
	it := m.rb.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Candidates returns the candidate index list: the delivered order for masks
// built with FromIndices, otherwise Nonzero.
func (m *Mask) Candidates() []int {
	if m == nil {
		return nil
	}
	if m.idx != nil {
		out := make([]int, len(m.idx))
		copy(out, m.idx)
		return out
	}
	return m.Nonzero()
}

// Ints returns the mask as a 0/1 vector of length Len.
func (m *Mask) Ints() []int {
	if m == nil {
		return nil
	}
	out := make([]int, m.n)
	it := m.rb.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if i < m.n {
			out[i] = 1
		}
	}
	return out
}

// Without returns a copy of the mask with the given positions cleared.
func (m *Mask) Without(positions ...int) *Mask {
	out := New(m.Len())
	if m == nil {
		return out
	}
	out.rb = m.rb.Clone()
	for _, p := range positions {
		if p >= 0 {
			out.rb.Remove(uint32(p))
		}
	}
	if m.idx != nil {
		out.idx = make([]int, 0, len(m.idx))
		for _, i := range m.idx {
			if out.rb.Contains(uint32(i)) {
				out.idx = append(out.idx, i)
			}
		}
	}
	return out
}

// String returns a string representation of the Mask.
func (m *Mask) String() string {
	return fmt.Sprintf("Mask(len=%d, set=%v)", m.Len(), m.Candidates())
}
