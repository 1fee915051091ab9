package geometry

import "fmt"

// IndexPair is an ordered pair of positions.
type IndexPair struct {
	I int
	J int
}

// String returns a string representation of the IndexPair.
func (p IndexPair) String() string {
	return fmt.Sprintf("(%d,%d)", p.I, p.J)
}

// Pairs returns all unordered 2-subsets of the positions 0..n-1 as (i, j)
// with i < j, in row-major order: (0,1), (0,2), ..., (1,2), ...
func Pairs(n int) []IndexPair {
	if n < 2 {
		return nil
	}
	out := make([]IndexPair, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, IndexPair{I: i, J: j})
		}
	}
	return out
}

// CrossProduct returns every (i, j) with i in 0..nA-1 and j in 0..nB-1,
// in row-major order over i.
func CrossProduct(nA, nB int) []IndexPair {
	if nA <= 0 || nB <= 0 {
		return nil
	}
	out := make([]IndexPair, 0, nA*nB)
	for i := 0; i < nA; i++ {
		for j := 0; j < nB; j++ {
			out = append(out, IndexPair{I: i, J: j})
		}
	}
	return out
}

// Combinations returns all k-subsets of the positions 0..n-1 in
// lexicographic order. Each subset is ascending.
func Combinations(n, k int) [][]int {
	if k <= 0 || k > n {
		return nil
	}
	var out [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		comb := make([]int, k)
		copy(comb, idx)
		out = append(out, comb)

		// advance the rightmost position that still has room
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
