package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBools(t *testing.T) {
	m := FromBools([]bool{false, true, true, false, true})
	assert.Equal(t, 5, m.Len())
	assert.Equal(t, 3, m.Count())
	assert.Equal(t, []int{1, 2, 4}, m.Nonzero())
	assert.Equal(t, []int{1, 2, 4}, m.Candidates())
	assert.True(t, m.Contains(2))
	assert.False(t, m.Contains(0))
	assert.False(t, m.Contains(-1))
	assert.Equal(t, []int{0, 1, 1, 0, 1}, m.Ints())
}

func TestFromInts(t *testing.T) {
	m := FromInts([]int{0, 0, 7, 1})
	assert.Equal(t, []int{2, 3}, m.Nonzero())

	empty := FromInts([]int{0, 0})
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.Nonzero())
}

func TestFromIndices(t *testing.T) {
	t.Run("KeepsDeliveredOrder", func(t *testing.T) {
		m, err := FromIndices(6, []int{4, 1, 3})
		require.NoError(t, err)
		assert.Equal(t, []int{4, 1, 3}, m.Candidates())
		assert.Equal(t, []int{1, 3, 4}, m.Nonzero())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := FromIndices(3, []int{0, 3})
		assert.Error(t, err)
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := FromIndices(3, []int{1, 1})
		assert.Error(t, err)
	})
}

func TestNilMask(t *testing.T) {
	var m *Mask
	assert.Equal(t, 0, m.Len())
	assert.True(t, m.IsEmpty())
	assert.Nil(t, m.Nonzero())
	assert.False(t, m.Contains(0))
}

func TestWithout(t *testing.T) {
	m, err := FromIndices(5, []int{3, 0, 2})
	require.NoError(t, err)

	w := m.Without(0, -1)
	assert.Equal(t, []int{3, 2}, w.Candidates())
	assert.Equal(t, []int{3, 0, 2}, m.Candidates(), "original is untouched")
}

