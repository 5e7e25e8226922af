package wta

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	perms := [][]int{{1, 4, 2, 5, 0, 3}}

	h, err := Hash([]int{10, 5, 2, 6, 12, 3}, perms, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, h)

	h, err = Hash([]int{4, 5, 10, 2, 3, 1}, perms, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, h)

	h, err = Hash([]int{4, 5, 10, 2, 3, 1}, perms, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, h)

	h, err = Hash([]float64{1, 1, 1}, [][]int{{2, 1, 0}}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, h, "first occurrence wins ties")
}

func TestHashErrors(t *testing.T) {
	_, err := Hash([]int{1, 2}, [][]int{{0, 1}}, 3)
	assert.ErrorIs(t, err, ErrInput)

	_, err = Hash([]int{1, 2}, [][]int{{0, 1}}, 0)
	assert.ErrorIs(t, err, ErrInput)

	_, err = Hash([]int{1, 2}, [][]int{{0, 5}}, 2)
	assert.ErrorIs(t, err, ErrInput)
}

func TestPack(t *testing.T) {
	got, err := Pack([]int{1, 0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(0b1011), got)

	_, err = Pack([]int{2})
	assert.ErrorIs(t, err, ErrInput)

	_, err = Pack(make([]int, 65))
	assert.ErrorIs(t, err, ErrInput)
}

func TestNewPermutations(t *testing.T) {
	a, err := NewPermutations(7, 10, 4)
	require.NoError(t, err)
	b, err := NewPermutations(7, 10, 4)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for _, p := range a {
		sorted := slices.Clone(p)
		slices.Sort(sorted)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, sorted)
	}

	_, err = NewPermutations(7, 0, 4)
	assert.ErrorIs(t, err, ErrInput)
}

func TestRankInvariance(t *testing.T) {
	perms, err := NewPermutations(1, 8, 64)
	require.NoError(t, err)

	vec := []float64{0.3, 0.9, 0.1, 0.5, 0.7, 0.2, 0.8, 0.4}
	scaled := make([]float64, len(vec))
	for i, v := range vec {
		scaled[i] = v*100 + 3
	}
	a, err := Hash(vec, perms, 2)
	require.NoError(t, err)
	b, err := Hash(scaled, perms, 2)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	pa, err := Pack(a)
	require.NoError(t, err)
	pb, err := Pack(b)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}
