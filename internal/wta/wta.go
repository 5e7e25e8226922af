// Package wta implements the Winner Takes All hash: a rank based embedding
// where each output is the position of the largest value in a window of a
// permuted input vector. Vectors whose coordinates are ordered alike get
// similar hashes, regardless of scale.
package wta

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand"

	"github.com/seehuhn/mt19937"
)

// ErrInput is returned for permutations or windows that do not fit the input.
var ErrInput = errors.New("invalid wta input")

// NewPermutations returns count random permutations of [0, dims) drawn from
// an MT19937-64 stream seeded with seed.
func NewPermutations(seed uint64, dims, count int) ([][]int, error) {
	if dims <= 0 || count <= 0 {
		return nil, fmt.Errorf("%w: need positive dims and count, got %d and %d", ErrInput, dims, count)
	}
	mt := mt19937.New()
	mt.Seed(int64(seed))
	rng := rand.New(mt)

	perms := make([][]int, count)
	for i := range perms {
		perms[i] = rng.Perm(dims)
	}
	return perms, nil
}

// Hash returns, for every permutation, the index of the largest value among
// the first window permuted coordinates of vec. The first occurrence wins
// ties.
func Hash[T cmp.Ordered](vec []T, perms [][]int, window int) ([]int, error) {
	out := make([]int, len(perms))
	for p, perm := range perms {
		if window < 1 || window > len(perm) {
			return nil, fmt.Errorf("%w: window %d for permutation of %d", ErrInput, window, len(perm))
		}
		best := 0
		for i, idx := range perm[:window] {
			if idx < 0 || idx >= len(vec) {
				return nil, fmt.Errorf("%w: index %d out of range for vector of %d", ErrInput, idx, len(vec))
			}
			if vec[idx] > vec[perm[best]] {
				best = i
			}
		}
		out[p] = best
	}
	return out, nil
}

// Pack packs window 2 results into one integer, the first permutation in
// the most significant used bit.
func Pack(h []int) (uint64, error) {
	if len(h) > 64 {
		return 0, fmt.Errorf("%w: %d results do not fit 64 bits", ErrInput, len(h))
	}
	var out uint64
	for _, v := range h {
		if v != 0 && v != 1 {
			return 0, fmt.Errorf("%w: result %d is not a bit", ErrInput, v)
		}
		out = out<<1 | uint64(v)
	}
	return out, nil
}
