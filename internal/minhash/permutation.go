package minhash

import (
	"fmt"

	"github.com/seehuhn/mt19937"
)

const (
	// MersennePrime is the modulus of the universal hash family.
	MersennePrime = 1<<61 - 1

	// MaxHash is the largest value a universal permutation produces and
	// the initial accumulator of every slot.
	MaxHash = 1<<32 - 1

	// MaxMask is the initial accumulator of every slot of the XOR strategy.
	MaxMask = 1<<64 - 1
)

// UniversalHash holds the coefficients of one universal hash
// h(x) = ((A*x + B) mod MersennePrime) mod 2^32. A is odd.
type UniversalHash struct {
	A, B uint64
}

// Apply returns the permuted value of x. The product wraps at 64 bits.
func (p UniversalHash) Apply(x uint64) uint64 {
	return (p.A*x + p.B) % MersennePrime & MaxHash
}

// NewPermutations returns n permutations derived from seed. Slot i is
// always drawn i-th from the same MT19937-64 stream, so the first k of n
// permutations equal NewPermutations(seed, k).
func NewPermutations(seed uint64, n int) ([]UniversalHash, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: need at least one permutation, got %d", ErrConfig, n)
	}
	mt := mt19937.New()
	mt.Seed(int64(seed))

	perms := make([]UniversalHash, n)
	for i := range perms {
		perms[i] = UniversalHash{
			A: drawOdd(mt),
			B: drawBelowPrime(mt),
		}
	}
	return perms, nil
}

// drawBelowPrime returns a value in [0, MersennePrime).
func drawBelowPrime(mt *mt19937.MT19937) uint64 {
	for {
		if x := mt.Uint64() >> 3; x < MersennePrime {
			return x
		}
	}
}

// drawOdd returns an odd value in [1, MersennePrime).
func drawOdd(mt *mt19937.MT19937) uint64 {
	for {
		if a := drawBelowPrime(mt) | 1; a < MersennePrime {
			return a
		}
	}
}

// NewMasks returns n 64-bit XOR masks derived from seed, in the same fixed
// slot order as NewPermutations.
func NewMasks(seed uint64, n int) ([]uint64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: need at least one mask, got %d", ErrConfig, n)
	}
	mt := mt19937.New()
	mt.Seed(int64(seed))

	masks := make([]uint64, n)
	for i := range masks {
		masks[i] = mt.Uint64()
	}
	return masks, nil
}
