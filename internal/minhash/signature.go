package minhash

import (
	"fmt"
	"math/bits"
)

// Signature holds one minimum per permutation or mask, slot 0 first.
type Signature []uint64

// Truncate returns the first k slots, none for a negative k. A truncated
// signature equals the one computed with only the first k permutations or
// masks.
func (s Signature) Truncate(k int) Signature {
	k = max(k, 0)
	if k >= len(s) {
		return s
	}
	return s[:k]
}

// Bits returns the least significant bit of every slot.
//
// Keeping only the parity of each minimum is a lossy step on top of
// MinHash: it fixes the output at one bit per slot, and two unrelated
// slots now agree half of the time.
func (s Signature) Bits() []bool {
	out := make([]bool, len(s))
	for i, v := range s {
		out[i] = v&1 == 1
	}
	return out
}

// Pack packs the least significant bit of every slot into ceil(len/8)
// bytes. Slot 0 becomes the most significant bit of the first byte, so a
// prefix of the packed bytes is the packing of a truncated signature.
func (s Signature) Pack() []byte {
	return PackBits(s.Bits())
}

// PackBits packs bits most significant bit first. Unused trailing bits of
// the last byte are zero.
func PackBits(bv []bool) []byte {
	out := make([]byte, (len(bv)+7)/8)
	for i, b := range bv {
		if b {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

// UnpackBits returns the first n bits of packed.
func UnpackBits(packed []byte, n int) []bool {
	n = min(n, len(packed)*8)
	out := make([]bool, n)
	for i := range out {
		out[i] = packed[i/8]&(0x80>>(i%8)) != 0
	}
	return out
}

// SlotSimilarity returns the fraction of slots holding the same minimum,
// the MinHash estimate of the Jaccard similarity.
func SlotSimilarity(a, b Signature) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrSizeMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("%w: empty signatures", ErrSizeMismatch)
	}
	var same int
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	return float64(same) / float64(len(a)), nil
}

// Hamming returns the number of differing bits among the first nbits bits
// of two packed digests.
func Hamming(a, b []byte, nbits int) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d bytes", ErrSizeMismatch, len(a), len(b))
	}
	if nbits < 0 || nbits > len(a)*8 {
		return 0, fmt.Errorf("%w: %d bits requested from %d bytes", ErrSizeMismatch, nbits, len(a))
	}
	var d int
	full := nbits / 8
	for i := range full {
		d += bits.OnesCount8(a[i] ^ b[i])
	}
	if rest := nbits % 8; rest > 0 {
		mask := byte(0xff << (8 - rest))
		d += bits.OnesCount8((a[full] ^ b[full]) & mask)
	}
	return d, nil
}

// BitSimilarity returns the fraction of agreeing bits among the first
// nbits bits of two packed digests.
func BitSimilarity(a, b []byte, nbits int) (float64, error) {
	if nbits == 0 {
		return 0, fmt.Errorf("%w: zero bits", ErrSizeMismatch)
	}
	d, err := Hamming(a, b, nbits)
	if err != nil {
		return 0, err
	}
	return 1 - float64(d)/float64(nbits), nil
}

// EstimateJaccard estimates the Jaccard similarity from two packed digests.
// Slots of unrelated sets agree on their parity bit half of the time, so
// the bit agreement h maps to 2h-1.
func EstimateJaccard(a, b []byte, nbits int) (float64, error) {
	h, err := BitSimilarity(a, b, nbits)
	if err != nil {
		return 0, err
	}
	return max(0, 2*h-1), nil
}
