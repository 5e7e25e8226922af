// Package simhash condenses many digests into one by a per-bit majority
// vote. Digests that share most of their bits yield a combined digest close
// to each of them.
package simhash

import "fmt"

// Sum64 returns a digest whose bit i is set when at least half of digests
// have bit i set. Empty input yields 0.
func Sum64(digests []uint64) uint64 {
	if len(digests) == 0 {
		return 0
	}
	var counts [64]int
	for _, d := range digests {
		for i := range counts {
			counts[i] += int(d >> i & 1)
		}
	}
	var out uint64
	for i, c := range counts {
		if 2*c >= len(digests) {
			out |= 1 << i
		}
	}
	return out
}

// Sum is Sum64 for byte digests of any equal length. Bits are counted per
// position, so the byte order of the digests is kept.
func Sum(digests [][]byte) ([]byte, error) {
	if len(digests) == 0 {
		return nil, nil
	}
	size := len(digests[0])
	counts := make([]int, size*8)
	for _, d := range digests {
		if len(d) != size {
			return nil, fmt.Errorf("digest length %d, want %d", len(d), size)
		}
		for i := range counts {
			if d[i/8]&(0x80>>(i%8)) != 0 {
				counts[i]++
			}
		}
	}
	out := make([]byte, size)
	for i, c := range counts {
		if 2*c >= len(digests) {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out, nil
}
