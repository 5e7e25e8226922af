// Package gear builds the per-byte weight tables consumed by the gear
// rolling hash. Tables are derived from a seeded MT19937-64 generator, so a
// seed always maps to the same table and therefore to the same chunk
// boundaries.
package gear

import (
	"github.com/seehuhn/mt19937"
)

// IntMax bounds the rolling pattern to 31 bits.
const IntMax = 1<<31 - 1

// Table maps a byte value to a pseudo-random 31-bit weight.
// A Table is never modified after New returns and may be shared freely.
type Table [256]uint32

// New returns the gear table for seed. Weights are the top 31 bits of the
// first 256 outputs of MT19937-64 seeded with seed.
func New(seed uint64) *Table {
	mt := mt19937.New()
	mt.Seed(int64(seed))
	var t Table
	for i := range t {
		t[i] = uint32(mt.Uint64() >> 33)
	}
	return &t
}

// Roll feeds b into pattern and returns the updated pattern.
func (t *Table) Roll(pattern uint32, b byte) uint32 {
	return ((pattern >> 1) + t[b]) & IntMax
}

// Mask returns a mask with the low bits set. A pattern matches the mask
// when pattern&mask == 0, which happens with probability 2^-bits.
func Mask(bits uint) uint32 {
	return uint32(1)<<bits - 1
}
