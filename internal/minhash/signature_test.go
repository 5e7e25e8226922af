package minhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitsAndPack(t *testing.T) {
	sig := Signature{1, 2, 3, 4, 5, 6, 7, 8, 9}
	assert.Equal(t, []bool{true, false, true, false, true, false, true, false, true}, sig.Bits())

	packed := sig.Pack()
	require.Len(t, packed, 2)
	assert.Equal(t, byte(0b10101010), packed[0])
	assert.Equal(t, byte(0b10000000), packed[1], "unused trailing bits are zero")

	assert.Equal(t, sig.Bits(), UnpackBits(packed, 9))
	assert.Len(t, UnpackBits(packed, 100), 16)
}

func TestTruncateBounds(t *testing.T) {
	sig := Signature{1, 2, 3}
	assert.Equal(t, Signature{1, 2}, sig.Truncate(2))
	assert.Equal(t, sig, sig.Truncate(3))
	assert.Equal(t, sig, sig.Truncate(10))
	assert.Empty(t, sig.Truncate(0))
	assert.NotPanics(t, func() { assert.Empty(t, sig.Truncate(-1)) })
}

func TestPackSixtyFourSlots(t *testing.T) {
	sig := make(Signature, 64)
	for i := range sig {
		sig[i] = uint64(i) // odd slots set
	}
	packed := sig.Pack()
	require.Len(t, packed, 8)
	for _, b := range packed {
		assert.Equal(t, byte(0x55), b)
	}
}

func TestHamming(t *testing.T) {
	a := []byte{0xff, 0x00}
	b := []byte{0x0f, 0x01}

	d, err := Hamming(a, b, 16)
	require.NoError(t, err)
	assert.Equal(t, 5, d)

	d, err = Hamming(a, b, 8)
	require.NoError(t, err)
	assert.Equal(t, 4, d)

	d, err = Hamming(a, b, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, d)

	d, err = Hamming(a, b, 12)
	require.NoError(t, err)
	assert.Equal(t, 4, d, "the differing last bit is outside the first 12")

	_, err = Hamming(a, []byte{1}, 8)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = Hamming(a, b, 17)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestBitSimilarity(t *testing.T) {
	a := []byte{0xff}
	sim, err := BitSimilarity(a, a, 8)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)

	sim, err = BitSimilarity(a, []byte{0x00}, 8)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)

	sim, err = BitSimilarity(a, []byte{0x0f}, 8)
	require.NoError(t, err)
	assert.Equal(t, 0.5, sim)

	j, err := EstimateJaccard(a, []byte{0x0f}, 8)
	require.NoError(t, err)
	assert.Equal(t, 0.0, j)

	j, err = EstimateJaccard(a, []byte{0x7f}, 8)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, j, 1e-9)

	_, err = BitSimilarity(a, a, 0)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestSlotSimilarityMismatch(t *testing.T) {
	_, err := SlotSimilarity(Signature{1}, Signature{1, 2})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = SlotSimilarity(nil, nil)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	sim, err := SlotSimilarity(Signature{1, 2, 3, 4}, Signature{1, 2, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.5, sim)
}
