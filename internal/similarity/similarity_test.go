package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chars(s string) []rune { return []rune(s) }

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b []uint64
		want float64
	}{
		{[]uint64{1, 2, 3}, []uint64{2, 3, 4}, 0.5},
		{[]uint64{1, 2, 3}, []uint64{1, 2, 3}, 1},
		{[]uint64{1, 1, 2}, []uint64{2, 2, 1}, 1},
		{[]uint64{1, 2}, []uint64{3, 4}, 0},
		{[]uint64{1, 2}, nil, 0},
	}
	for _, tt := range tests {
		got, err := Jaccard(tt.a, tt.b)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "%v %v", tt.a, tt.b)
	}

	_, err := Jaccard[uint64](nil, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestJaccardStrings(t *testing.T) {
	got, err := Jaccard(chars("ABCDFFF"), chars("AEDCF"))
	require.NoError(t, err)
	assert.InDelta(t, 4.0/6.0, got, 1e-12)
}

func TestContainment(t *testing.T) {
	got, err := Containment(chars("ABCD"), chars("ABCD"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = Containment(chars("ABCDFFF"), chars("AEDCF"))
	require.NoError(t, err)
	assert.InDelta(t, 4.0/5.0, got, 1e-12)

	got, err = Containment(chars("AB"), chars("ABCDEFGH"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, got, "the smaller set is fully contained")

	got, err = Containment(chars("ABCD"), chars("EFGHI"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = Containment(chars("ABC"), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = Containment(nil, chars("ABC"))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine(chars("ABCD"), chars("ABCD")), 1e-12)
	assert.Equal(t, 0.0, Cosine(chars("ABCD"), chars("EFGHI")))
	assert.Equal(t, 0.0, Cosine(nil, chars("A")))

	// A:1 B:1 C:1 D:1 F:3 vs A:1 E:1 D:1 C:1 F:1
	want := 6.0 / (3.605551275463989 * 2.23606797749979)
	assert.InDelta(t, want, Cosine(chars("ABCDFFF"), chars("AEDCF")), 1e-9)
}
