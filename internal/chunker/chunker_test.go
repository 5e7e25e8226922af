package chunker

import (
	"bytes"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"

	"github.com/sansecio/simprint/internal/gear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBytes(seed uint64, n int) []byte {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rng.Uint32())
	}
	return b
}

func smallConfig() Config {
	return Config{
		MinSize:   64,
		NormSize:  256,
		MaxSize:   1024,
		MaskSmall: 6,
		MaskLarge: 8,
		Seed:      1,
	}
}

func mustNew(t testing.TB, cfg Config) *Chunker {
	t.Helper()
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min", func(c *Config) { c.MinSize = 0 }},
		{"negative min", func(c *Config) { c.MinSize = -4 }},
		{"max below min", func(c *Config) { c.MaxSize = c.MinSize - 1 }},
		{"max above limit", func(c *Config) { c.MaxSize = MaxChunkSize + 1 }},
		{"max overflows buffer", func(c *Config) { c.MaxSize = 1 << 62 }},
		{"norm below min", func(c *Config) { c.NormSize = c.MinSize - 1 }},
		{"norm above max", func(c *Config) { c.NormSize = c.MaxSize + 1 }},
		{"zero small mask", func(c *Config) { c.MaskSmall = 0 }},
		{"wide large mask", func(c *Config) { c.MaskLarge = 32 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())

	atLimit := DefaultConfig()
	atLimit.MaxSize = MaxChunkSize
	assert.NoError(t, atLimit.Validate())
}

func TestNewWithTableNil(t *testing.T) {
	_, err := NewWithTable(DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestNewWithTableMatchesNew(t *testing.T) {
	cfg := smallConfig()
	data := randomBytes(3, 20000)
	a := mustNew(t, cfg)
	b, err := NewWithTable(cfg, gear.New(cfg.Seed))
	require.NoError(t, err)
	assert.Equal(t, a.Split(data), b.Split(data))
}

func TestSplitShortInput(t *testing.T) {
	c := mustNew(t, smallConfig())

	assert.Empty(t, c.Split(nil))

	short := []byte("var x = 42;")
	chunks := c.Split(short)
	require.Len(t, chunks, 1)
	assert.Equal(t, short, chunks[0])

	exact := bytes.Repeat([]byte("a"), 64)
	chunks = c.Split(exact)
	assert.Len(t, chunks, 1, "input of exactly min size is a single chunk")
}

func TestSplitTwentyBytes(t *testing.T) {
	c := mustNew(t, Config{MinSize: 4, NormSize: 8, MaxSize: 12, MaskSmall: 2, MaskLarge: 3, Seed: 1})
	data := []byte("AAAABBBBCCCCDDDDEEEE")

	chunks := c.Split(data)
	assert.Equal(t, data, bytes.Join(chunks, nil))
	for i, chunk := range chunks[:len(chunks)-1] {
		assert.GreaterOrEqual(t, len(chunk), 4, "chunk %d too small", i)
		assert.LessOrEqual(t, len(chunk), 12, "chunk %d too large", i)
	}
	assert.LessOrEqual(t, len(chunks[len(chunks)-1]), 12)
}

func TestSplitDeterministic(t *testing.T) {
	data := randomBytes(1, 50000)
	a := mustNew(t, smallConfig()).Split(data)
	b := mustNew(t, smallConfig()).Split(data)
	assert.Equal(t, a, b)

	other := smallConfig()
	other.Seed = 2
	assert.NotEqual(t, a, mustNew(t, other).Split(data), "a different seed should move boundaries")
}

// xorshiftBytes is a fixed input independent of any library generator.
func xorshiftBytes(n int) []byte {
	x := uint64(0x9e3779b97f4a7c15)
	b := make([]byte, n)
	for i := range b {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		b[i] = byte(x)
	}
	return b
}

func TestSplitGolden(t *testing.T) {
	c := mustNew(t, DefaultConfig())
	var sizes []int
	for _, chunk := range c.Split(xorshiftBytes(20000)) {
		sizes = append(sizes, len(chunk))
	}
	assert.Equal(t, []int{
		886, 511, 258, 995, 301, 330, 1797, 980, 491,
		1054, 527, 1051, 719, 488, 8192, 741, 679,
	}, sizes)
}

func TestSplitCoversAllInput(t *testing.T) {
	c := mustNew(t, smallConfig())
	for _, data := range [][]byte{
		randomBytes(7, 100000),
		bytes.Repeat([]byte("function foo(bar,baz){return bar+baz;};"), 500),
		make([]byte, 5000),
	} {
		assert.Equal(t, data, bytes.Join(c.Split(data), nil), "chunks must reassemble to original")
	}
}

func TestSplitSizeBounds(t *testing.T) {
	cfg := smallConfig()
	c := mustNew(t, cfg)
	for _, data := range [][]byte{
		randomBytes(11, 200000),
		make([]byte, 10000), // no boundary ever matches, forced cuts only
	} {
		chunks := c.Split(data)
		for i, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), cfg.MaxSize, "chunk %d too large", i)
			if i < len(chunks)-1 {
				assert.GreaterOrEqual(t, len(chunk), cfg.MinSize, "chunk %d too small", i)
			}
		}
	}
}

func TestSplitNormalizesSizes(t *testing.T) {
	cfg := smallConfig()
	c := mustNew(t, cfg)
	chunks := c.Split(randomBytes(5, 400000))
	require.Greater(t, len(chunks), 100)

	var total int
	for _, chunk := range chunks[:len(chunks)-1] {
		total += len(chunk)
	}
	mean := total / (len(chunks) - 1)
	assert.Greater(t, mean, cfg.MinSize)
	assert.Less(t, mean, cfg.MaxSize/2)
}

func TestSplitStability(t *testing.T) {
	c := mustNew(t, smallConfig())
	original := randomBytes(9, 100000)

	// Insert a few bytes in the middle
	mid := len(original) / 2
	modified := make([]byte, 0, len(original)+5)
	modified = append(modified, original[:mid]...)
	modified = append(modified, "HELLO"...)
	modified = append(modified, original[mid:]...)

	origChunks := c.Split(original)
	modChunks := c.Split(modified)

	origSet := make(map[string]bool)
	for _, chunk := range origChunks {
		origSet[string(chunk)] = true
	}
	var shared int
	for _, chunk := range modChunks {
		if origSet[string(chunk)] {
			shared++
		}
	}
	assert.Greater(t, shared, len(modChunks)*9/10, "an insertion should only change nearby chunks")
}

func TestChunksStopsEarly(t *testing.T) {
	c := mustNew(t, smallConfig())
	var n int
	for range c.Chunks(randomBytes(2, 50000)) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestSplitText(t *testing.T) {
	c := mustNew(t, Config{MinSize: 4, NormSize: 6, MaxSize: 8, MaskSmall: 1, MaskLarge: 2, Seed: 1})
	text := strings.Repeat("äöü€", 20)
	chunks := c.SplitText(text)
	require.NotEmpty(t, chunks)

	var joined strings.Builder
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk))
		joined.WriteString(chunk)
	}
	// Characters split by a cut are lost, everything else survives in order.
	assert.LessOrEqual(t, joined.Len(), len(text))
	assert.Greater(t, joined.Len(), 0)

	ascii := "the quick brown fox jumps over the lazy dog"
	assert.Equal(t, ascii, strings.Join(c.SplitText(ascii), ""))
}

func TestReaderMatchesSplit(t *testing.T) {
	c := mustNew(t, smallConfig())
	data := randomBytes(13, 123457)
	want := c.Split(data)

	readers := map[string]io.Reader{
		"bytes":    bytes.NewReader(data),
		"onebyte":  iotest.OneByteReader(bytes.NewReader(data)),
		"halfread": iotest.HalfReader(bytes.NewReader(data)),
	}
	for name, r := range readers {
		t.Run(name, func(t *testing.T) {
			cr := c.NewReader(r)
			var got [][]byte
			var offset int64
			for {
				chunk, err := cr.Next()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				assert.Equal(t, offset, chunk.Offset)
				offset += int64(len(chunk.Data))
				got = append(got, append([]byte(nil), chunk.Data...))
			}
			assert.Equal(t, want, got)
			assert.Equal(t, int64(len(data)), cr.Offset())

			_, err := cr.Next()
			assert.Equal(t, io.EOF, err, "an exhausted reader stays exhausted")
		})
	}
}

func TestReaderEmpty(t *testing.T) {
	c := mustNew(t, smallConfig())
	_, err := c.NewReader(bytes.NewReader(nil)).Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderError(t *testing.T) {
	c := mustNew(t, smallConfig())
	boom := io.ErrClosedPipe
	r := io.MultiReader(bytes.NewReader(randomBytes(1, 10)), iotest.ErrReader(boom))
	_, err := c.NewReader(r).Next()
	assert.ErrorIs(t, err, boom)
}
