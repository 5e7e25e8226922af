// Package chunker provides content-defined chunking (CDC) with normalized
// chunk sizes. Boundaries are found with a gear rolling hash, so a local edit
// only moves the boundaries near it.
//
// Between MinSize and NormSize a boundary is accepted when the low MaskSmall
// bits of the rolling pattern are zero; between NormSize and MaxSize the low
// MaskLarge bits must be zero. A chunk that reaches MaxSize is cut there.
package chunker

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/sansecio/simprint/internal/gear"
)

const (
	DefaultNormSize  = 1024
	DefaultMinSize   = DefaultNormSize / 4
	DefaultMaxSize   = DefaultNormSize * 8
	DefaultMaskSmall = 9
	DefaultMaskLarge = 11
	DefaultSeed      = 1

	// MaxChunkSize bounds MaxSize; a Reader buffers twice MaxSize.
	MaxChunkSize = 1 << 30

	maxMaskBits = 31 // the rolling pattern is 31 bits wide
)

// ErrConfig is returned for chunk size or mask parameters that cannot work.
var ErrConfig = errors.New("invalid chunker config")

// Config holds the chunk size and boundary shape parameters.
type Config struct {
	MinSize   int    // no boundary before this many bytes
	NormSize  int    // switch from the small to the large mask here
	MaxSize   int    // forced cut
	MaskSmall uint   // mask bits in [MinSize, NormSize)
	MaskLarge uint   // mask bits in [NormSize, MaxSize)
	Seed      uint64 // gear table seed
}

// DefaultConfig returns the parameters used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		MinSize:   DefaultMinSize,
		NormSize:  DefaultNormSize,
		MaxSize:   DefaultMaxSize,
		MaskSmall: DefaultMaskSmall,
		MaskLarge: DefaultMaskLarge,
		Seed:      DefaultSeed,
	}
}

// Validate reports whether c describes a usable chunker.
func (c Config) Validate() error {
	switch {
	case c.MinSize <= 0:
		return fmt.Errorf("%w: min size must be positive, got %d", ErrConfig, c.MinSize)
	case c.MaxSize < c.MinSize:
		return fmt.Errorf("%w: max size (%d) is below min size (%d)", ErrConfig, c.MaxSize, c.MinSize)
	case c.MaxSize > MaxChunkSize:
		return fmt.Errorf("%w: max size (%d) exceeds %d", ErrConfig, c.MaxSize, MaxChunkSize)
	case c.NormSize < c.MinSize || c.NormSize > c.MaxSize:
		return fmt.Errorf("%w: norm size (%d) must be within [%d, %d]", ErrConfig, c.NormSize, c.MinSize, c.MaxSize)
	case c.MaskSmall < 1 || c.MaskSmall > maxMaskBits:
		return fmt.Errorf("%w: small mask bits must be within [1, %d], got %d", ErrConfig, maxMaskBits, c.MaskSmall)
	case c.MaskLarge < 1 || c.MaskLarge > maxMaskBits:
		return fmt.Errorf("%w: large mask bits must be within [1, %d], got %d", ErrConfig, maxMaskBits, c.MaskLarge)
	}
	return nil
}

// Chunker finds chunk boundaries. It holds no per-stream state and is safe
// for concurrent use.
type Chunker struct {
	table     *gear.Table
	minSize   int
	normSize  int
	maxSize   int
	maskSmall uint32
	maskLarge uint32
}

// New validates cfg and builds a Chunker with the gear table for cfg.Seed.
func New(cfg Config) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newChunker(cfg, gear.New(cfg.Seed)), nil
}

// NewWithTable is like New but reuses an already built gear table.
// cfg.Seed is ignored.
func NewWithTable(cfg Config, table *gear.Table) (*Chunker, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil gear table", ErrConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newChunker(cfg, table), nil
}

func newChunker(cfg Config, table *gear.Table) *Chunker {
	return &Chunker{
		table:     table,
		minSize:   cfg.MinSize,
		normSize:  cfg.NormSize,
		maxSize:   cfg.MaxSize,
		maskSmall: gear.Mask(cfg.MaskSmall),
		maskLarge: gear.Mask(cfg.MaskLarge),
	}
}

// MinSize returns the minimum chunk size.
func (c *Chunker) MinSize() int { return c.minSize }

// MaxSize returns the maximum chunk size.
func (c *Chunker) MaxSize() int { return c.maxSize }

// Boundary returns the length of the first chunk in data. data must hold
// at least MaxSize bytes unless it is the tail of the stream.
func (c *Chunker) Boundary(data []byte) int {
	n := len(data)
	if n <= c.minSize {
		return n
	}

	var pattern uint32
	i := c.minSize

	barrier := min(c.normSize, n)
	for ; i < barrier; i++ {
		pattern = c.table.Roll(pattern, data[i])
		if pattern&c.maskSmall == 0 {
			return i
		}
	}

	barrier = min(c.maxSize, n)
	for ; i < barrier; i++ {
		pattern = c.table.Roll(pattern, data[i])
		if pattern&c.maskLarge == 0 {
			return i
		}
	}
	return i
}

// Split cuts data into chunks. The chunks alias data.
func (c *Chunker) Split(data []byte) [][]byte {
	var chunks [][]byte
	for chunk := range c.Chunks(data) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// Chunks yields the chunks of data in order.
func (c *Chunker) Chunks(data []byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for len(data) > 0 {
			n := c.Boundary(data)
			if !yield(data[:n]) {
				return
			}
			data = data[n:]
		}
	}
}

// SplitText cuts the UTF-8 encoding of s into chunks. A cut may fall inside
// a multi-byte character; each chunk is decoded on its own and the partial
// sequences at its edges are dropped.
func (c *Chunker) SplitText(s string) []string {
	var chunks []string
	for chunk := range c.Chunks([]byte(s)) {
		chunks = append(chunks, strings.ToValidUTF8(string(chunk), ""))
	}
	return chunks
}
