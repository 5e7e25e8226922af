// Package features turns text and chunks into the integer feature sets that
// minhash condenses.
package features

import (
	"fmt"
	"strings"
	"unicode"

	xxhash32 "github.com/OneOfOne/xxhash"
	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
	"golang.org/x/text/unicode/norm"
)

// DefaultShingleWidth is the number of runes per text shingle.
const DefaultShingleWidth = 13

// Hash selects the function that maps a shingle or chunk to a feature.
type Hash int

const (
	XXH64 Hash = iota
	XXH32
	XXH3
)

func (h Hash) String() string {
	switch h {
	case XXH64:
		return "xxh64"
	case XXH32:
		return "xxh32"
	case XXH3:
		return "xxh3"
	}
	return fmt.Sprintf("Hash(%d)", int(h))
}

// Valid reports whether h names a known hash.
func (h Hash) Valid() bool {
	return h == XXH64 || h == XXH32 || h == XXH3
}

// ParseHash returns the hash named by s.
func ParseHash(s string) (Hash, error) {
	switch strings.ToLower(s) {
	case "xxh64", "xxhash64":
		return XXH64, nil
	case "xxh32", "xxhash32":
		return XXH32, nil
	case "xxh3":
		return XXH3, nil
	}
	return 0, fmt.Errorf("unknown feature hash %q", s)
}

// Sum returns the feature of b. XXH32 features fit in 32 bits, which keeps
// them below the modulus of the universal permutations.
func (h Hash) Sum(b []byte) uint64 {
	switch h {
	case XXH32:
		return uint64(xxhash32.Checksum32(b))
	case XXH3:
		return xxh3.Hash(b)
	default:
		return xxhash.Sum64(b)
	}
}

// NormalizeText decomposes s to NFD and drops every rune that should not
// influence similarity: NUL, U+FFFD, control and format characters,
// whitespace and nonspacing marks. What remains is lowercased.
func NormalizeText(s string) string {
	s = norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if skipRune(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func skipRune(r rune) bool {
	switch {
	case r == 0, r == unicode.ReplacementChar:
		return true
	case r == ' ', r == '\t', r == '\n', r == '\r':
		return true
	}
	return unicode.In(r, unicode.C, unicode.Zs, unicode.Mn)
}

// Shingles returns the overlapping windows of width runes over text, in
// order. Text shorter than width yields a single shingle holding all of it,
// empty text yields none.
func Shingles(text string, width int) []string {
	if text == "" {
		return nil
	}
	width = max(width, 1)

	// byte offset of every rune start, plus the end
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))

	runes := len(offsets) - 1
	if runes <= width {
		return []string{text}
	}
	out := make([]string, 0, runes-width+1)
	for i := 0; i+width <= runes; i++ {
		out = append(out, text[offsets[i]:offsets[i+width]])
	}
	return out
}

// HashShingles returns the feature of every shingle.
func HashShingles(shingles []string, h Hash) []uint64 {
	out := make([]uint64, len(shingles))
	for i, s := range shingles {
		out[i] = h.Sum([]byte(s))
	}
	return out
}

// HashChunks returns the feature of every chunk.
func HashChunks(chunks [][]byte, h Hash) []uint64 {
	out := make([]uint64, len(chunks))
	for i, c := range chunks {
		out[i] = h.Sum(c)
	}
	return out
}

// Text normalizes text and returns the features of its shingles.
func Text(text string, width int, h Hash) []uint64 {
	return HashShingles(Shingles(NormalizeText(text), width), h)
}
