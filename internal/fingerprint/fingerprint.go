// Package fingerprint runs the whole pipeline: content is cut into chunks
// or shingles, hashed into features, condensed into a MinHash signature and
// packed into a digest with a short code.
package fingerprint

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sansecio/simprint/internal/chunker"
	"github.com/sansecio/simprint/internal/digest"
	"github.com/sansecio/simprint/internal/features"
	"github.com/sansecio/simprint/internal/minhash"
	"github.com/sansecio/simprint/internal/simhash"
	"github.com/sansecio/simprint/internal/wta"
)

const profileBits = 64

// Config combines the parameters of every stage.
type Config struct {
	Chunk        chunker.Config
	Signature    minhash.Config
	Hash         features.Hash
	ShingleWidth int
}

// DefaultConfig returns the default parameters of every stage.
func DefaultConfig() Config {
	return Config{
		Chunk:        chunker.DefaultConfig(),
		Signature:    minhash.DefaultConfig(),
		Hash:         features.XXH64,
		ShingleWidth: features.DefaultShingleWidth,
	}
}

// Result is the fingerprint of one piece of content.
type Result struct {
	Signature minhash.Signature
	Digest    []byte // header byte followed by the packed signature bits
	Code      string // base58 of Digest
	Chunks    []int  // chunk sizes, nil for text
	Features  []uint64
	Profile   uint64 // WTA hash of the byte histogram, 0 for text
}

// Header returns the digest header of r.
func (r *Result) Header() digest.Header {
	if len(r.Digest) == 0 {
		return 0
	}
	return digest.Header(r.Digest[0])
}

// Body returns the packed signature bits of r.
func (r *Result) Body() []byte {
	if len(r.Digest) == 0 {
		return nil
	}
	return r.Digest[1:]
}

// Fingerprinter is immutable after New and may be shared by any number of
// goroutines.
type Fingerprinter struct {
	cfg     Config
	chunker *chunker.Chunker
	hasher  *minhash.Hasher
	perms   [][]int // byte histogram permutations for Profile
}

// New validates cfg and prepares the gear table and the permutations.
func New(cfg Config) (*Fingerprinter, error) {
	if cfg.ShingleWidth <= 0 {
		return nil, fmt.Errorf("shingle width must be positive, got %d", cfg.ShingleWidth)
	}
	c, err := chunker.New(cfg.Chunk)
	if err != nil {
		return nil, err
	}
	h, err := minhash.New(cfg.Signature)
	if err != nil {
		return nil, err
	}
	perms, err := wta.NewPermutations(cfg.Signature.Seed, 256, profileBits)
	if err != nil {
		return nil, err
	}
	return &Fingerprinter{cfg: cfg, chunker: c, hasher: h, perms: perms}, nil
}

// Config returns the configuration f was built with.
func (f *Fingerprinter) Config() Config { return f.cfg }

// Data fingerprints a byte stream by its content-defined chunks.
func (f *Fingerprinter) Data(r io.Reader) (*Result, error) {
	res := &Result{}
	var hist [256]int
	cr := f.chunker.NewReader(r)
	for {
		chunk, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, b := range chunk.Data {
			hist[b]++
		}
		res.Chunks = append(res.Chunks, len(chunk.Data))
		res.Features = append(res.Features, f.cfg.Hash.Sum(chunk.Data))
	}
	f.finish(res, digest.HeadContentData)

	var err error
	if res.Profile, err = f.profile(hist[:]); err != nil {
		return nil, err
	}
	return res, nil
}

// profile ranks pairs of byte frequencies, so it depends on the byte
// distribution but not on the content length.
func (f *Fingerprinter) profile(hist []int) (uint64, error) {
	h, err := wta.Hash(hist, f.perms, 2)
	if err != nil {
		return 0, err
	}
	return wta.Pack(h)
}

// Text fingerprints normalized text by its shingles.
func (f *Fingerprinter) Text(s string) *Result {
	return f.text(s, digest.HeadContentText)
}

// TextPartial is Text for content known to be an excerpt of a larger text.
func (f *Fingerprinter) TextPartial(s string) *Result {
	return f.text(s, digest.HeadContentTextPartial)
}

func (f *Fingerprinter) text(s string, h digest.Header) *Result {
	res := &Result{Features: features.Text(s, f.cfg.ShingleWidth, f.cfg.Hash)}
	f.finish(res, h)
	return res
}

// Features returns the feature set of content the way Data or Text would
// compute it, without condensing it.
func (f *Fingerprinter) Features(r io.Reader, text bool) ([]uint64, error) {
	if text {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return features.Text(string(b), f.cfg.ShingleWidth, f.cfg.Hash), nil
	}
	res, err := f.Data(r)
	if err != nil {
		return nil, err
	}
	return res.Features, nil
}

func (f *Fingerprinter) finish(res *Result, h digest.Header) {
	res.Signature = f.hasher.Sum(res.Features)
	body := res.Signature.Pack()
	res.Digest = digest.Compose(h, body)
	res.Code = digest.Encode(h, body)
}

// File fingerprints the file at path, as text when text is set.
func (f *Fingerprinter) File(path string, text bool) (*Result, error) {
	if text {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return f.Text(string(b)), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	res, err := f.Data(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// ErrNoResults is returned by Combine for an empty input.
var ErrNoResults = errors.New("no results to combine")

// Combine condenses the digests of many results into one by a per-bit
// majority vote. The header of the first result is kept. All results must
// come from the same Fingerprinter.
func Combine(results []*Result) ([]byte, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	bodies := make([][]byte, len(results))
	for i, r := range results {
		bodies[i] = r.Body()
	}
	body, err := simhash.Sum(bodies)
	if err != nil {
		return nil, err
	}
	return digest.Compose(results[0].Header(), body), nil
}
