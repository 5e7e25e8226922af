// Package minhash condenses a set of integer features into a fixed number
// of minimum hash values whose slot-wise agreement estimates the Jaccard
// similarity of the underlying sets.
//
// Two strategies are provided. Permutation applies universal hash
// permutations modulo the Mersenne prime 2^61-1 and is the reference.
// XOR takes the minimum of feature XOR mask; it is much cheaper and close
// enough for similarity ranking, but not an exact substitute.
package minhash

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned for an unusable slot count or strategy.
	ErrConfig = errors.New("invalid minhash config")

	// ErrSizeMismatch is returned when comparing signatures of different length.
	ErrSizeMismatch = errors.New("signature sizes do not match")
)

// Strategy selects how features are permuted.
type Strategy int

const (
	XOR Strategy = iota
	Permutation
)

func (s Strategy) String() string {
	switch s {
	case XOR:
		return "xor"
	case Permutation:
		return "permutation"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy returns the strategy named by s.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "xor":
		return XOR, nil
	case "permutation", "perm", "universal":
		return Permutation, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrConfig, s)
}

const (
	DefaultSlots = 64
	DefaultSeed  = 28
)

// Config selects the signature size, the seed of the permutations or masks
// and the strategy.
type Config struct {
	Slots    int
	Seed     uint64
	Strategy Strategy
}

// DefaultConfig returns a 64 slot XOR configuration.
func DefaultConfig() Config {
	return Config{Slots: DefaultSlots, Seed: DefaultSeed, Strategy: XOR}
}

// Validate reports whether c can build a Hasher.
func (c Config) Validate() error {
	if c.Slots <= 0 {
		return fmt.Errorf("%w: slots must be positive, got %d", ErrConfig, c.Slots)
	}
	if c.Strategy != XOR && c.Strategy != Permutation {
		return fmt.Errorf("%w: unknown strategy %v", ErrConfig, c.Strategy)
	}
	return nil
}

// String describes c, e.g. "xor/64/28".
func (c Config) String() string {
	return fmt.Sprintf("%v/%d/%d", c.Strategy, c.Slots, c.Seed)
}

// Hasher computes signatures with a fixed set of permutations or masks.
// It is immutable after New and safe for concurrent use.
type Hasher struct {
	cfg   Config
	perms []UniversalHash
	masks []uint64
}

// New builds the permutations or masks for cfg.
func New(cfg Config) (*Hasher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Hasher{cfg: cfg}
	var err error
	switch cfg.Strategy {
	case Permutation:
		h.perms, err = NewPermutations(cfg.Seed, cfg.Slots)
	case XOR:
		h.masks, err = NewMasks(cfg.Seed, cfg.Slots)
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Config returns the configuration h was built with.
func (h *Hasher) Config() Config { return h.cfg }

// Slots returns the signature length.
func (h *Hasher) Slots() int { return h.cfg.Slots }

// Sum returns the signature of features. The order of features and
// duplicates among them do not affect the result. An empty feature set
// yields a signature with every slot at its initial value.
func (h *Hasher) Sum(features []uint64) Signature {
	if h.cfg.Strategy == Permutation {
		return Universal(features, h.perms)
	}
	return Xor(features, h.masks)
}

// Universal returns, per permutation, the minimum permuted feature.
func Universal(features []uint64, perms []UniversalHash) Signature {
	sig := make(Signature, len(perms))
	for i := range sig {
		sig[i] = MaxHash
	}
	for _, f := range features {
		for i, p := range perms {
			if v := p.Apply(f); v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

// Xor returns, per mask, the minimum of feature XOR mask.
func Xor(features []uint64, masks []uint64) Signature {
	sig := make(Signature, len(masks))
	for i := range sig {
		sig[i] = MaxMask
	}
	for _, f := range features {
		for i, m := range masks {
			if v := f ^ m; v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}
