package main

import (
	"github.com/sansecio/simprint/internal/chunker"
	"github.com/sansecio/simprint/internal/features"
	"github.com/sansecio/simprint/internal/fingerprint"
	"github.com/sansecio/simprint/internal/minhash"
)

type chunkOpt struct {
	MinSize   int    `long:"min-size" default:"256" description:"No chunk boundary before this many bytes"`
	NormSize  int    `long:"norm-size" default:"1024" description:"Switch from the small to the large mask at this size"`
	MaxSize   int    `long:"max-size" default:"8192" description:"Force a chunk boundary at this size"`
	MaskSmall uint   `long:"mask-small" default:"9" description:"Mask bits below the normal size"`
	MaskLarge uint   `long:"mask-large" default:"11" description:"Mask bits above the normal size"`
	GearSeed  uint64 `long:"gear-seed" default:"1" description:"Seed of the gear table"`
}

func (o chunkOpt) config() chunker.Config {
	return chunker.Config{
		MinSize:   o.MinSize,
		NormSize:  o.NormSize,
		MaxSize:   o.MaxSize,
		MaskSmall: o.MaskSmall,
		MaskLarge: o.MaskLarge,
		Seed:      o.GearSeed,
	}
}

type sigOpt struct {
	Slots    int    `short:"n" long:"slots" default:"64" description:"Number of signature slots (bits in the digest)"`
	Seed     uint64 `long:"seed" default:"28" description:"Seed of the permutations or masks"`
	Strategy string `long:"strategy" default:"xor" choice:"xor" choice:"permutation" description:"Signature strategy"`
	Hash     string `long:"hash" default:"xxh64" choice:"xxh64" choice:"xxh32" choice:"xxh3" description:"Feature hash"`
	Width    int    `short:"w" long:"width" default:"13" description:"Text shingle width in characters"`
}

func (o sigOpt) config() (minhash.Config, error) {
	st, err := minhash.ParseStrategy(o.Strategy)
	if err != nil {
		return minhash.Config{}, err
	}
	cfg := minhash.Config{Slots: o.Slots, Seed: o.Seed, Strategy: st}
	return cfg, cfg.Validate()
}

func newFingerprinter(c chunkOpt, s sigOpt) (*fingerprint.Fingerprinter, error) {
	sig, err := s.config()
	if err != nil {
		return nil, err
	}
	h, err := features.ParseHash(s.Hash)
	if err != nil {
		return nil, err
	}
	return fingerprint.New(fingerprint.Config{
		Chunk:        c.config(),
		Signature:    sig,
		Hash:         h,
		ShingleWidth: s.Width,
	})
}
