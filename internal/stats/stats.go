// Package stats summarizes chunk size distributions.
package stats

import (
	"fmt"

	tdigest "github.com/caio/go-tdigest"
)

// Sizes accumulates sizes. Quantiles come from a t-digest, so memory stays
// bounded regardless of how many sizes are added. Not safe for concurrent use.
type Sizes struct {
	td       *tdigest.TDigest
	count    int
	sum      int64
	min, max int
}

// NewSizes returns an empty accumulator.
func NewSizes() (*Sizes, error) {
	// compression 100 keeps the digest at a few KB with good tail accuracy
	td, err := tdigest.New(tdigest.Compression(100))
	if err != nil {
		return nil, err
	}
	return &Sizes{td: td}, nil
}

// Add records one size.
func (s *Sizes) Add(n int) error {
	if err := s.td.Add(float64(n)); err != nil {
		return err
	}
	if s.count == 0 || n < s.min {
		s.min = n
	}
	if s.count == 0 || n > s.max {
		s.max = n
	}
	s.count++
	s.sum += int64(n)
	return nil
}

// AddAll records every size in ns.
func (s *Sizes) AddAll(ns []int) error {
	for _, n := range ns {
		if err := s.Add(n); err != nil {
			return err
		}
	}
	return nil
}

// Quantile returns the approximate q-quantile, 0 when nothing was added.
func (s *Sizes) Quantile(q float64) float64 {
	if s.count == 0 {
		return 0
	}
	return s.td.Quantile(q)
}

// Summary is a snapshot of a size distribution.
type Summary struct {
	Count         int
	Mean          float64
	Min, Max      int
	P50, P90, P99 float64
}

// Summary returns the current distribution.
func (s *Sizes) Summary() Summary {
	sum := Summary{Count: s.count, Min: s.min, Max: s.max}
	if s.count > 0 {
		sum.Mean = float64(s.sum) / float64(s.count)
		sum.P50 = s.Quantile(0.5)
		sum.P90 = s.Quantile(0.9)
		sum.P99 = s.Quantile(0.99)
	}
	return sum
}

func (s Summary) String() string {
	return fmt.Sprintf("count=%d mean=%.1f min=%d p50=%.0f p90=%.0f p99=%.0f max=%d",
		s.Count, s.Mean, s.Min, s.P50, s.P90, s.P99, s.Max)
}
