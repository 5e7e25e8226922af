// Package featureset holds a deduplicated set of 64-bit features and reads
// and writes it in a compact binary file.
package featureset

import (
	"slices"

	"github.com/sansecio/simprint/internal/features"
)

// Set stores features using a map for O(1) lookups.
type Set struct {
	set  map[uint64]struct{}
	Hash features.Hash // hash that produced the features
}

// New creates an empty Set.
func New(h features.Hash) *Set {
	return &Set{set: make(map[uint64]struct{}), Hash: h}
}

// FromSlice creates a Set holding the unique values of fs.
func FromSlice(h features.Hash, fs []uint64) *Set {
	s := &Set{set: make(map[uint64]struct{}, len(fs)), Hash: h}
	for _, f := range fs {
		s.set[f] = struct{}{}
	}
	return s
}

// Contains reports whether f is in the set.
func (s *Set) Contains(f uint64) bool {
	_, ok := s.set[f]
	return ok
}

// Add inserts f and reports whether it was new.
func (s *Set) Add(f uint64) bool {
	if _, ok := s.set[f]; ok {
		return false
	}
	s.set[f] = struct{}{}
	return true
}

// Merge adds all entries from other into this set.
func (s *Set) Merge(other *Set) {
	for f := range other.set {
		s.set[f] = struct{}{}
	}
}

// Len returns the number of unique entries.
func (s *Set) Len() int {
	return len(s.set)
}

// Slice returns the features in ascending order.
func (s *Set) Slice() []uint64 {
	out := make([]uint64, 0, len(s.set))
	for f := range s.set {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
