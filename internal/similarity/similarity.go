// Package similarity compares feature sets directly, without signatures.
//
// All functions treat their inputs as sets (Cosine as multisets), so
// duplicates do not count twice in Jaccard or Containment.
package similarity

import (
	"errors"
	"math"
)

// ErrEmptyInput is returned when a measure is undefined for empty input.
var ErrEmptyInput = errors.New("empty feature set")

func toSet[T comparable](items []T) map[T]struct{} {
	set := make(map[T]struct{}, len(items))
	for _, v := range items {
		set[v] = struct{}{}
	}
	return set
}

func intersection[T comparable](a, b map[T]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	var n int
	for v := range a {
		if _, ok := b[v]; ok {
			n++
		}
	}
	return n
}

// Jaccard returns |a ∩ b| / |a ∪ b|. Two empty sets have no defined
// similarity and yield ErrEmptyInput; one empty set against a non-empty
// one yields 0.
func Jaccard[T comparable](a, b []T) (float64, error) {
	sa, sb := toSet(a), toSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 0, ErrEmptyInput
	}
	inter := intersection(sa, sb)
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union), nil
}

// Containment returns the larger of |a ∩ b|/|a| and |a ∩ b|/|b|, i.e. how
// much of the smaller set is found in the other. Either set being empty
// yields ErrEmptyInput.
func Containment[T comparable](a, b []T) (float64, error) {
	sa, sb := toSet(a), toSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0, ErrEmptyInput
	}
	inter := float64(intersection(sa, sb))
	return max(inter/float64(len(sa)), inter/float64(len(sb))), nil
}

// Cosine returns the cosine similarity of the count vectors of a and b.
// It is 0 when either input is empty.
func Cosine[T comparable](a, b []T) float64 {
	va, vb := counts(a), counts(b)

	var dot, na, nb float64
	for k, x := range va {
		na += float64(x * x)
		if y, ok := vb[k]; ok {
			dot += float64(x * y)
		}
	}
	for _, y := range vb {
		nb += float64(y * y)
	}
	denom := math.Sqrt(na) * math.Sqrt(nb)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

func counts[T comparable](items []T) map[T]int {
	m := make(map[T]int, len(items))
	for _, v := range items {
		m[v]++
	}
	return m
}
