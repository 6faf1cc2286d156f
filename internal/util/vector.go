package util

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyVector       = errors.New("embedding vector is empty")
	ErrDimensionMismatch = errors.New("embedding dimensions differ")
)

// Cosine scores how closely two embeddings point the same way, in [-1, 1].
// Accumulation runs in float64; the result is clamped against rounding drift.
// A zero vector scores 0 against anything.
func Cosine(query, doc []float32) (float64, error) {
	if len(query) == 0 || len(doc) == 0 {
		return 0, ErrEmptyVector
	}
	if len(query) != len(doc) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(query), len(doc))
	}

	var dot, qq, dd float64
	for i, q := range query {
		d := float64(doc[i])
		dot += float64(q) * d
		qq += float64(q) * float64(q)
		dd += d * d
	}
	if qq == 0 || dd == 0 {
		return 0, nil
	}
	return math.Max(-1, math.Min(1, dot/math.Sqrt(qq*dd))), nil
}
