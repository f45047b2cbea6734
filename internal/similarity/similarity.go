// Package similarity implements vector similarity measures shared by the matcher and the ranking engine.
package similarity

import (
	"fmt"
	"math"
)

// Cosine returns dot(a,b) / (|a|*|b|).
//
// It returns exactly 0 when either vector has zero norm. Vectors of different
// length are a programming error and cause a panic.
func Cosine(a, b []float32) float64 {
	mustMatch(a, b)

	var dot, na, nb float64
	for i := range a {
		fa, fb := float64(a[i]), float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(dot/(math.Sqrt(na)*math.Sqrt(nb)), -1, 1)
}

// Dot returns the dot product of two vectors of equal length.
func Dot(a, b []float32) float64 {
	mustMatch(a, b)

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns an L2-normalized copy of v. A zero vector stays zero.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	n := Norm(v)
	if n == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}

// Clamp01 limits x to [0,1].
func Clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func mustMatch(a, b []float32) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("similarity: dimension mismatch %d != %d", len(a), len(b)))
	}
}
