// Package ranking orders candidate vectors by cosine similarity to a query.
package ranking

import (
	"fmt"
	"slices"

	"github.com/spigell/skillmatch/internal/similarity"
)

// Candidate pairs an opaque payload with its similarity to the query.
type Candidate[T any] struct {
	Payload T       `json:"payload"`
	Score   float64 `json:"score"`
}

// Rank returns the topK payloads ordered by descending similarity to query.
//
// All vectors are L2-normalized before the dot product, so callers may pass raw
// vectors. Exact ties keep the input order. The result has min(topK, len(payloads))
// entries; a non-positive topK yields an empty result.
func Rank[T any](query []float32, vectors [][]float32, payloads []T, topK int) []Candidate[T] {
	if len(vectors) != len(payloads) {
		panic(fmt.Sprintf("ranking: %d vectors for %d payloads", len(vectors), len(payloads)))
	}
	if len(vectors) == 0 || topK <= 0 {
		return []Candidate[T]{}
	}

	q := similarity.Normalize(query)
	out := make([]Candidate[T], len(vectors))
	for i, vec := range vectors {
		out[i] = Candidate[T]{
			Payload: payloads[i],
			Score:   similarity.Dot(q, similarity.Normalize(vec)),
		}
	}

	slices.SortStableFunc(out, func(a, b Candidate[T]) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// MinScore drops candidates scoring below min. Order is preserved.
func MinScore[T any](candidates []Candidate[T], min float64) []Candidate[T] {
	if min <= 0 {
		return candidates
	}
	out := make([]Candidate[T], 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= min {
			out = append(out, c)
		}
	}
	return out
}

// Payloads extracts the payloads in ranked order.
func Payloads[T any](candidates []Candidate[T]) []T {
	out := make([]T, len(candidates))
	for i, c := range candidates {
		out[i] = c.Payload
	}
	return out
}
