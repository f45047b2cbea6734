package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/spigell/skillmatch/internal/lexical"
)

// HashingBackend is a local, deterministic embedder. Unigrams and bigrams from
// the lexical analyzer are hashed into a fixed number of signed buckets and the
// result is L2-normalized. It needs no credentials and no network.
type HashingBackend struct {
	model string
	dim   int
}

// NewHashingBackend creates a hashing backend producing dim-sized vectors.
func NewHashingBackend(model string, dim int) *HashingBackend {
	if dim <= 0 {
		dim = defaultDimensions
	}
	return &HashingBackend{model: model, dim: dim}
}

func (h *HashingBackend) Dimension() int { return h.dim }

func (h *HashingBackend) Model() string { return h.model }

func (h *HashingBackend) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *HashingBackend) vector(text string) []float32 {
	acc := make([]float64, h.dim)
	for _, term := range lexical.Ngrams(lexical.DefaultAnalyzer().Tokens(text), 2) {
		sum := fnv32(term)
		bucket := int(sum % uint32(h.dim))
		if sum&(1<<31) != 0 {
			acc[bucket]--
		} else {
			acc[bucket]++
		}
	}

	var norm float64
	for _, x := range acc {
		norm += x * x
	}
	out := make([]float32, h.dim)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, x := range acc {
		out[i] = float32(x / norm)
	}
	return out
}

func fnv32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
