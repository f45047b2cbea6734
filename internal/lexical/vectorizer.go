package lexical

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrEmptyVocabulary is returned by Fit when no term survives analysis and pruning.
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words or nothing at all")

// Options control vocabulary construction.
type Options struct {
	// MaxFeatures keeps the terms with the highest corpus frequency. Zero keeps all.
	MaxFeatures int `mapstructure:"max-features"`
	// NgramMax is the largest n-gram size. Values below 1 are treated as 1.
	NgramMax int `mapstructure:"ngram-max"`
	// MinDF drops terms present in fewer documents.
	MinDF int `mapstructure:"min-df"`
}

// SparseVector holds the non-zero entries of a term vector, sorted by index.
type SparseVector struct {
	Indices []int
	Values  []float32
}

// Len returns the number of non-zero entries.
func (s SparseVector) Len() int {
	return len(s.Indices)
}

// Dense expands the vector to dim entries.
func (s SparseVector) Dense(dim int) []float32 {
	out := make([]float32, dim)
	for i, idx := range s.Indices {
		out[idx] = s.Values[i]
	}
	return out
}

// Vectorizer is a TF-IDF term weighting model with smoothed IDF and L2-normalized output.
type Vectorizer struct {
	RunID      string         `json:"run_id"`
	NgramMax   int            `json:"ngram_max"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`

	opts Options
}

// NewVectorizer returns an unfitted vectorizer.
func NewVectorizer(opts Options) *Vectorizer {
	if opts.NgramMax < 1 {
		opts.NgramMax = 1
	}
	if opts.MinDF < 1 {
		opts.MinDF = 1
	}
	return &Vectorizer{NgramMax: opts.NgramMax, opts: opts}
}

// Dimension is the vocabulary size.
func (v *Vectorizer) Dimension() int {
	return len(v.IDF)
}

// Fit learns the vocabulary and IDF weights from docs.
func (v *Vectorizer) Fit(docs []string) error {
	type stat struct {
		tf int
		df int
	}

	stats := make(map[string]*stat)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range v.terms(doc) {
			s, ok := stats[term]
			if !ok {
				s = &stat{}
				stats[term] = s
			}
			s.tf++
			if _, dup := seen[term]; !dup {
				seen[term] = struct{}{}
				s.df++
			}
		}
	}

	kept := make([]string, 0, len(stats))
	for term, s := range stats {
		if s.df >= v.opts.MinDF {
			kept = append(kept, term)
		}
	}
	if len(kept) == 0 {
		return ErrEmptyVocabulary
	}

	if v.opts.MaxFeatures > 0 && len(kept) > v.opts.MaxFeatures {
		slices.SortFunc(kept, func(a, b string) int {
			if c := cmp.Compare(stats[b].tf, stats[a].tf); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		kept = kept[:v.opts.MaxFeatures]
	}
	slices.Sort(kept)

	n := float64(len(docs))
	v.Vocabulary = make(map[string]int, len(kept))
	v.IDF = make([]float64, len(kept))
	for i, term := range kept {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(stats[term].df))) + 1
	}
	return nil
}

// Transform returns the dense L2-normalized TF-IDF vector of text. Unknown terms
// are ignored, so text outside the vocabulary yields the zero vector.
func (v *Vectorizer) Transform(text string) []float32 {
	return v.TransformSparse(text).Dense(v.Dimension())
}

// TransformSparse is Transform without materializing zero entries.
func (v *Vectorizer) TransformSparse(text string) SparseVector {
	counts := make(map[int]int)
	for _, term := range v.terms(text) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	weights := make([]float64, len(indices))
	var sum float64
	for i, idx := range indices {
		w := float64(counts[idx]) * v.IDF[idx]
		weights[i] = w
		sum += w * w
	}
	norm := math.Sqrt(sum)

	values := make([]float32, len(indices))
	for i, w := range weights {
		values[i] = float32(w / norm)
	}
	return SparseVector{Indices: indices, Values: values}
}

// Validate checks that a decoded vectorizer is internally consistent.
func (v *Vectorizer) Validate() error {
	if v == nil {
		return errors.New("vectorizer is empty")
	}
	if len(v.Vocabulary) == 0 {
		return ErrEmptyVocabulary
	}
	if len(v.Vocabulary) != len(v.IDF) {
		return fmt.Errorf("vocabulary has %d terms but %d idf weights", len(v.Vocabulary), len(v.IDF))
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("term %q has out of range index %d", term, idx)
		}
	}
	return nil
}

func (v *Vectorizer) terms(text string) []string {
	return Ngrams(DefaultAnalyzer().Tokens(text), v.NgramMax)
}
