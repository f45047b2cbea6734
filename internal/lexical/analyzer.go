package lexical

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/registry"
	"golang.org/x/text/unicode/norm"
)

// Analyzer turns raw text into index terms. It wraps bleve's standard analyzer:
// unicode word segmentation, lower-casing and English stop word removal.
type Analyzer struct {
	inner analysis.Analyzer
}

// NewAnalyzer resolves the standard analyzer from a fresh bleve registry cache.
func NewAnalyzer() (*Analyzer, error) {
	cache := registry.NewCache()
	inner, err := cache.AnalyzerNamed(standard.Name)
	if err != nil {
		return nil, fmt.Errorf("resolve %s analyzer: %w", standard.Name, err)
	}
	return &Analyzer{inner: inner}, nil
}

var defaultAnalyzer = sync.OnceValue(func() *Analyzer {
	a, err := NewAnalyzer()
	if err != nil {
		// standard is registered by the import above.
		panic(err)
	}
	return a
})

// DefaultAnalyzer returns the process-wide analyzer. It is safe for concurrent use.
func DefaultAnalyzer() *Analyzer {
	return defaultAnalyzer()
}

// Normalize applies NFKC normalization and trims surrounding whitespace, so that
// full-width characters and ligatures produce the same terms as their plain forms.
func Normalize(text string) string {
	return strings.TrimSpace(norm.NFKC.String(text))
}

// Tokens returns the analyzed terms of text in document order.
func (a *Analyzer) Tokens(text string) []string {
	text = Normalize(text)
	if text == "" {
		return nil
	}

	stream := a.inner.Analyze([]byte(text))
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		if len(tok.Term) == 0 {
			continue
		}
		out = append(out, string(tok.Term))
	}
	return out
}

// Ngrams expands tokens into all n-grams with 1 <= n <= max, joined by a single space.
func Ngrams(tokens []string, max int) []string {
	if max < 1 {
		max = 1
	}
	out := make([]string, 0, len(tokens)*max)
	for n := 1; n <= max; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			if n == 1 {
				out = append(out, tokens[i])
				continue
			}
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
