// Package skills scans text for entries of a static skill dictionary.
package skills

import (
	"context"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/skillmatch/internal/domain"
	"github.com/spigell/skillmatch/internal/lexical"
)

// KeywordExtractor reports every dictionary keyword that occurs in a text as a
// whole word. Keywords may contain spaces and punctuation ("ci/cd", "node.js").
type KeywordExtractor struct {
	keywords []string
}

// NewKeywordExtractor normalizes and deduplicates keywords.
func NewKeywordExtractor(keywords []string) *KeywordExtractor {
	return &KeywordExtractor{keywords: []string(domain.NewLabelSet(keywords...))}
}

var defaultExtractor = sync.OnceValue(func() *KeywordExtractor {
	return NewKeywordExtractor(defaultKeywords)
})

// Default returns the extractor over the built-in dictionary.
func Default() *KeywordExtractor {
	return defaultExtractor()
}

// Keywords returns the dictionary size.
func (e *KeywordExtractor) Keywords() int {
	return len(e.keywords)
}

// Extract returns the keywords found in text.
func (e *KeywordExtractor) Extract(text string) domain.LabelSet {
	if strings.TrimSpace(text) == "" {
		return domain.LabelSet{}
	}
	lower := cases.Lower(language.Und).String(lexical.Normalize(text))

	found := make([]string, 0)
	for _, kw := range e.keywords {
		if containsWord(lower, kw) {
			found = append(found, kw)
		}
	}
	return domain.NewLabelSet(found...)
}

// Classify implements the skill strategy used by the profile builder. The
// keyword scan never fails.
func (e *KeywordExtractor) Classify(_ context.Context, text string) (domain.LabelSet, error) {
	return e.Extract(text), nil
}

// containsWord reports whether kw occurs in text with no word character
// directly before or after it.
func containsWord(text, kw string) bool {
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], kw)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(kw)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

// '+' and '#' belong to names like c++ and c#, so "c" does not match inside them.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '_'
}
