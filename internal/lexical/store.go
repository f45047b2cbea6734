// Package lexical provides the TF-IDF term weighting model and the store that
// exposes a trained vectorizer to inference paths.
package lexical

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/artifact"
)

// DefaultFileName is the canonical vectorizer artifact name inside the artifacts directory.
const DefaultFileName = "tfidf_vectorizer.json"

// Store loads the trained vectorizer on first use. A missing or unreadable
// artifact is reported as Absent and retried on the next call.
type Store struct {
	path string
	lazy *artifact.Lazy[*Vectorizer]
}

// NewStore creates a store reading the vectorizer from path.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path: path,
		lazy: artifact.NewLazy("tfidf_vectorizer", func() (*Vectorizer, error) {
			return ReadFile(path)
		}, logger),
	}
}

// Load returns the vectorizer or Absent.
func (s *Store) Load() artifact.Option[*Vectorizer] {
	return s.lazy.Load()
}

// Reset forgets a cached vectorizer so that a retrained one is read again.
func (s *Store) Reset() {
	s.lazy.Reset()
}

// Path returns the artifact location.
func (s *Store) Path() string {
	return s.path
}

// ReadFile decodes and validates a vectorizer artifact.
func ReadFile(path string) (*Vectorizer, error) {
	v, err := artifact.ReadJSON[*Vectorizer](path)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vectorizer %s: %w", path, err)
	}
	return v, nil
}

// Represent maps text into the vectorizer's term space. It never fails: text
// sharing no terms with the vocabulary produces the zero vector.
func Represent(v *Vectorizer, text string) []float32 {
	return v.Transform(text)
}
