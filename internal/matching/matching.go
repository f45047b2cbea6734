// Package matching scores a résumé against a job description by combining
// semantic (embedding) and lexical (TF-IDF) similarity.
package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/artifact"
	"github.com/spigell/skillmatch/internal/domain"
	"github.com/spigell/skillmatch/internal/lexical"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/similarity"
	"github.com/spigell/skillmatch/internal/utils"
)

const defaultMaxLogLength = 200

// Embedder produces semantic vectors in input order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// LexicalSource yields the trained vectorizer when one is available.
type LexicalSource interface {
	Load() artifact.Option[*lexical.Vectorizer]
}

// Weights scale the two similarity signals. They need not sum to 1.
type Weights struct {
	TFIDF     float64 `mapstructure:"tfidf-weight" json:"tfidf_weight"`
	Embedding float64 `mapstructure:"embedding-weight" json:"embedding_weight"`
}

// DefaultWeights favors the semantic signal.
func DefaultWeights() Weights {
	return Weights{TFIDF: 0.4, Embedding: 0.6}
}

// MatchScore is the outcome of one comparison. A nil component means the signal
// was unavailable. CombinedScore is always within [0, 1].
type MatchScore struct {
	EmbeddingSimilarity *float64 `json:"embedding_similarity"`
	TFIDFSimilarity     *float64 `json:"tfidf_similarity"`
	CombinedScore       float64  `json:"combined_score"`
}

// Combine applies the degradation policy: both signals are blended by weight,
// a single signal is used as is, and no signal scores 0.
func Combine(embedding, tfidf *float64, w Weights) float64 {
	switch {
	case embedding != nil && tfidf != nil:
		return similarity.Clamp01(w.Embedding**embedding + w.TFIDF**tfidf)
	case embedding != nil:
		return similarity.Clamp01(*embedding)
	case tfidf != nil:
		return similarity.Clamp01(*tfidf)
	default:
		return 0
	}
}

// Option customizes a Matcher.
type Option func(*Matcher)

// WithMaxLogLength bounds text previews in debug logs.
func WithMaxLogLength(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.maxLogLen = n
		}
	}
}

// Matcher computes MatchScores. It is safe for concurrent use.
type Matcher struct {
	embedder  Embedder
	lexical   LexicalSource
	logger    *zap.Logger
	maxLogLen int
}

// NewMatcher creates a matcher. lexicalSource may be nil, in which case only
// the embedding signal is used.
func NewMatcher(embedder Embedder, lexicalSource LexicalSource, log *zap.Logger, opts ...Option) *Matcher {
	m := &Matcher{
		embedder:  embedder,
		lexical:   lexicalSource,
		logger:    logger.Component(log, "matcher"),
		maxLogLen: defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Score compares resume and job. Both texts are trimmed first; blank text is
// scored rather than rejected. Embedding failures are returned to the caller;
// the lexical artifact is optional.
func (m *Matcher) Score(ctx context.Context, resume, job string, w Weights) (*MatchScore, error) {
	resume = strings.TrimSpace(resume)
	job = strings.TrimSpace(job)

	m.logger.Debug("scoring match",
		zap.Int("resume_length", utf8.RuneCountInString(resume)),
		zap.Int("job_length", utf8.RuneCountInString(job)),
		zap.String("job_preview", utils.TruncateForLog(job, m.maxLogLen)),
	)

	score := &MatchScore{}

	emb, err := m.embeddingSimilarity(ctx, resume, job)
	if err != nil {
		return nil, err
	}
	score.EmbeddingSimilarity = emb
	score.TFIDFSimilarity = m.lexicalSimilarity(resume, job)
	score.CombinedScore = Combine(score.EmbeddingSimilarity, score.TFIDFSimilarity, w)

	m.logger.Debug("match scored",
		zap.Bool("embedding_signal", score.EmbeddingSimilarity != nil),
		zap.Bool("tfidf_signal", score.TFIDFSimilarity != nil),
		zap.Float64("combined_score", score.CombinedScore),
	)
	return score, nil
}

func (m *Matcher) embeddingSimilarity(ctx context.Context, resume, job string) (*float64, error) {
	if m.embedder == nil {
		return nil, nil
	}

	vectors, err := m.embedder.EmbedBatch(ctx, []string{resume, job})
	if err != nil {
		var initErr *domain.InitErr
		if errors.As(err, &initErr) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("embedding similarity: %w", err)
	}

	sim := similarity.Cosine(vectors[0], vectors[1])
	return &sim, nil
}

func (m *Matcher) lexicalSimilarity(resume, job string) *float64 {
	if m.lexical == nil {
		return nil
	}

	vectorizer, ok := m.lexical.Load().Get()
	if !ok {
		m.logger.Debug("tfidf signal unavailable: vectorizer artifact absent")
		return nil
	}

	sim := similarity.Cosine(lexical.Represent(vectorizer, resume), lexical.Represent(vectorizer, job))
	return &sim
}
