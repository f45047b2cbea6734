package matching

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/skillmatch/internal/artifact"
	"github.com/spigell/skillmatch/internal/domain"
	"github.com/spigell/skillmatch/internal/embedding"
	"github.com/spigell/skillmatch/internal/lexical"
)

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := s.vectors[text]
		if !ok {
			vec = []float32{0, 0}
		}
		out[i] = vec
	}
	return out, nil
}

type stubLexical struct {
	vectorizer *lexical.Vectorizer
}

func (s stubLexical) Load() artifact.Option[*lexical.Vectorizer] {
	if s.vectorizer == nil {
		return artifact.Absent[*lexical.Vectorizer](errors.New("not trained"))
	}
	return artifact.Loaded(s.vectorizer)
}

func trainedVectorizer(t *testing.T) *lexical.Vectorizer {
	t.Helper()
	v := lexical.NewVectorizer(lexical.Options{NgramMax: 2})
	if err := v.Fit([]string{"backend engineer with SQL", "frontend developer with React"}); err != nil {
		t.Fatal(err)
	}
	return v
}

func hashingProvider() *embedding.Provider {
	return embedding.NewProvider(embedding.ProviderConfig{Provider: embedding.ProviderHashing, Dimensions: 64}, nil, zap.NewNop())
}

func TestCombine(t *testing.T) {
	f := func(x float64) *float64 { return &x }
	w := DefaultWeights()

	tests := []struct {
		name       string
		emb, tfidf *float64
		weights    Weights
		expect     float64
	}{
		{name: "both signals are weighted", emb: f(0.5), tfidf: f(0.25), weights: w, expect: 0.6*0.5 + 0.4*0.25},
		{name: "embedding only is not reweighted", emb: f(0.7), weights: w, expect: 0.7},
		{name: "tfidf only is not reweighted", tfidf: f(0.3), weights: w, expect: 0.3},
		{name: "no signal", weights: w, expect: 0},
		{name: "negative is clamped", emb: f(-0.8), tfidf: f(-0.2), weights: w, expect: 0},
		{name: "single negative is clamped", emb: f(-0.4), weights: w, expect: 0},
		{name: "weights above one are clamped", emb: f(1), tfidf: f(1), weights: Weights{TFIDF: 2, Embedding: 2}, expect: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combine(tt.emb, tt.tfidf, tt.weights)
			if diff := got - tt.expect; diff > 1e-12 || diff < -1e-12 {
				t.Fatalf("expected %f, got %f", tt.expect, got)
			}
		})
	}
}

func TestScoreWithoutLexicalEqualsEmbedding(t *testing.T) {
	text := "Go engineer building backend services with PostgreSQL"
	matcher := NewMatcher(hashingProvider(), stubLexical{}, zap.NewNop())

	score, err := matcher.Score(context.Background(), text, text, DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.TFIDFSimilarity != nil {
		t.Fatalf("expected tfidf signal to be absent")
	}
	if score.EmbeddingSimilarity == nil {
		t.Fatalf("expected embedding signal")
	}
	if score.CombinedScore != *score.EmbeddingSimilarity {
		t.Fatalf("expected combined %f to equal embedding %f", score.CombinedScore, *score.EmbeddingSimilarity)
	}
}

func TestScoreEmptyTexts(t *testing.T) {
	matcher := NewMatcher(hashingProvider(), stubLexical{vectorizer: trainedVectorizer(t)}, zap.NewNop())

	score, err := matcher.Score(context.Background(), "", "   ", DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.CombinedScore != 0 {
		t.Fatalf("expected 0, got %f", score.CombinedScore)
	}
}

func TestScoreBlendsBothSignals(t *testing.T) {
	resume := "backend engineer with SQL"
	job := "SQL backend role"
	embedder := &stubEmbedder{vectors: map[string][]float32{
		resume: {1, 0},
		job:    {1, 1},
	}}
	matcher := NewMatcher(embedder, stubLexical{vectorizer: trainedVectorizer(t)}, zap.NewNop())

	score, err := matcher.Score(context.Background(), "  "+resume+"\n", job, DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.EmbeddingSimilarity == nil || score.TFIDFSimilarity == nil {
		t.Fatalf("expected both signals, got %+v", score)
	}
	if *score.TFIDFSimilarity <= 0 {
		t.Fatalf("expected positive lexical overlap, got %f", *score.TFIDFSimilarity)
	}

	want := 0.6**score.EmbeddingSimilarity + 0.4**score.TFIDFSimilarity
	if diff := score.CombinedScore - want; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("expected %f, got %f", want, score.CombinedScore)
	}
}

func TestScorePropagatesInitErr(t *testing.T) {
	embedder := &stubEmbedder{err: domain.NewInitErr(errors.New("bad model"))}
	matcher := NewMatcher(embedder, stubLexical{vectorizer: trainedVectorizer(t)}, zap.NewNop())

	_, err := matcher.Score(context.Background(), "a", "b", DefaultWeights())
	var initErr *domain.InitErr
	if !errors.As(err, &initErr) {
		t.Fatalf("expected InitErr, got %v", err)
	}
}

func TestScorePropagatesEmbeddingFailure(t *testing.T) {
	upstream := errors.New("503 from upstream")
	embedder := &stubEmbedder{err: upstream}
	matcher := NewMatcher(embedder, stubLexical{vectorizer: trainedVectorizer(t)}, zap.NewNop())

	score, err := matcher.Score(context.Background(), "backend engineer with SQL", "SQL backend role", DefaultWeights())
	if !errors.Is(err, upstream) {
		t.Fatalf("expected the embedding error, got %v", err)
	}
	if score != nil {
		t.Fatalf("expected no score on failure, got %+v", score)
	}
}

func TestScoreWithoutAnySignal(t *testing.T) {
	matcher := NewMatcher(nil, nil, zap.NewNop())

	score, err := matcher.Score(context.Background(), "a", "b", DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.CombinedScore != 0 || score.EmbeddingSimilarity != nil || score.TFIDFSimilarity != nil {
		t.Fatalf("expected empty score, got %+v", score)
	}
}

func TestScoreLogsAbsentVectorizer(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	matcher := NewMatcher(hashingProvider(), stubLexical{}, zap.New(core))

	score, err := matcher.Score(context.Background(), "backend engineer", "backend engineer", DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.TFIDFSimilarity != nil {
		t.Fatalf("expected no lexical signal, got %v", *score.TFIDFSimilarity)
	}
	if observed.FilterMessage("tfidf signal unavailable: vectorizer artifact absent").Len() != 1 {
		t.Fatalf("expected a debug entry about the absent vectorizer")
	}
}
