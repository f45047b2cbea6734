package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/skillmatch/internal/similarity"
)

func TestHashingBackendSelfSimilarity(t *testing.T) {
	backend := NewHashingBackend("hashing-v1", 128)

	texts := []string{
		"Senior Go engineer with Kubernetes and PostgreSQL",
		"frontend developer, React and TypeScript",
		"x",
	}
	vectors, err := backend.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, vec := range vectors {
		if len(vec) != 128 {
			t.Fatalf("expected 128 dimensions, got %d", len(vec))
		}
		if got := similarity.Cosine(vec, vec); got < 0.999999 {
			t.Fatalf("text %d: expected self similarity 1, got %f", i, got)
		}
	}
}

func TestHashingBackendIsDeterministic(t *testing.T) {
	a := NewHashingBackend("h", 256)
	b := NewHashingBackend("h", 256)

	va, _ := a.Embed(context.Background(), []string{"Go backend services"})
	vb, _ := b.Embed(context.Background(), []string{"go   BACKEND services"})

	if similarity.Cosine(va[0], vb[0]) < 0.999999 {
		t.Fatalf("expected identical vectors for equivalent text")
	}

	related, _ := a.Embed(context.Background(), []string{"backend services in Go", "watercolor painting classes"})
	if similarity.Cosine(va[0], related[0]) <= similarity.Cosine(va[0], related[1]) {
		t.Fatalf("expected overlapping text to be more similar")
	}
}

func TestHashingBackendStopWordsOnly(t *testing.T) {
	vectors, err := NewHashingBackend("h", 16).Embed(context.Background(), []string{"the and of"})
	if err != nil {
		t.Fatal(err)
	}
	if similarity.Norm(vectors[0]) != 0 {
		t.Fatalf("expected zero vector, got %v", vectors[0])
	}
}

type fakeEmbedResponse struct {
	resp *genai.EmbedContentResponse
	err  error
}

type fakeContentEmbedder struct {
	mu      sync.Mutex
	queue   []fakeEmbedResponse
	calls   int
	configs []*genai.EmbedContentConfig
	models  []string
}

func (f *fakeContentEmbedder) enqueue(resp *genai.EmbedContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeEmbedResponse{resp: resp, err: err})
}

func (f *fakeContentEmbedder) EmbedContent(_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.models = append(f.models, model)
	f.configs = append(f.configs, config)
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func geminiResponse(vectors ...[]float32) *genai.EmbedContentResponse {
	resp := &genai.EmbedContentResponse{}
	for _, v := range vectors {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: v})
	}
	return resp
}

func newFakeGemini(fake *fakeContentEmbedder, retries int) *GeminiBackend {
	return &GeminiBackend{
		models:     fake,
		model:      "gemini-embedding-001",
		dim:        2,
		maxRetries: retries,
		logger:     zap.NewNop(),
	}
}

func TestGeminiBackendRetriesOnTemporaryError(t *testing.T) {
	originalWait := waitFor
	waitFor = func(context.Context, time.Duration) error { return nil }
	defer func() { waitFor = originalWait }()

	fake := &fakeContentEmbedder{}
	fake.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	fake.enqueue(geminiResponse([]float32{1, 0}, []float32{0, 1}), nil)

	out, err := newFakeGemini(fake, 2).Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 2 || out[1][1] != 1 {
		t.Fatalf("unexpected vectors: %v", out)
	}
	if fake.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", fake.calls)
	}
	if got := fake.configs[0].OutputDimensionality; got == nil || *got != 2 {
		t.Fatalf("expected output dimensionality 2, got %v", got)
	}
	if fake.models[0] != "gemini-embedding-001" {
		t.Fatalf("unexpected model %q", fake.models[0])
	}
}

func TestGeminiBackendStopsAfterRetriesExhausted(t *testing.T) {
	originalWait := waitFor
	waitFor = func(context.Context, time.Duration) error { return nil }
	defer func() { waitFor = originalWait }()

	fake := &fakeContentEmbedder{}
	tempErr := genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}
	fake.enqueue(nil, tempErr)
	fake.enqueue(nil, tempErr)

	if _, err := newFakeGemini(fake, 2).Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if fake.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", fake.calls)
	}
}

func TestGeminiBackendDoesNotRetryClientErrors(t *testing.T) {
	fake := &fakeContentEmbedder{}
	fake.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	if _, err := newFakeGemini(fake, 3).Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error")
	}
	if fake.calls != 1 {
		t.Fatalf("expected single call, got %d", fake.calls)
	}
}

func TestGeminiBackendRejectsShortResponse(t *testing.T) {
	fake := &fakeContentEmbedder{}
	fake.enqueue(geminiResponse([]float32{1, 0}), nil)

	if _, err := newFakeGemini(fake, 1).Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error for missing embeddings")
	}
}

func TestOpenAIBackendOrdersByIndex(t *testing.T) {
	var request struct {
		Input      []string `json:"input"`
		Model      string   `json:"model"`
		Dimensions int      `json:"dimensions"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"model": "text-embedding-3-small",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0, 1]},
				{"object": "embedding", "index": 0, "embedding": [1, 0]}
			],
			"usage": {"prompt_tokens": 2, "total_tokens": 2}
		}`))
	}))
	defer server.Close()

	backend := NewOpenAIBackend("test-key", ProviderConfig{Provider: ProviderOpenAI, Dimensions: 2}, option.WithBaseURL(server.URL+"/v1/"))

	out, err := backend.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0][0] != 1 || out[1][1] != 1 {
		t.Fatalf("vectors not ordered by index: %v", out)
	}
	if request.Model != "text-embedding-3-small" || request.Dimensions != 2 {
		t.Fatalf("unexpected request: %+v", request)
	}
	if len(request.Input) != 2 || request.Input[0] != "first" {
		t.Fatalf("unexpected input: %v", request.Input)
	}
}
