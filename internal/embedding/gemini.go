package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/skillmatch/internal/utils"
)

const retryBaseDelay = time.Second

var waitFor = utils.WaitFor

type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GeminiBackend embeds text with the Gemini embedding API.
type GeminiBackend struct {
	models     contentEmbedder
	model      string
	dim        int
	maxRetries int
	logger     *zap.Logger
}

// NewGeminiBackend creates a client for the Gemini API backend.
func NewGeminiBackend(ctx context.Context, apiKey string, cfg ProviderConfig, logger *zap.Logger) (*GeminiBackend, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiBackend{
		models:     client.Models,
		model:      cfg.Model,
		dim:        cfg.Dimensions,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}, nil
}

func (g *GeminiBackend) Dimension() int { return g.dim }

func (g *GeminiBackend) Model() string { return g.model }

func (g *GeminiBackend) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}
	config := &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(g.dim)),
	}

	attempts := max(g.maxRetries, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := g.models.EmbedContent(ctx, g.model, contents, config)
		if err == nil {
			return collectGemini(resp, len(texts))
		}
		lastErr = err

		if !isTemporary(err) || attempt == attempts {
			break
		}

		delay := utils.Backoff(retryBaseDelay, attempt)
		g.logger.Warn("gemini embed failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := waitFor(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("gemini embed content: %w", lastErr)
}

func collectGemini(resp *genai.EmbedContentResponse, want int) ([][]float32, error) {
	if resp == nil || len(resp.Embeddings) != want {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("gemini api returned %d embeddings for %d texts", got, want)
	}

	out := make([][]float32, want)
	for i, e := range resp.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("gemini api returned empty embedding at %d", i)
		}
		out[i] = e.Values
	}
	return out, nil
}

func isTemporary(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}
