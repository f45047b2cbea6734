package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIBackend embeds text with the OpenAI embeddings endpoint. Retries are
// delegated to the SDK.
type OpenAIBackend struct {
	client openai.Client
	model  string
	dim    int
}

// NewOpenAIBackend creates the backend. Extra request options (base URL,
// HTTP client) are appended after the defaults.
func NewOpenAIBackend(apiKey string, cfg ProviderConfig, opts ...option.RequestOption) *OpenAIBackend {
	cfg = cfg.WithDefaults()
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(max(cfg.MaxRetries-1, 0)),
	}
	return &OpenAIBackend{
		client: openai.NewClient(append(base, opts...)...),
		model:  cfg.Model,
		dim:    cfg.Dimensions,
	}
}

func (o *OpenAIBackend) Dimension() int { return o.dim }

func (o *OpenAIBackend) Model() string { return o.model }

func (o *OpenAIBackend) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      o.model,
		Dimensions: openai.Int(int64(o.dim)),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai api returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, item := range resp.Data {
		idx := int(item.Index)
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			return nil, fmt.Errorf("openai api returned unexpected embedding index %d", item.Index)
		}
		vec := make([]float32, len(item.Embedding))
		for i, x := range item.Embedding {
			vec[i] = float32(x)
		}
		out[idx] = vec
	}
	return out, nil
}
