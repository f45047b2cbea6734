// Package embedding turns text into dense semantic vectors. A Provider owns one
// lazily initialized Backend per process and shares it between all callers.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/secrets"
)

const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderHashing = "hashing"

	defaultDimensions   = 384
	defaultMaxLogLength = 200
	defaultCacheSize    = 1024
)

var defaultModels = map[string]string{
	ProviderGemini:  "gemini-embedding-001",
	ProviderOpenAI:  "text-embedding-3-small",
	ProviderHashing: "hashing-v1",
}

var apiKeyEnv = map[string]string{
	ProviderGemini: "GEMINI_API_KEY",
	ProviderOpenAI: "OPENAI_API_KEY",
}

// Backend produces vectors for a batch of non-empty texts. Implementations must
// return exactly one vector of Dimension() entries per input, in input order.
type Backend interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Model() string
}

// BackendFactory creates the backend. The Provider calls it at most once.
type BackendFactory func(ctx context.Context) (Backend, error)

// ProviderConfig configures the embedding layer.
type ProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	Model        string `mapstructure:"model"`
	Dimensions   int    `mapstructure:"dimensions"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	MaxRetries   int    `mapstructure:"max-retries"`
	CacheSize    int    `mapstructure:"cache-size"`
	MaxLogLength int    `mapstructure:"max-log-length"`
	BatchSize    int    `mapstructure:"batch-size"`
}

// WithDefaults fills unset fields.
func (c ProviderConfig) WithDefaults() ProviderConfig {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderHashing
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Dimensions <= 0 {
		c.Dimensions = defaultDimensions
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 1
	}
	if c.CacheSize == 0 {
		c.CacheSize = defaultCacheSize
	}
	if c.MaxLogLength <= 0 {
		c.MaxLogLength = defaultMaxLogLength
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize(c.Provider)
	}
	return c
}

func defaultBatchSize(provider string) int {
	switch provider {
	case ProviderGemini:
		return 100
	case ProviderOpenAI:
		return 512
	default:
		return 256
	}
}

// NewBackendFactory returns the factory for the configured provider. Errors
// resolving credentials or building clients surface from the factory, so they
// reach the caller of the first embedding request.
func NewBackendFactory(cfg ProviderConfig, logger *zap.Logger) BackendFactory {
	cfg = cfg.WithDefaults()
	return func(ctx context.Context) (Backend, error) {
		switch cfg.Provider {
		case ProviderHashing:
			return NewHashingBackend(cfg.Model, cfg.Dimensions), nil
		case ProviderGemini:
			key, err := loadAPIKey(cfg)
			if err != nil {
				return nil, err
			}
			return NewGeminiBackend(ctx, key, cfg, logger)
		case ProviderOpenAI:
			key, err := loadAPIKey(cfg)
			if err != nil {
				return nil, err
			}
			return NewOpenAIBackend(key, cfg), nil
		default:
			return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
		}
	}
}

func loadAPIKey(cfg ProviderConfig) (string, error) {
	return secrets.Load(secrets.Source{
		Name: cfg.Provider + " api key",
		File: cfg.APIKeyFile,
		Env:  apiKeyEnv[cfg.Provider],
	})
}
