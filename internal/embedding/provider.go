package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/domain"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/utils"
)

type initState struct {
	backend Backend
	err     error
}

// Provider converts text into vectors. It is created once by the application
// root and shared; the backend is built on first use, exactly once, and every
// caller blocks until that initialization finishes. A failed initialization is
// remembered and returned as *domain.InitErr to all later callers.
type Provider struct {
	cfg     ProviderConfig
	factory BackendFactory
	logger  *zap.Logger
	cache   *memCache

	mu    sync.Mutex
	state atomic.Pointer[initState]
}

// NewProvider creates a provider. Nothing is initialized until the first call.
func NewProvider(cfg ProviderConfig, factory BackendFactory, log *zap.Logger) *Provider {
	cfg = cfg.WithDefaults()
	if factory == nil {
		factory = NewBackendFactory(cfg, log)
	}
	return &Provider{
		cfg:     cfg,
		factory: factory,
		logger:  logger.WithCommonFields(log, cfg.Provider, cfg.Model),
		cache:   newMemCache(cfg.CacheSize),
	}
}

// Model returns the configured model identifier.
func (p *Provider) Model() string {
	return p.cfg.Model
}

// Dimension initializes the backend if needed and returns its vector size.
func (p *Provider) Dimension(ctx context.Context) (int, error) {
	backend, err := p.backend(ctx)
	if err != nil {
		return 0, err
	}
	return backend.Dimension(), nil
}

// Embed returns the vector for text. Blank text yields the zero vector without
// calling the model.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts preserving order. An empty input returns an empty
// result without initializing the backend.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	backend, err := p.backend(ctx)
	if err != nil {
		return nil, err
	}
	dim := backend.Dimension()

	out := make([][]float32, len(texts))
	var (
		pending []string
		slots   []int
	)
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			out[i] = make([]float32, dim)
			continue
		}
		if vec, ok := p.cache.get(cacheKey(p.cfg.Model, text)); ok {
			out[i] = vec
			continue
		}
		pending = append(pending, text)
		slots = append(slots, i)
	}

	for start := 0; start < len(pending); start += p.cfg.BatchSize {
		end := min(start+p.cfg.BatchSize, len(pending))
		chunk := pending[start:end]

		p.logger.Debug("embedding request",
			zap.Int("texts", len(chunk)),
			zap.Int("first_length", utf8.RuneCountInString(chunk[0])),
			zap.String("first_preview", utils.TruncateForLog(chunk[0], p.cfg.MaxLogLength)),
		)

		vectors, err := backend.Embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed %d texts: %w", len(chunk), err)
		}
		if len(vectors) != len(chunk) {
			return nil, fmt.Errorf("backend returned %d vectors for %d texts", len(vectors), len(chunk))
		}

		for j, vec := range vectors {
			if len(vec) != dim {
				return nil, fmt.Errorf("backend returned %d-dimensional vector, expected %d", len(vec), dim)
			}
			p.cache.put(cacheKey(p.cfg.Model, chunk[j]), vec)
			out[slots[start+j]] = vec
		}
	}

	return out, nil
}

func (p *Provider) backend(ctx context.Context) (Backend, error) {
	if s := p.state.Load(); s != nil {
		return s.backend, s.err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if s := p.state.Load(); s != nil {
		return s.backend, s.err
	}

	backend, err := p.factory(ctx)
	if err == nil && backend == nil {
		err = errors.New("backend factory returned nil backend")
	}
	if err == nil && backend.Dimension() <= 0 {
		err = fmt.Errorf("backend reports invalid dimension %d", backend.Dimension())
	}
	if err != nil {
		// A cancelled caller says nothing about the configuration; let the next one try.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		initErr := domain.NewInitErr(err)
		p.state.Store(&initState{err: initErr})
		p.logger.Error("embedding model initialization failed", zap.Error(err))
		return nil, initErr
	}

	p.state.Store(&initState{backend: backend})
	p.logger.Info("embedding model initialized", zap.Int("dimension", backend.Dimension()))
	return backend, nil
}
