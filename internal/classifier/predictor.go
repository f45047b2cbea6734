package classifier

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/artifact"
	"github.com/spigell/skillmatch/internal/domain"
	"github.com/spigell/skillmatch/internal/lexical"
)

// LabelScore is one label with its predicted probability.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Predictor maps text to labels using one trained bundle.
type Predictor struct {
	RunID      string
	vectorizer *lexical.Vectorizer
	binarizer  *Binarizer
	model      *Model
}

// NewPredictor checks that the three artifacts belong together.
func NewPredictor(v *lexical.Vectorizer, b *Binarizer, m *Model) (*Predictor, error) {
	if v == nil || b == nil || m == nil {
		return nil, errors.New("incomplete artifact bundle")
	}
	if v.RunID != m.RunID || b.RunID != m.RunID {
		return nil, fmt.Errorf("artifacts come from different training runs: vectorizer %q, binarizer %q, classifier %q", v.RunID, b.RunID, m.RunID)
	}
	if m.Features != v.Dimension() {
		return nil, fmt.Errorf("classifier expects %d features, vectorizer has %d", m.Features, v.Dimension())
	}
	if m.Labels() != len(b.Classes) || len(m.Weights) != len(b.Classes) {
		return nil, fmt.Errorf("classifier has %d label columns, binarizer has %d classes", m.Labels(), len(b.Classes))
	}
	for j, w := range m.Weights {
		if len(w) != m.Features {
			return nil, fmt.Errorf("label column %d has %d weights, want %d", j, len(w), m.Features)
		}
	}
	return &Predictor{RunID: m.RunID, vectorizer: v, binarizer: b, model: m}, nil
}

// Classes returns the label vocabulary.
func (p *Predictor) Classes() []string {
	return slices.Clone(p.binarizer.Classes)
}

// Predict returns every label whose probability reaches the threshold.
func (p *Predictor) Predict(text string) domain.LabelSet {
	return p.binarizer.Inverse(p.model.Predict(p.vectorizer.TransformSparse(text)))
}

// PredictTop returns the k most probable labels, highest first. Equal scores
// keep vocabulary order.
func (p *Predictor) PredictTop(text string, k int) []LabelScore {
	probs := p.model.Probabilities(p.vectorizer.TransformSparse(text))
	out := make([]LabelScore, len(probs))
	for j, prob := range probs {
		out[j] = LabelScore{Label: p.binarizer.Classes[j], Score: prob}
	}
	slices.SortStableFunc(out, func(a, b LabelScore) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if k >= 0 && k < len(out) {
		out = out[:k]
	}
	return out
}

// Classify is Predict with an explicit failure when nothing is predicted.
func (p *Predictor) Classify(_ context.Context, text string) (domain.LabelSet, error) {
	labels := p.Predict(text)
	if labels.Len() == 0 {
		return nil, ErrNoPrediction
	}
	return labels, nil
}

// Store loads the trained bundle on first use.
type Store struct {
	paths Paths
	lazy  *artifact.Lazy[*Predictor]
}

// NewStore creates a store reading the bundle from paths.
func NewStore(paths Paths, logger *zap.Logger) *Store {
	return &Store{
		paths: paths,
		lazy: artifact.NewLazy("classifier", func() (*Predictor, error) {
			return ReadBundle(paths)
		}, logger),
	}
}

// Load returns the predictor or Absent when any artifact is missing, corrupt
// or from a different run.
func (s *Store) Load() artifact.Option[*Predictor] {
	return s.lazy.Load()
}

// Reset forgets a cached bundle so that a fresh training run is picked up.
func (s *Store) Reset() {
	s.lazy.Reset()
}

// Classify predicts labels with the loaded bundle. It returns ErrUnavailable
// when the bundle cannot be loaded.
func (s *Store) Classify(ctx context.Context, text string) (domain.LabelSet, error) {
	loaded := s.Load()
	p, ok := loaded.Get()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, loaded.Reason())
	}
	return p.Classify(ctx, text)
}

// ReadBundle reads and cross-checks the three artifacts.
func ReadBundle(paths Paths) (*Predictor, error) {
	v, err := lexical.ReadFile(paths.Vectorizer)
	if err != nil {
		return nil, err
	}
	b, err := artifact.ReadJSON[*Binarizer](paths.Binarizer)
	if err != nil {
		return nil, err
	}
	m, err := artifact.ReadJSON[*Model](paths.Classifier)
	if err != nil {
		return nil, err
	}
	return NewPredictor(v, b, m)
}

// Paths returns the artifact locations.
func (s *Store) Paths() Paths {
	return s.paths
}
