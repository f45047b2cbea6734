package classifier

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/artifact"
	"github.com/spigell/skillmatch/internal/domain"
	"github.com/spigell/skillmatch/internal/lexical"
	"github.com/spigell/skillmatch/internal/logger"
)

const (
	ClassifierFileName = "multilabel_logreg.json"
	BinarizerFileName  = "mlb.json"

	defaultTestSize       = 0.2
	defaultSeed           = 42
	defaultMaxIter        = 1000
	defaultTolerance      = 1e-4
	defaultRegularization = 1.0
	defaultThreshold      = 0.5
)

// TrainerConfig holds the training knobs.
type TrainerConfig struct {
	TestSize       float64         `mapstructure:"test-size"`
	Seed           uint64          `mapstructure:"seed"`
	MaxIter        int             `mapstructure:"max-iter"`
	Tolerance      float64         `mapstructure:"tolerance"`
	Regularization float64         `mapstructure:"regularization"`
	Threshold      float64         `mapstructure:"threshold"`
	Vectorizer     lexical.Options `mapstructure:",squash"`
}

// DefaultTrainerConfig returns the configuration used when nothing is set.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		TestSize:       defaultTestSize,
		Seed:           defaultSeed,
		MaxIter:        defaultMaxIter,
		Tolerance:      defaultTolerance,
		Regularization: defaultRegularization,
		Threshold:      defaultThreshold,
		Vectorizer: lexical.Options{
			MaxFeatures: 20000,
			NgramMax:    2,
			MinDF:       1,
		},
	}
}

func (c TrainerConfig) withDefaults() TrainerConfig {
	if c.TestSize < 0 || c.TestSize >= 1 {
		c.TestSize = defaultTestSize
	}
	if c.MaxIter <= 0 {
		c.MaxIter = defaultMaxIter
	}
	if c.Tolerance <= 0 {
		c.Tolerance = defaultTolerance
	}
	if c.Regularization <= 0 {
		c.Regularization = defaultRegularization
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		c.Threshold = defaultThreshold
	}
	return c
}

// Paths are the canonical artifact locations of one training bundle.
type Paths struct {
	Vectorizer string `json:"vectorizer"`
	Classifier string `json:"classifier"`
	Binarizer  string `json:"binarizer"`
}

// DefaultPaths places the bundle inside dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Vectorizer: filepath.Join(dir, lexical.DefaultFileName),
		Classifier: filepath.Join(dir, ClassifierFileName),
		Binarizer:  filepath.Join(dir, BinarizerFileName),
	}
}

// All lists every path of the bundle.
func (p Paths) All() []string {
	return []string{p.Vectorizer, p.Classifier, p.Binarizer}
}

// Report describes a finished training run.
type Report struct {
	RunID     string  `json:"run_id"`
	Paths     Paths   `json:"paths"`
	MicroF1   float64 `json:"f1_micro"`
	MacroF1   float64 `json:"f1_macro"`
	Labels    int     `json:"labels"`
	Features  int     `json:"features"`
	TrainSize int     `json:"train_size"`
	TestSize  int     `json:"test_size"`
}

// Trainer fits the vectorizer, binarizer and classifier bundle. Runs against the
// same paths must be serialized by the caller.
type Trainer struct {
	cfg    TrainerConfig
	paths  Paths
	logger *zap.Logger
}

// NewTrainer creates a trainer writing its bundle to paths.
func NewTrainer(cfg TrainerConfig, paths Paths, log *zap.Logger) *Trainer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Trainer{
		cfg:    cfg.withDefaults(),
		paths:  paths,
		logger: logger.Component(log, "trainer"),
	}
}

// TrainFile loads a CSV dataset and trains on it.
func (t *Trainer) TrainFile(ctx context.Context, path string) (*Report, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	return t.Train(ctx, ds)
}

// Train fits a new bundle on ds, evaluates it on the held-out partition and
// publishes all three artifacts together.
func (t *Trainer) Train(ctx context.Context, ds *Dataset) (*Report, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, domain.NewValidationErr("dataset has no examples")
	}

	started := time.Now()
	runID := uuid.NewString()
	log := t.logger.With(zap.String(logger.FieldRunID, runID))

	binarizer := FitBinarizer(ds.Labels)
	if len(binarizer.Classes) == 0 {
		return nil, domain.NewValidationErr("dataset has no labels")
	}
	binarizer.RunID = runID
	y := binarizer.Transform(ds.Labels)

	trainIdx, testIdx := Split(ds.Len(), t.cfg.TestSize, t.cfg.Seed)
	log.Info("training started",
		zap.Int("examples", ds.Len()),
		zap.Int("labels", len(binarizer.Classes)),
		zap.Int("train_size", len(trainIdx)),
		zap.Int("test_size", len(testIdx)),
	)

	trainTexts := make([]string, len(trainIdx))
	trainY := make([][]bool, len(trainIdx))
	for i, idx := range trainIdx {
		trainTexts[i] = ds.Texts[idx]
		trainY[i] = y[idx]
	}

	vectorizer := lexical.NewVectorizer(t.cfg.Vectorizer)
	if err := vectorizer.Fit(trainTexts); err != nil {
		if errors.Is(err, lexical.ErrEmptyVocabulary) {
			return nil, domain.NewValidationErr(fmt.Sprintf("training texts produce no terms: %v", err))
		}
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	vectorizer.RunID = runID

	trainX := make([]lexical.SparseVector, len(trainTexts))
	for i, text := range trainTexts {
		trainX[i] = vectorizer.TransformSparse(text)
	}

	model, iters, err := fitOneVsRest(ctx, trainX, trainY, vectorizer.Dimension(), len(binarizer.Classes), LogRegConfig{
		C:         t.cfg.Regularization,
		MaxIter:   t.cfg.MaxIter,
		Tolerance: t.cfg.Tolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}
	model.RunID = runID
	model.Threshold = t.cfg.Threshold

	for j, n := range iters {
		if n >= t.cfg.MaxIter {
			log.Debug("label did not converge", zap.String("label", binarizer.Classes[j]), zap.Int("iterations", n))
		}
	}

	truth := make([][]bool, len(testIdx))
	pred := make([][]bool, len(testIdx))
	for i, idx := range testIdx {
		truth[i] = y[idx]
		pred[i] = model.Predict(vectorizer.TransformSparse(ds.Texts[idx]))
	}
	metrics := Evaluate(truth, pred)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := artifact.WriteFiles(
		artifact.JSONFile(t.paths.Vectorizer, vectorizer),
		artifact.JSONFile(t.paths.Classifier, model),
		artifact.JSONFile(t.paths.Binarizer, binarizer),
	); err != nil {
		return nil, fmt.Errorf("persist artifacts: %w", err)
	}

	report := &Report{
		RunID:     runID,
		Paths:     t.paths,
		MicroF1:   metrics.MicroF1,
		MacroF1:   metrics.MacroF1,
		Labels:    len(binarizer.Classes),
		Features:  vectorizer.Dimension(),
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
	}

	log.Info("training finished",
		zap.Float64("f1_micro", report.MicroF1),
		zap.Float64("f1_macro", report.MacroF1),
		zap.Int("features", report.Features),
		zap.Duration("took", time.Since(started)),
	)
	return report, nil
}
