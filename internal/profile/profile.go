// Package profile turns raw résumé text into a structured profile: contact
// details, skills and a bounded summary.
package profile

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/classifier"
	"github.com/spigell/skillmatch/internal/domain"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/skills"
)

const (
	DefaultSummaryLimit = 2000

	SourceClassifier = "classifier"
	SourceKeywords   = "keywords"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
)

// SkillClassifier extracts skills from text. An error means the strategy could
// not produce a result and the next one should be tried.
type SkillClassifier interface {
	Classify(ctx context.Context, text string) (domain.LabelSet, error)
}

// Contact holds the first email and phone found in the text.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Profile is derived from one document and is never persisted.
type Profile struct {
	Contact     Contact         `json:"contact"`
	Emails      []string        `json:"emails"`
	Phones      []string        `json:"phones"`
	Skills      domain.LabelSet `json:"skills"`
	SkillSource string          `json:"skill_source"`
	Summary     string          `json:"summary"`
	WordCount   int             `json:"word_count"`
}

// Option customizes a Builder.
type Option func(*Builder)

// WithSummaryLimit sets the summary length in characters.
func WithSummaryLimit(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.summaryLimit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// Builder assembles profiles. Skills come from the primary classifier and, when
// it fails, from the fallback.
type Builder struct {
	primary      SkillClassifier
	fallback     SkillClassifier
	summaryLimit int
	logger       *zap.Logger
}

// NewBuilder creates a builder. A nil primary means the fallback is always
// used; a nil fallback means the built-in keyword dictionary.
func NewBuilder(primary, fallback SkillClassifier, opts ...Option) *Builder {
	b := &Builder{
		primary:      primary,
		fallback:     fallback,
		summaryLimit: DefaultSummaryLimit,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.fallback == nil {
		b.fallback = skills.Default()
	}
	b.logger = logger.Component(b.logger, "profile")
	return b
}

// Build never fails: missing contacts are empty strings and skills always come
// from one of the two strategies.
func (b *Builder) Build(ctx context.Context, text string) *Profile {
	text = strings.TrimSpace(text)

	emails := uniqueMatches(emailRe, text)
	phones := uniqueMatches(phoneRe, text)

	p := &Profile{
		Emails:    emails,
		Phones:    phones,
		Summary:   truncate(text, b.summaryLimit),
		WordCount: len(strings.Fields(text)),
	}
	if len(emails) > 0 {
		p.Contact.Email = emails[0]
	}
	if len(phones) > 0 {
		p.Contact.Phone = phones[0]
	}

	p.Skills, p.SkillSource = b.skills(ctx, text)
	return p
}

func (b *Builder) skills(ctx context.Context, text string) (domain.LabelSet, string) {
	if b.primary != nil {
		labels, err := b.primary.Classify(ctx, text)
		if err == nil {
			return labels, SourceClassifier
		}

		switch {
		case errors.Is(err, classifier.ErrUnavailable), errors.Is(err, classifier.ErrNoPrediction):
			b.logger.Debug("classifier gave no skills, using keyword scan", zap.Error(err))
		default:
			b.logger.Warn("classifier failed, using keyword scan", zap.Error(err))
		}
	}

	labels, err := b.fallback.Classify(ctx, text)
	if err != nil {
		b.logger.Warn("keyword scan failed", zap.Error(err))
		return domain.LabelSet{}, SourceKeywords
	}
	if labels == nil {
		labels = domain.LabelSet{}
	}
	return labels, SourceKeywords
}

// uniqueMatches returns every match in order of first appearance.
func uniqueMatches(re *regexp.Regexp, text string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, m := range re.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

func truncate(text string, limit int) string {
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}
