package filtering

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/documents"
	"github.com/spigell/skillmatch/internal/lexical"
)

type emptyTextFilter struct {
	minWords int
	logger   *zap.Logger
}

// NewEmptyText creates a filter that removes candidates with fewer than
// minWords words. Blank documents are always removed.
func NewEmptyText(minWords int, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &emptyTextFilter{minWords: max(minWords, 1), logger: logger}
}

func (f *emptyTextFilter) Name() string { return "empty_text" }

func (f *emptyTextFilter) Disable(string) {}

func (f *emptyTextFilter) IsEnabled() bool { return true }

func (f *emptyTextFilter) Validate() error { return nil }

func (f *emptyTextFilter) Apply(_ context.Context, docs *documents.Documents) (*documents.Documents, Step, error) {
	initial := docs.Len()
	excluded := docs.ExcludeFunc(func(doc *documents.Document) bool {
		return len(strings.Fields(doc.Text)) < f.minWords
	})
	if len(excluded) > 0 {
		f.logger.Info("excluding documents without enough text",
			zap.Strings("excluded_documents", excluded),
			zap.Int("documents_left", docs.Len()),
		)
	}

	return docs, Step{Initial: initial, Dropped: len(excluded), Left: docs.Len()}, nil
}

func (f *emptyTextFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"min_words": strconv.Itoa(f.minWords),
	}}
}

type excludedIDsFilter struct {
	ids    []string
	logger *zap.Logger
}

// NewExcludedIDs creates a filter that removes candidates by ID.
func NewExcludedIDs(ids []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &excludedIDsFilter{ids: ids, logger: logger}
}

func (f *excludedIDsFilter) Name() string { return "excluded_ids" }

func (f *excludedIDsFilter) Disable(string) {}

func (f *excludedIDsFilter) IsEnabled() bool { return true }

func (f *excludedIDsFilter) Validate() error { return nil }

func (f *excludedIDsFilter) Apply(_ context.Context, docs *documents.Documents) (*documents.Documents, Step, error) {
	initial := docs.Len()
	if len(f.ids) == 0 {
		return docs, Step{Initial: initial, Dropped: 0, Left: docs.Len()}, nil
	}

	excluded := docs.Exclude(f.ids)
	if len(excluded) > 0 {
		f.logger.Info("excluding documents by id",
			zap.Strings("excluded_documents", excluded),
			zap.Int("documents_left", docs.Len()),
		)
	}

	return docs, Step{Initial: initial, Dropped: len(excluded), Left: docs.Len()}, nil
}

func (f *excludedIDsFilter) Status() Status {
	details := map[string]string{}
	if len(f.ids) > 0 {
		details["ids"] = strings.Join(f.ids, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

// DuplicatesName names the duplicate text filter for DisableByName.
const DuplicatesName = "duplicates"

type duplicatesFilter struct {
	disabled bool
	reason   string
	logger   *zap.Logger
}

// NewDuplicates creates a filter that keeps only the first of several
// candidates with the same normalized text.
func NewDuplicates(logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &duplicatesFilter{logger: logger}
}

func (f *duplicatesFilter) Name() string { return DuplicatesName }

func (f *duplicatesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *duplicatesFilter) IsEnabled() bool { return !f.disabled }

func (f *duplicatesFilter) Validate() error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, docs *documents.Documents) (*documents.Documents, Step, error) {
	initial := docs.Len()
	seen := make(map[string]struct{}, initial)
	excluded := docs.ExcludeFunc(func(doc *documents.Document) bool {
		key := strings.Join(strings.Fields(strings.ToLower(lexical.Normalize(doc.Text))), " ")
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
		return false
	})
	if len(excluded) > 0 {
		f.logger.Info("excluding duplicated documents",
			zap.Strings("excluded_documents", excluded),
			zap.Int("documents_left", docs.Len()),
		)
	}

	return docs, Step{Initial: initial, Dropped: len(excluded), Left: docs.Len()}, nil
}

func (f *duplicatesFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
