package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/skillmatch/internal/documents"
)

func candidates() *documents.Documents {
	return &documents.Documents{Items: []*documents.Document{
		{ID: "1", Text: "Go backend engineer"},
		{ID: "2", Text: "   "},
		{ID: "3", Text: "go   BACKEND engineer"},
		{ID: "4", Text: "React frontend developer"},
		{ID: "5", Text: "SQL analyst"},
	}}
}

func TestRunFilters(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	excludeFile := filepath.Join(dir, "exclude.json")
	excluded := (&documents.Documents{Items: []*documents.Document{{ID: "5"}}}).ToExcluded("applied")
	if err := excluded.ToFile(excludeFile); err != nil {
		t.Fatal(err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	f := New([]Filter{
		NewEmptyText(1, nil),
		NewDuplicates(nil),
		NewExcludedIDs([]string{"4"}, nil),
		NewExcludeFile(excludeFile, nil),
	}, zap.New(core))

	got, err := f.RunFilters(context.Background(), candidates())
	if err != nil {
		t.Fatalf("run filters: %v", err)
	}
	if !slices.Equal(got.IDs(), []string{"1"}) {
		t.Fatalf("unexpected ids left: %v", got.IDs())
	}
	if n := logs.FilterMessage("filter step").Len(); n != 4 {
		t.Fatalf("expected 4 step entries, got %d", n)
	}
}

func TestDisabledFilterIsSkipped(t *testing.T) {
	t.Parallel()

	f := New([]Filter{NewDuplicates(nil)}, nil)
	f.DisableByName("duplicates", "requested")

	got, err := f.RunFilters(context.Background(), candidates())
	if err != nil {
		t.Fatalf("run filters: %v", err)
	}
	if got.Len() != 5 {
		t.Fatalf("expected all candidates, got %d", got.Len())
	}

	statuses := f.Describe()
	if len(statuses) != 1 || statuses[0].Enabled || statuses[0].Reason != "requested" {
		t.Fatalf("unexpected status: %+v", statuses)
	}
}

func TestEmptyTextMinWords(t *testing.T) {
	t.Parallel()

	docs := candidates()
	_, step, err := NewEmptyText(3, nil).Apply(context.Background(), docs)
	if err != nil {
		t.Fatal(err)
	}
	if step.Initial != 5 || step.Dropped != 2 || step.Left != 3 {
		t.Fatalf("unexpected step: %+v", step)
	}
}

type failingFilter struct{ validateErr, applyErr error }

func (f *failingFilter) Name() string    { return "failing" }
func (f *failingFilter) Disable(string)  {}
func (f *failingFilter) IsEnabled() bool { return true }
func (f *failingFilter) Validate() error { return f.validateErr }
func (f *failingFilter) Apply(_ context.Context, d *documents.Documents) (*documents.Documents, Step, error) {
	return d, Step{}, f.applyErr
}

func TestRunFiltersErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	_, err := New([]Filter{&failingFilter{validateErr: boom}}, nil).RunFilters(context.Background(), candidates())
	if !errors.Is(err, boom) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = New([]Filter{&failingFilter{applyErr: boom}}, nil).RunFilters(context.Background(), candidates())
	if !errors.Is(err, boom) {
		t.Fatalf("expected apply error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New([]Filter{NewDuplicates(nil)}, nil).RunFilters(ctx, candidates())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
