package documents

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spigell/skillmatch/internal/domain"
)

func sampleDocuments() *Documents {
	return &Documents{Items: []*Document{
		{ID: "a", Text: "go developer"},
		{ID: "b", Text: "react developer"},
		{ID: "c", Text: "sql analyst"},
		{ID: "d", Text: "python engineer"},
	}}
}

func TestExcludeKeepsOrder(t *testing.T) {
	t.Parallel()

	docs := sampleDocuments()
	removed := docs.Exclude([]string{"c", "a", "missing"})

	if !slices.Equal(removed, []string{"a", "c"}) {
		t.Fatalf("unexpected removed ids: %v", removed)
	}
	if !slices.Equal(docs.IDs(), []string{"b", "d"}) {
		t.Fatalf("unexpected remaining ids: %v", docs.IDs())
	}
	if docs.FindByID("a") != nil || docs.FindByID("d") == nil {
		t.Fatal("FindByID does not reflect exclusion")
	}
}

func TestExcludedFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.json")

	excluded, err := ReadExcludedFile(path)
	if err != nil {
		t.Fatalf("missing file should be empty: %v", err)
	}
	if len(excluded.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(excluded.Items))
	}

	excluded.Append(sampleDocuments().ToExcluded("seen"))
	excluded.Append((&Documents{Items: []*Document{{ID: "a"}, {ID: "e"}}}).ToExcluded("again"))
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	// A shorter rewrite must not leave stale bytes behind.
	short := &Excluded{Items: excluded.Items[:1]}
	if err := short.ToFile(path); err != nil {
		t.Fatalf("rewrite exclude file: %v", err)
	}

	got, err := ReadExcludedFile(path)
	if err != nil {
		t.Fatalf("read exclude file: %v", err)
	}
	if !slices.Equal(got.IDs(), []string{"a"}) {
		t.Fatalf("unexpected ids: %v", got.IDs())
	}
	if got.Items[0].Reason != "seen" {
		t.Fatalf("unexpected reason %q", got.Items[0].Reason)
	}
	if len(excluded.IDs()) != 5 {
		t.Fatalf("expected 5 unique ids after append, got %v", excluded.IDs())
	}
}

func TestReadExcludedFileEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.json")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := ReadExcludedFile(path)
	if err != nil || len(got.Items) != 0 {
		t.Fatalf("expected empty list, got %v, %v", got, err)
	}
}

func TestLoadGlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"jobs/backend/go.txt":     "Go backend engineer",
		"jobs/frontend/react.txt": "React developer",
		"jobs/notes.md":           "not a candidate",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := LoadGlob(filepath.Join(dir, "jobs", "**", "*.txt"))
	if err != nil {
		t.Fatalf("load glob: %v", err)
	}
	if docs.Len() != 2 {
		t.Fatalf("expected 2 documents, got %d", docs.Len())
	}
	if docs.Items[0].Title != "go" || docs.Items[0].Text != "Go backend engineer" {
		t.Fatalf("unexpected first document: %+v", docs.Items[0])
	}

	_, err = LoadGlob(filepath.Join(dir, "nothing", "*.txt"))
	var notFound *domain.NotFoundErr
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundErr, got %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.json")
	data := `[
  {"id": 42, "title": "Backend", "text": "Go and SQL", "salary": 100},
  {"title": "Frontend", "description": "React and CSS"}
]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if docs.Len() != 2 {
		t.Fatalf("expected 2 documents, got %d", docs.Len())
	}
	if docs.Items[0].ID != "42" {
		t.Fatalf("expected numeric id to be decoded, got %q", docs.Items[0].ID)
	}
	if docs.Items[0].Raw["salary"] != float64(100) {
		t.Fatalf("expected raw record to be kept, got %v", docs.Items[0].Raw)
	}
	if docs.Items[1].Text != "React and CSS" || docs.Items[1].ID != "jobs.json#1" {
		t.Fatalf("unexpected second document: %+v", docs.Items[1])
	}
}

func TestLoadJSONErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadJSON(filepath.Join(dir, "missing.json"))
	var notFound *domain.NotFoundErr
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundErr, got %v", err)
	}

	for name, data := range map[string]string{
		"object.json":  `{"id": "1"}`,
		"no_text.json": `[{"id": "1", "title": "empty"}]`,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadJSON(path)
		var validationErr *domain.ValidationErr
		if !errors.As(err, &validationErr) {
			t.Fatalf("%s: expected ValidationErr, got %v", name, err)
		}
	}
}
