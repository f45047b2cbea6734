package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/skillmatch/internal/domain"
)

// textKeys are tried in order when a JSON record has no "text" field.
var textKeys = []string{"description", "body", "content"}

// LoadGlob reads every file matching a doublestar pattern such as
// "jobs/**/*.txt". The document ID is the file path.
func LoadGlob(pattern string) (*Documents, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, domain.NewValidationErr(fmt.Sprintf("bad candidate pattern %q: %v", pattern, err))
	}
	slices.Sort(paths)

	docs := &Documents{}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read candidate %s: %w", path, err)
		}

		base := filepath.Base(path)
		docs.Items = append(docs.Items, &Document{
			ID:    filepath.ToSlash(path),
			Title: strings.TrimSuffix(base, filepath.Ext(base)),
			Text:  string(data),
			Path:  path,
		})
	}

	if docs.Len() == 0 {
		return nil, domain.NewNotFoundErr(fmt.Sprintf("no candidates match %q", pattern))
	}
	return docs, nil
}

// LoadJSON reads a JSON array of records. Each record must carry a text (or
// description) field; "id" and "title" are optional. Numeric IDs are accepted.
func LoadJSON(path string) (*Documents, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewNotFoundErr(fmt.Sprintf("candidates file not found at %s", path))
		}
		return nil, err
	}

	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, domain.NewValidationErr(fmt.Sprintf("candidates file %s must hold a JSON array of objects: %v", path, err))
	}

	docs := &Documents{}
	for i, item := range items {
		doc, err := decodeRecord(item)
		if err != nil {
			return nil, domain.NewValidationErr(fmt.Sprintf("candidate #%d: %v", i, err))
		}
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("%s#%d", filepath.Base(path), i)
		}
		if doc.Path == "" {
			doc.Path = path
		}
		docs.Items = append(docs.Items, doc)
	}
	return docs, nil
}

func decodeRecord(item map[string]any) (*Document, error) {
	doc := &Document{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           doc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(item); err != nil {
		return nil, err
	}

	if strings.TrimSpace(doc.Text) == "" {
		for _, key := range textKeys {
			if s, ok := item[key].(string); ok && strings.TrimSpace(s) != "" {
				doc.Text = s
				break
			}
		}
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, errors.New("record has no text")
	}

	doc.Raw = item
	return doc, nil
}
