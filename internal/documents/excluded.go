package documents

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// Excluded is the content of an exclude file: documents that must not be
// offered again.
type Excluded struct {
	Items []*ExcludedDocument
}

type ExcludedDocument struct {
	ID         string
	Title      string
	Path       string
	Reason     string `json:",omitempty"`
	ExcludedAt time.Time
}

// ToExcluded converts every document into an exclude entry.
func (d *Documents) ToExcluded(reason string) *Excluded {
	excluded := &Excluded{}
	now := time.Now().UTC()
	for _, doc := range d.Items {
		excluded.Items = append(excluded.Items, &ExcludedDocument{
			ID:         doc.ID,
			Title:      doc.Title,
			Path:       doc.Path,
			Reason:     reason,
			ExcludedAt: now,
		})
	}
	return excluded
}

// ReadExcludedFile reads an exclude file. A missing or empty file is an empty list.
func ReadExcludedFile(path string) (*Excluded, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Excluded{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &Excluded{}, nil
	}

	var excluded Excluded
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds entries whose ID is not already present.
func (e *Excluded) Append(s *Excluded) {
	seen := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		seen[item.ID] = struct{}{}
	}
	for _, item := range s.Items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *Excluded) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// ToFile replaces the exclude file content.
func (e *Excluded) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
