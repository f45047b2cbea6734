// Package documents holds candidate texts (job descriptions or résumés) that a
// query is ranked against.
package documents

import (
	"encoding/json"
	"os"
	"slices"
	"strings"
)

// Document is one candidate. Raw keeps the original record when the document
// came from a JSON catalog.
type Document struct {
	ID    string         `json:"id" mapstructure:"id"`
	Title string         `json:"title,omitempty" mapstructure:"title"`
	Text  string         `json:"text" mapstructure:"text"`
	Path  string         `json:"path,omitempty" mapstructure:"path"`
	Raw   map[string]any `json:"raw,omitempty" mapstructure:"-"`
}

// Documents is an ordered candidate list.
type Documents struct {
	Items []*Document `json:"items"`
}

func (d *Documents) Len() int {
	return len(d.Items)
}

// Texts returns the document texts in order.
func (d *Documents) Texts() []string {
	out := make([]string, 0, len(d.Items))
	for _, doc := range d.Items {
		out = append(out, doc.Text)
	}
	return out
}

// IDs returns the document identifiers in order.
func (d *Documents) IDs() []string {
	out := make([]string, 0, len(d.Items))
	for _, doc := range d.Items {
		out = append(out, doc.ID)
	}
	return out
}

// FindByID returns the document or nil.
func (d *Documents) FindByID(id string) *Document {
	for _, doc := range d.Items {
		if doc.ID == id {
			return doc
		}
	}
	return nil
}

// Exclude removes documents whose ID is in ids and returns the removed IDs.
// The order of the remaining documents is kept.
func (d *Documents) Exclude(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return d.ExcludeFunc(func(doc *Document) bool {
		_, ok := set[doc.ID]
		return ok
	})
}

// ExcludeFunc removes every document for which drop returns true and returns
// the removed IDs.
func (d *Documents) ExcludeFunc(drop func(*Document) bool) []string {
	var removed []string
	d.Items = slices.DeleteFunc(d.Items, func(doc *Document) bool {
		if drop(doc) {
			removed = append(removed, doc.ID)
			return true
		}
		return false
	})
	return removed
}

// DumpToTmpFile writes the list as indented JSON to a new temporary file.
func (d *Documents) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "documents_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Label is a one-line description used in interactive prompts.
func (doc *Document) Label() string {
	title := doc.Title
	if title == "" {
		title = firstLine(doc.Text, 60)
	}
	return doc.ID + " " + title
}

func firstLine(text string, limit int) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return text
}
