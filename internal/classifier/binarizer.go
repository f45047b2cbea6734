package classifier

import (
	"slices"

	"github.com/spigell/skillmatch/internal/domain"
)

// Binarizer maps label names to column indices. Classes are sorted.
type Binarizer struct {
	RunID   string   `json:"run_id"`
	Classes []string `json:"classes"`
}

// FitBinarizer collects the label vocabulary of all examples.
func FitBinarizer(labels []domain.LabelSet) *Binarizer {
	var all []string
	for _, set := range labels {
		all = append(all, set...)
	}
	return &Binarizer{Classes: []string(domain.NewLabelSet(all...))}
}

// Index returns the column of label or -1.
func (b *Binarizer) Index(label string) int {
	idx, ok := slices.BinarySearch(b.Classes, domain.NormalizeLabel(label))
	if !ok {
		return -1
	}
	return idx
}

// Transform encodes label sets as indicator rows.
func (b *Binarizer) Transform(labels []domain.LabelSet) [][]bool {
	out := make([][]bool, len(labels))
	for i, set := range labels {
		row := make([]bool, len(b.Classes))
		for _, l := range set {
			if idx := b.Index(l); idx >= 0 {
				row[idx] = true
			}
		}
		out[i] = row
	}
	return out
}

// Inverse decodes an indicator row into labels.
func (b *Binarizer) Inverse(row []bool) domain.LabelSet {
	out := make(domain.LabelSet, 0)
	for i, on := range row {
		if on {
			out = append(out, b.Classes[i])
		}
	}
	return out
}
