package domain

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LabelSet is a sorted set of normalized labels.
type LabelSet []string

// NormalizeLabel trims and lower-cases a label.
func NormalizeLabel(label string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Lower(language.Und).String(strings.TrimSpace(label))
}

// NewLabelSet normalizes and deduplicates the labels. Empty labels are dropped.
func NewLabelSet(labels ...string) LabelSet {
	out := make(LabelSet, 0, len(labels))
	for _, l := range labels {
		if l = NormalizeLabel(l); l != "" {
			out = append(out, l)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ParseLabels splits a delimited label string (for example "sql, Backend").
func ParseLabels(raw, sep string) LabelSet {
	if strings.TrimSpace(raw) == "" {
		return LabelSet{}
	}
	return NewLabelSet(strings.Split(raw, sep)...)
}

// Contains reports whether the set holds the normalized label.
func (s LabelSet) Contains(label string) bool {
	_, ok := slices.BinarySearch(s, NormalizeLabel(label))
	return ok
}

func (s LabelSet) Len() int {
	return len(s)
}
