package classifier

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spigell/skillmatch/internal/domain"
)

const (
	textColumn     = "text"
	labelsColumn   = "labels"
	labelSeparator = ","
)

// Dataset is a sequence of (text, labels) examples.
type Dataset struct {
	Texts  []string
	Labels []domain.LabelSet
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.Texts)
}

// Add appends one example. Labels are parsed from a comma separated string.
func (d *Dataset) Add(text, labels string) {
	d.Texts = append(d.Texts, text)
	d.Labels = append(d.Labels, domain.ParseLabels(labels, labelSeparator))
}

// LoadDataset reads a CSV file with a header containing "text" and "labels"
// columns. A missing file yields *domain.NotFoundErr, a malformed one
// *domain.ValidationErr.
func LoadDataset(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewNotFoundErr(fmt.Sprintf("training dataset not found at %s", path))
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	return ReadDataset(file)
}

// ReadDataset parses CSV data from r.
func ReadDataset(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewValidationErr("dataset is empty")
		}
		return nil, domain.NewValidationErr(fmt.Sprintf("read dataset header: %v", err))
	}

	textIdx, labelsIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case textColumn:
			textIdx = i
		case labelsColumn:
			labelsIdx = i
		}
	}
	if textIdx < 0 || labelsIdx < 0 {
		return nil, domain.NewValidationErr(fmt.Sprintf("dataset must contain %q and %q columns, got %q", textColumn, labelsColumn, header))
	}

	ds := &Dataset{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewValidationErr(fmt.Sprintf("read dataset line %d: %v", line, err))
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		ds.Add(field(record, textIdx), field(record, labelsIdx))
	}

	if ds.Len() == 0 {
		return nil, domain.NewValidationErr("dataset has no examples")
	}
	return ds, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}
