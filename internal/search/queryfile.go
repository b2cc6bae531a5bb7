// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-helper/pkg/types"
)

// ResultFile is the on-disk form of one search and its results, so that a
// later `cite` can pick a record without querying the API again. Drafts and
// their edits are never written here.
type ResultFile struct {
	Query   ResultQuery                 `yaml:"query"`
	Results []types.BibliographicRecord `yaml:"results"`
	Summary ResultSummary               `yaml:"summary"`
}

// ResultQuery stores what was searched.
type ResultQuery struct {
	Mode Mode   `yaml:"mode"`
	Text string `yaml:"text"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	Total     int       `yaml:"total"`
	Notice    string    `yaml:"notice,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a search and its records to a YAML file. searchErr,
// when non-nil, is kept as the summary notice.
func WriteResultFile(path string, mode Mode, text string, records []types.BibliographicRecord, searchErr error) error {
	rf := ResultFile{
		Query:   ResultQuery{Mode: mode, Text: text},
		Results: records,
		Summary: ResultSummary{
			Total:     len(records),
			Timestamp: time.Now().UTC(),
		},
	}
	if searchErr != nil {
		rf.Summary.Notice = searchErr.Error()
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// Record returns a copy of the record at index i.
func (rf *ResultFile) Record(i int) (types.BibliographicRecord, error) {
	if i < 0 || i >= len(rf.Results) {
		return types.BibliographicRecord{}, fmt.Errorf("result index %d out of range (file has %d results)", i, len(rf.Results))
	}
	return rf.Results[i].Clone(), nil
}
