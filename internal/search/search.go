// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search dispatches a search to the catalog or archive API and
// normalizes the responses into bibliographic records.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/citation-helper/pkg/types"
)

// Outcome describes one finished search. It is what a Recorder receives.
type Outcome struct {
	Mode     Mode
	Query    string
	Results  int
	Err      error
	Started  time.Time
	Duration time.Duration
}

// Recorder is notified after every search a Session dispatches.
type Recorder interface {
	Record(ctx context.Context, o Outcome) error
}

// Session holds the result list of the most recent search. Every search
// replaces the previous results; nothing is merged or cached.
type Session struct {
	sources  map[Mode]Source
	recorder Recorder
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight bool
	results  []types.BibliographicRecord
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRecorder reports each search outcome to r.
func WithRecorder(r Recorder) SessionOption {
	return func(s *Session) { s.recorder = r }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession returns a session dispatching to sources by their Mode. A later
// source for the same mode replaces an earlier one.
func NewSession(sources []Source, opts ...SessionOption) *Session {
	s := &Session{
		sources: make(map[Mode]Source, len(sources)),
		logger:  zap.NewNop(),
	}
	for _, src := range sources {
		s.sources[src.Mode()] = src
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Loading reports whether a search is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Results returns a copy of the current result list.
func (s *Session) Results() []types.BibliographicRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.BibliographicRecord, len(s.results))
	for i, r := range s.results {
		out[i] = r.Clone()
	}
	return out
}

// Result returns a copy of the record at index i.
func (s *Session) Result(i int) (types.BibliographicRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.results) {
		return types.BibliographicRecord{}, false
	}
	return s.results[i].Clone(), true
}

// Search clears the current results and sends text to the source for mode.
// The records it returns also become the session's results. A
// MalformedResponseError may come back together with the records that did
// decode; a NetworkError leaves the result list empty.
func (s *Session) Search(ctx context.Context, mode Mode, text string) ([]types.BibliographicRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}
	src, ok := s.sources[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSearchInFlight
	}
	s.inFlight = true
	s.results = nil
	s.mu.Unlock()

	started := time.Now()
	records, err := src.Search(ctx, text)

	stored := make([]types.BibliographicRecord, len(records))
	for i, r := range records {
		stored[i] = r.Clone()
	}
	s.mu.Lock()
	s.inFlight = false
	s.results = stored
	s.mu.Unlock()

	outcome := Outcome{
		Mode:     mode,
		Query:    text,
		Results:  len(records),
		Err:      err,
		Started:  started,
		Duration: time.Since(started),
	}
	s.logger.Info("search finished",
		zap.String("mode", string(mode)),
		zap.String("query", text),
		zap.Int("results", outcome.Results),
		zap.Duration("duration", outcome.Duration),
		zap.Error(err))

	if s.recorder != nil {
		if rerr := s.recorder.Record(ctx, outcome); rerr != nil {
			s.logger.Warn("recording search history", zap.Error(rerr))
		}
	}

	return records, err
}

// FormatTable writes records as a human-readable list to w.
func FormatTable(records []types.BibliographicRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-30s  %s\n", "#", "Title", "Authors", "Date")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range records {
		fmt.Fprintf(w, "%-4d  %-50s  %-30s  %s\n",
			i, truncate(r.DisplayTitle(), 50), truncate(r.DisplayAuthors(), 30), r.DisplayDate())
	}

	fmt.Fprintf(w, "\n%d results\n", len(records))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.BibliographicRecord, w io.Writer) error {
	if records == nil {
		records = []types.BibliographicRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
