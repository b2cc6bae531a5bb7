package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/citation-helper/pkg/types"
)

const (
	timeoutForTests = 2 * time.Second
	tickForTests    = 5 * time.Millisecond
)

// --- mock source ---

type mockSource struct {
	mode    Mode
	results []types.BibliographicRecord
	err     error
	block   chan struct{}
	calls   int
	lastQ   string
}

func (m *mockSource) Name() string { return string(m.mode) }
func (m *mockSource) Mode() Mode   { return m.mode }

func (m *mockSource) Search(_ context.Context, text string) ([]types.BibliographicRecord, error) {
	m.calls++
	m.lastQ = text
	if m.block != nil {
		<-m.block
	}
	return m.results, m.err
}

type recorderFunc func(ctx context.Context, o Outcome) error

func (f recorderFunc) Record(ctx context.Context, o Outcome) error { return f(ctx, o) }

func books() []types.BibliographicRecord {
	return []types.BibliographicRecord{
		{Title: "Notes", Authors: []string{"Ada Lovelace"}, PublishedDate: "1843-01-01", Source: "catalog"},
		{Title: "Collected Letters", Authors: []string{"Jane Mary Doe"}, PublishedDate: "1975", Source: "catalog"},
	}
}

// --- ParseMode ---

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"catalog", ModeCatalog, false},
		{"Google", ModeCatalog, false},
		{"", ModeCatalog, false},
		{"archive", ModeArchive, false},
		{"TNA", ModeArchive, false},
		{"national-archive", ModeArchive, false},
		{"journals", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModesAllParse(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	assert.Equal(t, "catalog or archive", ModeNames())

	_, err := ParseMode("journals")
	assert.ErrorContains(t, err, "want catalog or archive")
}

// --- Session ---

func TestSessionDispatchesByMode(t *testing.T) {
	catalog := &mockSource{mode: ModeCatalog, results: books()}
	archive := &mockSource{mode: ModeArchive, results: []types.BibliographicRecord{{Title: "Diary", Source: "archive"}}}
	s := NewSession([]Source{catalog, archive}, WithLogger(zaptest.NewLogger(t)))

	got, err := s.Search(context.Background(), ModeArchive, "  diary  ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Diary", got[0].Title)
	assert.Equal(t, 0, catalog.calls)
	assert.Equal(t, 1, archive.calls)
	assert.Equal(t, "diary", archive.lastQ)

	got, err = s.Search(context.Background(), ModeCatalog, "notes")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, catalog.calls)
}

func TestSessionReplacesResults(t *testing.T) {
	src := &mockSource{mode: ModeCatalog, results: books()}
	s := NewSession([]Source{src})

	_, err := s.Search(context.Background(), ModeCatalog, "first")
	require.NoError(t, err)
	assert.Len(t, s.Results(), 2)

	src.results = []types.BibliographicRecord{{Title: "Only"}}
	_, err = s.Search(context.Background(), ModeCatalog, "second")
	require.NoError(t, err)

	results := s.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "Only", results[0].Title)
}

func TestSessionNetworkErrorClearsResults(t *testing.T) {
	src := &mockSource{mode: ModeCatalog, results: books()}
	s := NewSession([]Source{src})
	_, err := s.Search(context.Background(), ModeCatalog, "first")
	require.NoError(t, err)

	src.results = nil
	src.err = &NetworkError{Source: "catalog", Err: errors.New("timeout")}
	got, err := s.Search(context.Background(), ModeCatalog, "second")

	assert.True(t, IsNetworkError(err))
	assert.Empty(t, got)
	assert.Empty(t, s.Results())
	assert.False(t, s.Loading())
}

func TestSessionKeepsPartialResults(t *testing.T) {
	src := &mockSource{
		mode:    ModeCatalog,
		results: books()[:1],
		err:     &MalformedResponseError{Source: "catalog", Skipped: 1, Err: errors.New("bad item")},
	}
	s := NewSession([]Source{src})

	got, err := s.Search(context.Background(), ModeCatalog, "x")
	assert.True(t, IsMalformed(err))
	assert.Len(t, got, 1)
	assert.Len(t, s.Results(), 1)
}

func TestSessionRejectsEmptyQueryAndUnknownMode(t *testing.T) {
	src := &mockSource{mode: ModeCatalog}
	s := NewSession([]Source{src})

	_, err := s.Search(context.Background(), ModeCatalog, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = s.Search(context.Background(), ModeArchive, "x")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, 0, src.calls)
}

func TestSessionOneSearchInFlight(t *testing.T) {
	block := make(chan struct{})
	src := &mockSource{mode: ModeCatalog, results: books(), block: block}
	s := NewSession([]Source{src})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Search(context.Background(), ModeCatalog, "slow")
	}()

	require.Eventually(t, s.Loading, timeoutForTests, tickForTests)

	_, err := s.Search(context.Background(), ModeCatalog, "second")
	assert.ErrorIs(t, err, ErrSearchInFlight)
	assert.Empty(t, s.Results(), "results are cleared while loading")

	close(block)
	wg.Wait()
	assert.False(t, s.Loading())
	assert.Len(t, s.Results(), 2)
}

func TestSessionRecordsOutcome(t *testing.T) {
	src := &mockSource{mode: ModeArchive, results: []types.BibliographicRecord{{Title: "A"}, {Title: "B"}}}

	var got []Outcome
	rec := recorderFunc(func(_ context.Context, o Outcome) error {
		got = append(got, o)
		return errors.New("disk full")
	})
	s := NewSession([]Source{src}, WithRecorder(rec), WithLogger(zaptest.NewLogger(t)))

	// A failing recorder does not fail the search.
	_, err := s.Search(context.Background(), ModeArchive, "kew")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, ModeArchive, got[0].Mode)
	assert.Equal(t, "kew", got[0].Query)
	assert.Equal(t, 2, got[0].Results)
	assert.NoError(t, got[0].Err)
	assert.False(t, got[0].Started.IsZero())
}

func TestSessionResultsAreCopies(t *testing.T) {
	src := &mockSource{mode: ModeCatalog, results: books()}
	s := NewSession([]Source{src})
	_, err := s.Search(context.Background(), ModeCatalog, "x")
	require.NoError(t, err)

	r, ok := s.Result(0)
	require.True(t, ok)
	r.Authors[0] = "Mutated"
	r.Title = "Mutated"

	again, _ := s.Result(0)
	assert.Equal(t, "Notes", again.Title)
	assert.Equal(t, "Ada Lovelace", again.Authors[0])

	_, ok = s.Result(5)
	assert.False(t, ok)
}

// --- Output ---

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	records := append(books(), types.BibliographicRecord{Title: "Anonymous Work", Subtitle: "A Study"})
	FormatTable(records, &buf)

	out := buf.String()
	assert.Contains(t, out, "Notes")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Anonymous Work: A Study")
	assert.Contains(t, out, "Unknown Author")
	assert.Contains(t, out, "Unknown Date")
	assert.Contains(t, out, "3 results")
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(books(), &buf))

	var decoded []types.BibliographicRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, books(), decoded)

	buf.Reset()
	require.NoError(t, FormatJSON(nil, &buf))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ÉÉÉÉÉÉÉ...", truncate(strings.Repeat("É", 20), 10))
}
