// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/citation-helper/internal/httputil"
	"github.com/pdiddy/citation-helper/pkg/types"
)

// Mode selects which external source a search is sent to.
type Mode string

const (
	ModeCatalog Mode = "catalog"
	ModeArchive Mode = "archive"
)

// Modes lists the supported modes in menu order.
var Modes = []Mode{ModeCatalog, ModeArchive}

// ParseMode maps a user-supplied name onto a Mode. "books" and "google" are
// accepted for the catalog, "tna" and "national-archive" for the archive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "catalog", "books", "google", "google-books":
		return ModeCatalog, nil
	case "archive", "tna", "national-archive", "national-archives":
		return ModeArchive, nil
	}
	return "", fmt.Errorf("%w: %q (want %s)", ErrUnknownMode, s, ModeNames())
}

// ModeNames lists Modes for help and error text, e.g. "catalog or archive".
func ModeNames() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, " or ")
}

// Source searches one external API and normalizes its items into records.
type Source interface {
	Name() string
	Mode() Mode
	Search(ctx context.Context, text string) ([]types.BibliographicRecord, error)
}

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 512

// fetchJSON GETs rawURL and returns the body of a 2xx response. Transport
// failures and other statuses become a NetworkError.
func fetchJSON(ctx context.Context, c *httputil.Client, source, rawURL string) ([]byte, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, &NetworkError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &NetworkError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(b))),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Source: source, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}

// decodeItems decodes each raw item with fn, skipping those that fail. It
// returns a MalformedResponseError alongside the decoded records when any
// item was skipped.
func decodeItems(source string, raw []json.RawMessage, fn func(json.RawMessage) (types.BibliographicRecord, error)) ([]types.BibliographicRecord, error) {
	records := make([]types.BibliographicRecord, 0, len(raw))
	var first error
	skipped := 0
	for _, item := range raw {
		r, err := fn(item)
		if err != nil {
			skipped++
			if first == nil {
				first = err
			}
			continue
		}
		r.Source = source
		records = append(records, r)
	}
	if skipped > 0 {
		return records, &MalformedResponseError{Source: source, Skipped: skipped, Err: first}
	}
	return records, nil
}

func clampPageSize(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// Normalize maps one raw response item onto a record using the normalizer
// for mode.
func Normalize(mode Mode, raw json.RawMessage) (types.BibliographicRecord, error) {
	var (
		r   types.BibliographicRecord
		err error
	)
	switch mode {
	case ModeCatalog:
		r, err = NormalizeCatalogItem(raw)
	case ModeArchive:
		r, err = NormalizeArchiveRecord(raw)
	default:
		return r, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if err == nil {
		r.Source = string(mode)
	}
	return r, err
}
