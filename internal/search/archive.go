// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/pdiddy/citation-helper/internal/httputil"
	"github.com/pdiddy/citation-helper/pkg/types"
)

// archiveSearchBase is The National Archives Discovery records endpoint.
// ArchiveConfig.BaseURL overrides it.
var archiveSearchBase = "https://discovery.nationalarchives.gov.uk/API/search/v1/records"

const (
	archiveDefaultPageSize = 15
	archiveMaxPageSize     = 100
)

// ArchiveSource queries The National Archives Discovery catalogue.
type ArchiveSource struct {
	Client *httputil.Client
	Logger *zap.Logger
	Config types.ArchiveConfig
}

// NewArchiveSource builds an ArchiveSource from config.
func NewArchiveSource(httpCfg types.HTTPConfig, cfg types.ArchiveConfig, logger *zap.Logger) *ArchiveSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := httputil.NewClient(httpCfg.Timeout, cfg.RequestsPerSecond, httpCfg.UserAgent, logger)
	c.MaxRetries = httpCfg.MaxRetries
	return &ArchiveSource{Client: c, Logger: logger, Config: cfg}
}

// Name returns the source identifier.
func (s *ArchiveSource) Name() string { return string(ModeArchive) }

// Mode returns ModeArchive.
func (s *ArchiveSource) Mode() Mode { return ModeArchive }

// Search queries Discovery for text.
func (s *ArchiveSource) Search(ctx context.Context, text string) ([]types.BibliographicRecord, error) {
	if text == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{
		"sps.searchQuery":     {text},
		"sps.resultsPageSize": {strconv.Itoa(clampPageSize(s.Config.MaxResults, archiveDefaultPageSize, archiveMaxPageSize))},
	}

	base := s.Config.BaseURL
	if base == "" {
		base = archiveSearchBase
	}

	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("archive search", zap.String("query", text))

	body, err := fetchJSON(ctx, s.Client, s.Name(), base+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp archiveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedResponseError{Source: s.Name(), Err: fmt.Errorf("decoding records: %w", err)}
	}
	if resp.Records == nil {
		return nil, &MalformedResponseError{Source: s.Name(), Err: errors.New(`response has no "records" collection`)}
	}

	records, err := decodeItems(s.Name(), *resp.Records, NormalizeArchiveRecord)
	logger.Debug("archive results", zap.Int("records", len(records)))
	return records, err
}

// NormalizeArchiveRecord maps one Discovery record onto a record. The
// holding institution becomes the author list and the end date the
// published date, both taken as-is.
func NormalizeArchiveRecord(raw json.RawMessage) (types.BibliographicRecord, error) {
	var rec archiveRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return types.BibliographicRecord{}, fmt.Errorf("decoding record: %w", err)
	}
	heldBy := []string(rec.HeldBy)
	if heldBy == nil {
		heldBy = []string{}
	}
	return types.BibliographicRecord{
		Title:         rec.Title,
		Authors:       heldBy,
		PublishedDate: rec.EndDate,
	}, nil
}

// Discovery API JSON structures.
type archiveResponse struct {
	Count   int                `json:"count"`
	Records *[]json.RawMessage `json:"records"`
}

type archiveRecord struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	HeldBy    stringList `json:"heldBy"`
	EndDate   string     `json:"endDate"`
	Reference string     `json:"reference"`
}

// stringList decodes either a JSON array of strings or a single string.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = stringList{s}
		return nil
	}
	var ss []string
	if err := json.Unmarshal(b, &ss); err != nil {
		return err
	}
	*l = ss
	return nil
}
