// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
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

// catalogSearchBase is the Google Books volumes endpoint, used when
// CatalogConfig.BaseURL is empty.
var catalogSearchBase = "https://www.googleapis.com/books/v1/volumes"

// Google Books rejects maxResults above 40.
const (
	catalogDefaultPageSize = 10
	catalogMaxPageSize     = 40
)

// CatalogSource queries the Google Books catalog.
type CatalogSource struct {
	Client *httputil.Client
	Logger *zap.Logger
	Config types.CatalogConfig
}

// NewCatalogSource builds a CatalogSource from config.
func NewCatalogSource(httpCfg types.HTTPConfig, cfg types.CatalogConfig, logger *zap.Logger) *CatalogSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := httputil.NewClient(httpCfg.Timeout, cfg.RequestsPerSecond, httpCfg.UserAgent, logger)
	c.MaxRetries = httpCfg.MaxRetries
	return &CatalogSource{Client: c, Logger: logger, Config: cfg}
}

// Name returns the source identifier.
func (s *CatalogSource) Name() string { return string(ModeCatalog) }

// Mode returns ModeCatalog.
func (s *CatalogSource) Mode() Mode { return ModeCatalog }

// Search queries Google Books for text.
func (s *CatalogSource) Search(ctx context.Context, text string) ([]types.BibliographicRecord, error) {
	if text == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{
		"q":          {text},
		"maxResults": {strconv.Itoa(clampPageSize(s.Config.MaxResults, catalogDefaultPageSize, catalogMaxPageSize))},
	}
	if s.Config.APIKey != "" {
		params.Set("key", s.Config.APIKey)
	}

	base := s.Config.BaseURL
	if base == "" {
		base = catalogSearchBase
	}

	logger := s.logger()
	logger.Debug("catalog search", zap.String("query", text))

	body, err := fetchJSON(ctx, s.Client, s.Name(), base+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp catalogResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedResponseError{Source: s.Name(), Err: fmt.Errorf("decoding volumes: %w", err)}
	}

	// Google Books omits "items" entirely when nothing matched.
	records, err := decodeItems(s.Name(), resp.Items, NormalizeCatalogItem)
	logger.Debug("catalog results",
		zap.Int("total_items", resp.TotalItems),
		zap.Int("records", len(records)))
	return records, err
}

func (s *CatalogSource) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// NormalizeCatalogItem maps one Google Books volume onto a record. Absent
// optional fields become empty values.
func NormalizeCatalogItem(raw json.RawMessage) (types.BibliographicRecord, error) {
	var item catalogItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return types.BibliographicRecord{}, fmt.Errorf("decoding volume: %w", err)
	}
	if item.VolumeInfo == nil {
		return types.BibliographicRecord{}, errors.New("volume has no volumeInfo")
	}

	vi := item.VolumeInfo
	authors := vi.Authors
	if authors == nil {
		authors = []string{}
	}
	return types.BibliographicRecord{
		Title:         vi.Title,
		Subtitle:      vi.Subtitle,
		Authors:       authors,
		PublishedDate: vi.PublishedDate,
	}, nil
}

// Google Books API JSON structures.
type catalogResponse struct {
	TotalItems int               `json:"totalItems"`
	Items      []json.RawMessage `json:"items"`
}

type catalogItem struct {
	ID         string             `json:"id"`
	VolumeInfo *catalogVolumeInfo `json:"volumeInfo"`
}

type catalogVolumeInfo struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"publishedDate"`
}
