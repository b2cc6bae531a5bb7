// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the citation-helper
// packages: the canonical bibliographic record and the configuration blocks.
package types

import "strings"

const (
	// UnknownAuthor is shown in result listings when a record has no authors.
	UnknownAuthor = "Unknown Author"

	// UnknownDate is shown in result listings when a record has no date.
	UnknownDate = "Unknown Date"
)

// BibliographicRecord is the canonical shape every search result is
// normalized into, regardless of which source produced it.
type BibliographicRecord struct {
	// Title is the work title. It may be empty if the source omits it.
	Title string `json:"title" yaml:"title"`

	// Subtitle is empty when the source has none.
	Subtitle string `json:"subtitle" yaml:"subtitle"`

	// Authors lists free-text names ("Given Middle Last" or an institution)
	// in citation order. Empty entries are allowed and skipped when formatting.
	Authors []string `json:"authors" yaml:"authors"`

	// PublishedDate is free text, usually starting with a four digit year
	// followed by "-".
	PublishedDate string `json:"published_date" yaml:"published_date"`

	// StartPage and EndPage are only ever set while editing a draft.
	StartPage string `json:"start_page,omitempty" yaml:"start_page,omitempty"`
	EndPage   string `json:"end_page,omitempty" yaml:"end_page,omitempty"`

	// Town is the place of publication. No source provides it.
	Town string `json:"town,omitempty" yaml:"town,omitempty"`

	// Source names the search mode that produced the record ("catalog", "archive").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// DisplayTitle returns the title followed by ": subtitle" when a subtitle exists.
func (r BibliographicRecord) DisplayTitle() string {
	if r.Subtitle == "" {
		return r.Title
	}
	return r.Title + ": " + r.Subtitle
}

// DisplayAuthors joins the authors with ", " or returns UnknownAuthor when
// the list is empty.
func (r BibliographicRecord) DisplayAuthors() string {
	if len(r.Authors) == 0 {
		return UnknownAuthor
	}
	return strings.Join(r.Authors, ", ")
}

// DisplayDate returns the published date or UnknownDate.
func (r BibliographicRecord) DisplayDate() string {
	if r.PublishedDate == "" {
		return UnknownDate
	}
	return r.PublishedDate
}

// Clone returns a copy whose Authors slice does not alias r's.
func (r BibliographicRecord) Clone() BibliographicRecord {
	c := r
	c.Authors = append([]string{}, r.Authors...)
	return c
}
