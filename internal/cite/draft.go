package cite

import (
	"errors"
	"fmt"

	"github.com/pdiddy/citation-helper/pkg/types"
)

// ErrAuthorIndex is returned when an author index is outside the draft's list.
var ErrAuthorIndex = errors.New("author index out of range")

// Draft is a short-lived editable copy of a record. It is seeded from the
// record's title, subtitle, date and authors; pages and town always start
// empty. Nothing in a draft is written back to the record it came from.
type Draft struct {
	Title         string
	Subtitle      string
	PublishedDate string
	StartPage     string
	EndPage       string
	Town          string

	authors []string
}

// NewDraft opens a draft for r.
func NewDraft(r types.BibliographicRecord) *Draft {
	return &Draft{
		Title:         r.Title,
		Subtitle:      r.Subtitle,
		PublishedDate: r.PublishedDate,
		authors:       append([]string{}, r.Authors...),
	}
}

// Authors returns a copy of the draft's author list.
func (d *Draft) Authors() []string {
	return append([]string{}, d.authors...)
}

// SetAuthors replaces the whole author list.
func (d *Draft) SetAuthors(authors []string) {
	d.authors = append([]string{}, authors...)
}

// AddAuthor appends an empty placeholder author and returns its index.
func (d *Draft) AddAuthor() int {
	d.authors = append(d.authors, "")
	return len(d.authors) - 1
}

// SetAuthor replaces the author at index i.
func (d *Draft) SetAuthor(i int, name string) error {
	if i < 0 || i >= len(d.authors) {
		return fmt.Errorf("setting author %d of %d: %w", i, len(d.authors), ErrAuthorIndex)
	}
	d.authors[i] = name
	return nil
}

// DeleteAuthor removes the author at index i, keeping the order of the rest.
func (d *Draft) DeleteAuthor(i int) error {
	if i < 0 || i >= len(d.authors) {
		return fmt.Errorf("deleting author %d of %d: %w", i, len(d.authors), ErrAuthorIndex)
	}
	out := make([]string, 0, len(d.authors)-1)
	out = append(out, d.authors[:i]...)
	d.authors = append(out, d.authors[i+1:]...)
	return nil
}

// Record returns a snapshot of the draft as a record.
func (d *Draft) Record() types.BibliographicRecord {
	return types.BibliographicRecord{
		Title:         d.Title,
		Subtitle:      d.Subtitle,
		Authors:       d.Authors(),
		PublishedDate: d.PublishedDate,
		StartPage:     d.StartPage,
		EndPage:       d.EndPage,
		Town:          d.Town,
	}
}

// Footnote formats the draft in footnote style.
func (d *Draft) Footnote() string { return Footnote(d.Record()) }

// Bibliography formats the draft in bibliography style.
func (d *Draft) Bibliography() string { return Bibliography(d.Record()) }

// Format formats the draft in the given style.
func (d *Draft) Format(style Style) (string, error) { return Format(style, d.Record()) }
