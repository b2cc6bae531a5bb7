// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite turns bibliographic records into reference strings and holds
// the editable draft a citation is generated from.
package cite

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/citation-helper/pkg/types"
)

// Style selects a citation form.
type Style string

const (
	StyleFootnote     Style = "footnote"
	StyleBibliography Style = "bibliography"
)

// ParseStyle maps a user-supplied name onto a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleFootnote:
		return StyleFootnote, nil
	case StyleBibliography, "":
		return StyleBibliography, nil
	}
	return "", fmt.Errorf("unknown citation style %q (want footnote or bibliography)", s)
}

// Format renders r in the given style.
func Format(style Style, r types.BibliographicRecord) (string, error) {
	switch style {
	case StyleFootnote:
		return Footnote(r), nil
	case StyleBibliography:
		return Bibliography(r), nil
	}
	return "", fmt.Errorf("unknown citation style %q", style)
}

// Footnote returns the footnote form of r. It currently produces the same
// string as Bibliography.
// TODO: shorten to surname, title and year once a short form is agreed on.
func Footnote(r types.BibliographicRecord) string {
	return buildReference(r)
}

// Bibliography returns the full bibliography form of r:
//
//	Surname, I., I., Title: Subtitle (Town, Year)
//
// Empty and whitespace-only authors are skipped. The ", " before the title
// is written even when no author precedes it.
func Bibliography(r types.BibliographicRecord) string {
	return buildReference(r)
}

func buildReference(r types.BibliographicRecord) string {
	var b strings.Builder

	added := 0
	for _, a := range r.Authors {
		name := AuthorRefName(a)
		if name == "" {
			continue
		}
		if added > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		added++
	}

	b.WriteString(", ")
	b.WriteString(r.Title)
	if r.Subtitle != "" {
		b.WriteString(": ")
		b.WriteString(r.Subtitle)
	}

	b.WriteString(" (")
	if r.Town != "" {
		b.WriteString(r.Town)
		b.WriteString(", ")
	}
	b.WriteString(YearFromDate(r.PublishedDate))
	b.WriteString(")")

	return b.String()
}

// AuthorRefName rewrites "Given Middle Last" as "Last, G., M.". A single
// token is returned unchanged.
func AuthorRefName(author string) string {
	parts := strings.Fields(author)
	if len(parts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(parts[len(parts)-1])
	for _, p := range parts[:len(parts)-1] {
		b.WriteString(", ")
		b.WriteString(initial(p))
		b.WriteString(".")
	}
	return b.String()
}

// initial returns the first character of s after NFC composition, so that a
// decomposed "É" yields one initial rather than a bare "E".
func initial(s string) string {
	s = norm.NFC.String(s)
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

// YearFromDate returns the part of date before the first "-", or the whole
// string when there is none.
func YearFromDate(date string) string {
	year, _, _ := strings.Cut(date, "-")
	return year
}
