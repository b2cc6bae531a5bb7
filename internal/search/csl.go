package search

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-helper/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	PublisherPlace string    `yaml:"publisher-place,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Archive        string    `yaml:"archive,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts. Dates that do
// not parse are carried in Literal.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts,omitempty"`
	Literal   string  `yaml:"literal,omitempty"`
}

// FormatCSL writes records as a CSL-YAML list to w.
func FormatCSL(records []types.BibliographicRecord, w io.Writer) error {
	items := make([]CSLItem, len(records))
	seen := make(map[string]int)
	for i, r := range records {
		items[i] = toCSLItem(r)
		items[i].ID = uniqueKey(citationKey(r, i), seen)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a record to a CSLItem. Archive records are typed as
// manuscripts and their holders become the archive rather than authors.
func toCSLItem(r types.BibliographicRecord) CSLItem {
	item := CSLItem{
		Type:           "book",
		Title:          r.DisplayTitle(),
		PublisherPlace: r.Town,
		Page:           pageRange(r.StartPage, r.EndPage),
	}

	if r.Source == string(ModeArchive) {
		item.Type = "manuscript"
		item.Archive = strings.Join(nonEmpty(r.Authors), "; ")
	} else {
		for _, a := range nonEmpty(r.Authors) {
			item.Author = append(item.Author, parseAuthorName(a))
		}
	}

	item.Issued = parseCSLDate(r.PublishedDate)
	return item
}

// parseAuthorName splits a full name into CSL family/given parts the same
// way citations do: the last whitespace-separated token is the family name
// and the tokens before it, joined by single spaces, are the given names.
// Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return CSLName{}
	case 1:
		return CSLName{Literal: parts[0]}
	}
	return CSLName{
		Given:  strings.Join(parts[:len(parts)-1], " "),
		Family: parts[len(parts)-1],
	}
}

// parseCSLDate turns "YYYY", "YYYY-MM" or "YYYY-MM-DD" into date-parts.
func parseCSLDate(date string) *CSLDate {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	var parts []int
	for _, p := range strings.SplitN(date, "-", 3) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return &CSLDate{Literal: date}
		}
		parts = append(parts, n)
	}
	return &CSLDate{DateParts: [][]int{parts}}
}

func pageRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + "-" + end
	case start != "":
		return start
	default:
		return end
	}
}

// citationKey builds a key such as "lovelace1843" from the first author's
// surname and the year, falling back to the first title word.
func citationKey(r types.BibliographicRecord, i int) string {
	var stem string
	if authors := nonEmpty(r.Authors); len(authors) > 0 {
		f := strings.Fields(authors[0])
		stem = f[len(f)-1]
	} else if f := strings.Fields(r.Title); len(f) > 0 {
		stem = f[0]
	}
	stem = keyChars(stem)
	year := keyChars(r.PublishedDate[:min(4, len(r.PublishedDate))])
	if stem == "" && year == "" {
		return fmt.Sprintf("item%d", i+1)
	}
	return stem + year
}

func keyChars(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// uniqueKey appends a, b, c... to keys already handed out.
func uniqueKey(key string, seen map[string]int) string {
	n := seen[key]
	seen[key] = n + 1
	if n == 0 {
		return key
	}
	return key + string(rune('a'+(n-1)%26))
}

func nonEmpty(ss []string) []string {
	var out []string
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
