// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-helper/pkg/types"
)

// --- AuthorRefName ---

func TestAuthorRefName(t *testing.T) {
	tests := []struct {
		name   string
		author string
		want   string
	}{
		{"two tokens", "Ada Lovelace", "Lovelace, A."},
		{"middle initial", "John Q. Public", "Public, J., Q."},
		{"three tokens", "John Paul Smith", "Smith, J., P."},
		{"single token", "Plato", "Plato"},
		{"institution single token", "UNESCO", "UNESCO"},
		{"extra whitespace", "  Jane   Mary  Doe ", "Doe, J., M."},
		{"decomposed accent", "E\u0301mile Zola", "Zola, \u00c9."},
		{"multibyte initial", "Łukasz Nowak", "Nowak, Ł."},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorRefName(tt.author))
		})
	}
}

// --- YearFromDate ---

func TestYearFromDate(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"1999-05-01", "1999"},
		{"2020", "2020"},
		{"", ""},
		{"1843-", "1843"},
		{"31/12/1945", "31/12/1945"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, YearFromDate(tt.date))
		})
	}
}

// --- Bibliography ---

func TestBibliographyScenarios(t *testing.T) {
	tests := []struct {
		name   string
		record types.BibliographicRecord
		want   string
	}{
		{
			name: "single author no subtitle no town",
			record: types.BibliographicRecord{
				Authors:       []string{"Ada Lovelace"},
				Title:         "Notes",
				PublishedDate: "1843-01-01",
			},
			want: "Lovelace, A., Notes (1843)",
		},
		{
			name: "no authors keeps leading separator",
			record: types.BibliographicRecord{
				Authors:       []string{},
				Title:         "Anonymous Work",
				Subtitle:      "A Study",
				PublishedDate: "2001-06-15",
				Town:          "London",
			},
			want: ", Anonymous Work: A Study (London, 2001)",
		},
		{
			name: "two authors",
			record: types.BibliographicRecord{
				Authors:       []string{"Jane Mary Doe", "John Smith"},
				Title:         "Collected Letters",
				PublishedDate: "1975-01-01",
			},
			want: "Doe, J., M., Smith, J., Collected Letters (1975)",
		},
		{
			name: "empty author entries are skipped",
			record: types.BibliographicRecord{
				Authors:       []string{"", "Ada Lovelace", ""},
				Title:         "Notes",
				PublishedDate: "1843",
			},
			want: "Lovelace, A., Notes (1843)",
		},
		{
			name: "whitespace-only author is skipped",
			record: types.BibliographicRecord{
				Authors:       []string{"   ", "Ada Lovelace"},
				Title:         "Notes",
				PublishedDate: "1843-01-01",
			},
			want: "Lovelace, A., Notes (1843)",
		},
		{
			name: "whitespace-only author between names",
			record: types.BibliographicRecord{
				Authors:       []string{"John Smith", "\t", "Ada Lovelace"},
				Title:         "Notes",
				PublishedDate: "1843",
			},
			want: "Smith, J., Lovelace, A., Notes (1843)",
		},
		{
			name:   "empty title and date",
			record: types.BibliographicRecord{},
			want:   ",  ()",
		},
		{
			name: "pages are not part of the reference",
			record: types.BibliographicRecord{
				Authors:       []string{"Ada Lovelace"},
				Title:         "Notes",
				PublishedDate: "1843-01-01",
				StartPage:     "12",
				EndPage:       "40",
			},
			want: "Lovelace, A., Notes (1843)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bibliography(tt.record))
		})
	}
}

func TestNilAndAllEmptyAuthorsFormatTheSame(t *testing.T) {
	base := types.BibliographicRecord{Title: "T", PublishedDate: "2000"}
	withNil := base
	withEmpty := base
	withEmpty.Authors = []string{"", ""}
	withBlank := base
	withBlank.Authors = []string{"   "}

	assert.Equal(t, Bibliography(withNil), Bibliography(withEmpty))
	assert.Equal(t, Bibliography(withNil), Bibliography(withBlank))
	assert.Equal(t, ", T (2000)", Bibliography(withNil))
}

func TestSubtitleSegment(t *testing.T) {
	r := types.BibliographicRecord{Title: "T", PublishedDate: "2000"}
	assert.NotContains(t, Bibliography(r), ": ")

	r.Subtitle = "S"
	assert.Contains(t, Bibliography(r), "T: S (")
}

func TestTownSegment(t *testing.T) {
	r := types.BibliographicRecord{Title: "T", PublishedDate: "2000-01-01"}
	assert.Equal(t, ", T (2000)", Bibliography(r))

	r.Town = "Paris"
	assert.Equal(t, ", T (Paris, 2000)", Bibliography(r))
}

func TestFormatIsPure(t *testing.T) {
	r := types.BibliographicRecord{
		Authors:       []string{"Jane Mary Doe", "John Smith"},
		Title:         "Collected Letters",
		PublishedDate: "1975-01-01",
	}
	before := r.Clone()

	first := Bibliography(r)
	second := Bibliography(r)

	assert.Equal(t, first, second)
	assert.Equal(t, before, r)
}

// --- Footnote / Format ---

func TestFootnoteMatchesBibliography(t *testing.T) {
	r := types.BibliographicRecord{
		Authors:       []string{"Ada Lovelace"},
		Title:         "Notes",
		PublishedDate: "1843-01-01",
		Town:          "London",
	}
	assert.Equal(t, Bibliography(r), Footnote(r))
}

func TestFormatDispatch(t *testing.T) {
	r := types.BibliographicRecord{Authors: []string{"Ada Lovelace"}, Title: "Notes", PublishedDate: "1843"}

	got, err := Format(StyleFootnote, r)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace, A., Notes (1843)", got)

	got, err = Format(StyleBibliography, r)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace, A., Notes (1843)", got)

	_, err = Format(Style("apa"), r)
	assert.Error(t, err)
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"footnote", StyleFootnote, false},
		{"Bibliography", StyleBibliography, false},
		{"", StyleBibliography, false},
		{" FOOTNOTE ", StyleFootnote, false},
		{"mla", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
