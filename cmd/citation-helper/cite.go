package main

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-helper/internal/cite"
	"github.com/pdiddy/citation-helper/internal/clipboard"
	"github.com/pdiddy/citation-helper/internal/search"
	"github.com/pdiddy/citation-helper/pkg/types"
)

// draftEdits holds the field changes requested on the command line. Nil
// pointers leave the seeded value alone.
type draftEdits struct {
	Title         *string
	Subtitle      *string
	PublishedDate *string
	StartPage     *string
	EndPage       *string
	Town          *string
	Authors       []string // replaces the list when non-empty
	SetAuthors    []string // "index=name"
	DeleteAuthors []int
	AddAuthors    []string
}

type citeOptions struct {
	From  string
	Index int
	Style string
	CSL   bool
	Copy  bool
	Edits draftEdits
}

var citeCmd = &cobra.Command{
	Use:   "cite",
	Short: "Build a footnote or bibliography reference",
	Long: `Cite opens a draft from one saved search result (--from, --index) or from an
empty record, applies the requested edits, and prints the reference.

The draft takes the title, subtitle, date and authors from the result. Pages
and town always start empty and are set with --start-page, --end-page and
--town. Author edits run in this order: --author (replaces the list),
--set-author, --delete-author (highest index first), --add-author.

With --csl the edited draft is printed as a CSL-YAML entry instead, including
its pages and town. Edits are never written back to the results file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCite(citeOptionsFromFlags(cmd), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	citeCmd.Flags().String("from", "", "results file written by search --save")
	citeCmd.Flags().Int("index", 0, "index of the result to cite")
	citeCmd.Flags().String("style", "bibliography", "citation style: footnote or bibliography")
	citeCmd.Flags().Bool("csl", false, "output the edited draft as CSL-YAML instead of a reference")
	citeCmd.Flags().Bool("copy", false, "copy the reference to the clipboard")

	citeCmd.Flags().String("title", "", "title")
	citeCmd.Flags().String("subtitle", "", "subtitle")
	citeCmd.Flags().String("date", "", "published date (YYYY-MM-DD or free text)")
	citeCmd.Flags().String("start-page", "", "first page")
	citeCmd.Flags().String("end-page", "", "last page")
	citeCmd.Flags().String("town", "", "town or city of publication")
	citeCmd.Flags().StringArray("author", nil, "author name (repeatable; replaces the seeded list)")
	citeCmd.Flags().StringArray("set-author", nil, "replace one author: INDEX=NAME (repeatable)")
	citeCmd.Flags().IntSlice("delete-author", nil, "delete the author at INDEX (repeatable)")
	citeCmd.Flags().StringArray("add-author", nil, "append an author (repeatable)")

	rootCmd.AddCommand(citeCmd)
}

func citeOptionsFromFlags(cmd *cobra.Command) citeOptions {
	f := cmd.Flags()
	var opts citeOptions
	opts.From, _ = f.GetString("from")
	opts.Index, _ = f.GetInt("index")
	opts.Style, _ = f.GetString("style")
	opts.CSL, _ = f.GetBool("csl")
	opts.Copy, _ = f.GetBool("copy")

	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	e := &opts.Edits
	e.Title = str("title")
	e.Subtitle = str("subtitle")
	e.PublishedDate = str("date")
	e.StartPage = str("start-page")
	e.EndPage = str("end-page")
	e.Town = str("town")
	e.Authors, _ = f.GetStringArray("author")
	e.SetAuthors, _ = f.GetStringArray("set-author")
	e.DeleteAuthors, _ = f.GetIntSlice("delete-author")
	e.AddAuthors, _ = f.GetStringArray("add-author")
	return opts
}

func runCite(opts citeOptions, stdout, stderr io.Writer) error {
	style, err := cite.ParseStyle(opts.Style)
	if err != nil {
		return err
	}

	var record types.BibliographicRecord
	if opts.From != "" {
		rf, err := search.ReadResultFile(opts.From)
		if err != nil {
			return err
		}
		record, err = rf.Record(opts.Index)
		if err != nil {
			return err
		}
	}

	d := cite.NewDraft(record)
	if err := applyEdits(d, opts.Edits); err != nil {
		return err
	}

	var ref string
	if opts.CSL {
		ref, err = draftCSL(d, record.Source)
	} else {
		ref, err = d.Format(style)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, ref)

	if opts.Copy {
		if err := clipboard.Copy(ref); err != nil {
			fmt.Fprintf(stderr, "notice: %s\n", clipboard.Notice(err))
		} else {
			fmt.Fprintln(stderr, clipboard.Notice(nil))
		}
	}
	return nil
}

// draftCSL renders the draft as a single CSL-YAML entry. source keeps the
// record's origin so archive drafts are still typed as manuscripts.
func draftCSL(d *cite.Draft, source string) (string, error) {
	r := d.Record()
	r.Source = source
	var buf bytes.Buffer
	if err := search.FormatCSL([]types.BibliographicRecord{r}, &buf); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func applyEdits(d *cite.Draft, e draftEdits) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.Title, e.Title)
	set(&d.Subtitle, e.Subtitle)
	set(&d.PublishedDate, e.PublishedDate)
	set(&d.StartPage, e.StartPage)
	set(&d.EndPage, e.EndPage)
	set(&d.Town, e.Town)

	if len(e.Authors) > 0 {
		d.SetAuthors(e.Authors)
	}

	for _, s := range e.SetAuthors {
		idx, name, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("--set-author %q: want INDEX=NAME", s)
		}
		i, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil {
			return fmt.Errorf("--set-author %q: bad index: %w", s, err)
		}
		if err := d.SetAuthor(i, name); err != nil {
			return err
		}
	}

	// Highest index first so earlier deletions do not shift later ones. A
	// repeated index names the same author, so it is deleted once.
	del := append([]int{}, e.DeleteAuthors...)
	sort.Sort(sort.Reverse(sort.IntSlice(del)))
	del = slices.Compact(del)
	for _, i := range del {
		if err := d.DeleteAuthor(i); err != nil {
			return err
		}
	}

	for _, name := range e.AddAuthors {
		if err := d.SetAuthor(d.AddAuthor(), name); err != nil {
			return err
		}
	}
	return nil
}
