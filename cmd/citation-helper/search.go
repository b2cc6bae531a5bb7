package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/citation-helper/internal/history"
	"github.com/pdiddy/citation-helper/internal/search"
	"github.com/pdiddy/citation-helper/pkg/types"
)

// errNoResults is returned when a search failed without producing records,
// so the process exits non-zero after the notice has been printed.
var errNoResults = errors.New("search produced no results")

type searchOptions struct {
	Mode       string
	Text       string
	MaxResults int
	JSON       bool
	CSL        bool
	Save       string
}

var searchCmd = &cobra.Command{
	Use:   "search [flags] <text...>",
	Short: "Search the book catalog or the national archive",
	Long: `Search sends the text to one source, selected by --mode:

  catalog   Google Books volumes
  archive   The National Archives Discovery records

Results are listed with their index, which cite --index refers to when the
list is saved with --save. Every search replaces the previous results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := searchOptions{Text: strings.Join(args, " ")}
		opts.Mode, _ = cmd.Flags().GetString("mode")
		opts.MaxResults, _ = cmd.Flags().GetInt("max-results")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.CSL, _ = cmd.Flags().GetBool("csl")
		opts.Save, _ = cmd.Flags().GetString("save")
		return runSearch(cmd.Context(), opts, appConfig, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	searchCmd.Flags().StringP("mode", "m", string(search.ModeCatalog), "source to search: "+search.ModeNames())
	searchCmd.Flags().Int("max-results", 0, "number of results to request (default from config)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	searchCmd.Flags().String("save", "", "write the results to a YAML file for use with cite --from")
	searchCmd.MarkFlagsMutuallyExclusive("json", "csl")

	rootCmd.AddCommand(searchCmd)
}

// runSearch performs one search and renders it. Network and malformed
// response errors are printed as notices; partial results are still shown.
func runSearch(ctx context.Context, opts searchOptions, cfg types.AppConfig, log *zap.Logger, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mode, err := search.ParseMode(opts.Mode)
	if err != nil {
		return err
	}
	if opts.MaxResults > 0 {
		cfg.Catalog.MaxResults = opts.MaxResults
		cfg.Archive.MaxResults = opts.MaxResults
	}

	session, closeSession := newSession(cfg, log)
	defer closeSession()

	fmt.Fprintf(stderr, "Searching %s for %q...\n", mode, opts.Text)
	records, searchErr := session.Search(ctx, mode, opts.Text)
	if searchErr != nil {
		if errors.Is(searchErr, search.ErrEmptyQuery) || errors.Is(searchErr, search.ErrUnknownMode) {
			return searchErr
		}
		fmt.Fprintf(stderr, "notice: %v\n", searchErr)
	}

	if opts.Save != "" && (searchErr == nil || len(records) > 0) {
		if err := search.WriteResultFile(opts.Save, mode, opts.Text, records, searchErr); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Saved %d results to %s\n", len(records), opts.Save)
	}

	switch {
	case opts.CSL:
		if err := search.FormatCSL(records, stdout); err != nil {
			return err
		}
	case opts.JSON:
		if err := search.FormatJSON(records, stdout); err != nil {
			return err
		}
	default:
		search.FormatTable(records, stdout)
	}

	if searchErr != nil && len(records) == 0 {
		return errNoResults
	}
	return nil
}

// newSession wires both sources and, when enabled, the history store. A
// history database that cannot be opened only produces a warning.
func newSession(cfg types.AppConfig, log *zap.Logger) (*search.Session, func()) {
	sources := []search.Source{
		search.NewCatalogSource(cfg.HTTP, cfg.Catalog, log),
		search.NewArchiveSource(cfg.HTTP, cfg.Archive, log),
	}
	opts := []search.SessionOption{search.WithLogger(log)}
	closeFn := func() {}

	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			log.Warn("search history disabled", zap.String("path", cfg.History.Path), zap.Error(err))
		} else {
			opts = append(opts, search.WithRecorder(store))
			closeFn = func() { store.Close() }
		}
	}

	return search.NewSession(sources, opts...), closeFn
}
