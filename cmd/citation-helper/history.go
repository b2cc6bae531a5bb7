package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-helper/internal/history"
	"github.com/pdiddy/citation-helper/internal/search"
	"github.com/pdiddy/citation-helper/pkg/types"
)

type historyOptions struct {
	Mode  string
	Limit int
	JSON  bool
	Clear bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or clear previously run searches",
	Long: `History lists the searches recorded in the history database (query, mode,
result count and any notice). Results and citations are not recorded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts historyOptions
		opts.Mode, _ = cmd.Flags().GetString("mode")
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Clear, _ = cmd.Flags().GetBool("clear")
		return runHistory(cmd.Context(), opts, appConfig.History, cmd.OutOrStdout())
	},
}

func init() {
	historyCmd.Flags().String("mode", "", "only show searches of this mode: "+search.ModeNames())
	historyCmd.Flags().Int("limit", 20, "maximum number of searches to show")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().Bool("clear", false, "delete all recorded searches")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(ctx context.Context, opts historyOptions, cfg types.HistoryConfig, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := history.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.Clear {
		n, err := store.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Cleared %d searches.\n", n)
		return nil
	}

	q := history.QueryOptions{Limit: opts.Limit}
	if opts.Mode != "" {
		mode, err := search.ParseMode(opts.Mode)
		if err != nil {
			return err
		}
		q.Mode = mode
	}

	entries, err := store.List(ctx, q)
	if err != nil {
		return err
	}
	if opts.JSON {
		return history.FormatJSON(entries, w)
	}
	history.FormatTable(entries, w)
	return nil
}
