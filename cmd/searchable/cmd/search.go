package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchable/internal/domain/search/query"
)

type searchResult struct {
	ID         string         `json:"id"`
	Score      float64        `json:"score"`
	Attributes map[string]any `json:"attributes"`
}

type searchOptions struct {
	wildcard bool
	lenient  bool
	idsOnly  bool
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	opts := searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <entity> <text...>",
		Short: "Search records of an entity",
		Long: `Search runs the layout-aware fuzzy query against the index and prints
the matching records as JSON, best match first.

Examples:
  searchable search post ghbdtn vbh
  searchable search post --wildcard java`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return runSearch(cmd.Context(), cmd, flags, args[0], text, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.wildcard, "wildcard", "w", false, "Wrap the text in '*' for substring matching")
	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "Override the entity's lenient setting")
	cmd.Flags().BoolVar(&opts.idsOnly, "ids", false, "Print matching ids with scores, skip record lookup")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, flags *globalFlags, entityName, text string, opts searchOptions) error {
	a, err := bootstrap(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	svc, err := a.searches.Get(entityName)
	if err != nil {
		return err
	}

	qopts := query.Options{Wildcard: opts.wildcard}
	if cmd.Flags().Changed("lenient") {
		qopts.Lenient = &opts.lenient
	}

	out := cmd.OutOrStdout()
	if opts.idsOnly {
		hits, err := svc.Hits(ctx, text, qopts)
		if err != nil {
			return fmt.Errorf("search %s: %w", entityName, err)
		}
		for _, h := range hits {
			fmt.Fprintf(out, "%s\t%.4f\n", h.ID, h.Score)
		}
		return nil
	}

	results, err := svc.Search(ctx, text, qopts)
	if err != nil {
		return fmt.Errorf("search %s: %w", entityName, err)
	}

	items := make([]searchResult, 0, len(results))
	for _, r := range results {
		items = append(items, searchResult{
			ID:         r.Record.ID(),
			Score:      r.Score,
			Attributes: r.Record.Attributes(),
		})
	}
	return writeJSON(out, items)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
