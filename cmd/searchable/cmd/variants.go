package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchable/internal/domain/search/query"
	"github.com/kailas-cloud/searchable/internal/domain/search/variant"
)

func newVariantsCmd() *cobra.Command {
	var (
		wildcard bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "variants <text...>",
		Short: "Print the keyboard-layout variants of a search text",
		Long: `Variants shows how a search text is normalized and expanded into
layout rewrites before it is sent to the index. The original text is
printed first. No backend is contacted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := query.Normalize(strings.Join(args, " "), wildcard)
			texts := variant.Texts(variant.Generate(text))

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), texts)
			}
			for _, t := range texts {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&wildcard, "wildcard", "w", false, "Wrap the text in '*' before expanding")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON array")
	return cmd
}
