package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReindexCmd(flags *globalFlags) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "reindex <entity>",
		Short: "Rebuild the index of an entity from stored records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReindex(cmd.Context(), cmd, flags, args[0], purge)
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "Drop every indexed document of the entity first")
	return cmd
}

func newPurgeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <entity>",
		Short: "Drop every indexed document of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			e, err := a.catalog.Get(args[0])
			if err != nil {
				return err
			}
			if err := a.indexing.Purge(cmd.Context(), e); err != nil {
				return fmt.Errorf("purge %s: %w", e.Name(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", e.Name())
			return nil
		},
	}
}

func runReindex(ctx context.Context, cmd *cobra.Command, flags *globalFlags, entityName string, purge bool) error {
	a, err := bootstrap(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := a.catalog.Get(entityName)
	if err != nil {
		return err
	}

	if purge {
		if err := a.indexing.Purge(ctx, e); err != nil {
			return fmt.Errorf("purge %s: %w", e.Name(), err)
		}
	}

	start := time.Now()
	n, err := a.indexing.Reindex(ctx, e)
	if err != nil {
		return fmt.Errorf("reindex %s after %d records: %w", e.Name(), n, err)
	}

	a.logger.Info("Reindex finished",
		zap.String("entity", e.Name()),
		zap.Int("indexed", n),
		zap.Duration("took", time.Since(start)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d %s records\n", n, e.Name())
	return nil
}
