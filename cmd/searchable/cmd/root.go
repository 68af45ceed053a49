// Package cmd provides the CLI commands for searchable.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchable/internal/config"
	"github.com/kailas-cloud/searchable/internal/logger"
	"github.com/kailas-cloud/searchable/internal/metrics"
	"github.com/kailas-cloud/searchable/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	env        string
	configPath string
	logLevel   string
}

// NewRootCmd creates the root command for the searchable CLI.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "searchable",
		Short: "Full-text search over application records",
		Long: `searchable keeps a search index in sync with stored records and answers
fuzzy queries, including text typed in the wrong keyboard layout.

Run 'searchable serve' to start the HTTP API.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("searchable version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&flags.env, "env", config.GetEnv(), "Environment name, selects config/<env>.yaml")
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a config file (overrides --env lookup)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newSearchCmd(flags))
	cmd.AddCommand(newVariantsCmd())
	cmd.AddCommand(newReindexCmd(flags))
	cmd.AddCommand(newPurgeCmd(flags))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (f *globalFlags) load() (config.Config, error) {
	if f.configPath != "" {
		return config.LoadFile(f.configPath)
	}
	return config.Load(f.env)
}

// bootstrap loads config, builds the logger and opens the backends.
// The caller must Close the returned app.
func bootstrap(ctx context.Context, f *globalFlags) (*app, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if f.logLevel != "" {
		level = f.logLevel
	}
	log, err := logger.NewLogger(f.env, level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics.RegisterSearchMetrics()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("Bootstrap failed", zap.Error(err))
		_ = log.Sync()
		return nil, err
	}
	return a, nil
}
