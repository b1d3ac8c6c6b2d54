// Package main provides the corpus_merge command line tool, which merges an
// external case-law corpus into the internal cluster store.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/corpus-merge/internal/config"
	"github.com/jonathan/corpus-merge/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "corpus_merge",
	Short: "Merge an external case-law corpus into the internal cluster store",
	Long: `corpus_merge imports case-law documents, resolves their courts, matches them against existing clusters and reconciles their fields. Conflicts are queued for review.

Configuration can be loaded from a YAML file using --config. Command-line arguments override config file values.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

var (
	configPath string
	verbose    bool
	logLevel   string
	logFormat  string

	// cfg and logger are populated before any command runs
	cfg    config.Config
	logger = zerolog.Nop()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	var loaded config.Config
	if configPath != "" {
		c, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		loaded = *c
	}
	loaded.ApplyEnv()

	if cmd.Flags().Changed("log-level") {
		loaded.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		loaded.Logging.Format = logFormat
	}

	loaded = loaded.MergeWithDefaults(config.Defaults())
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	l, err := observability.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logger = l
	if verbose && configPath != "" {
		logger.Debug().Str("path", configPath).Msg("loaded config")
	}
	return nil
}

func main() {
	// Load .env file if it exists
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
