package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlreport/internal/config"
	"github.com/nao1215/urlreport/internal/log"
)

// NewRootCmd creates the root command for urlreport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urlreport",
		Short: "Merge per-URL scan results into consolidated reports",
		Long: `urlreport merges the results of several security and quality scanners
into one report per URL.

The scanners store their output under a results directory, one directory per
URL named after the base64 of the URL and one sub-directory per run. urlreport
picks the latest run of a URL, reads every known report file and renders the
merged report as text, JSON or Markdown. Missing or broken files are reported
as such and never abort the report.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .urlreport in current or home directory)")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr in JSON format")

	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a redacting structured logger writing to the
// command's stderr, in JSON when --log-json is set.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	jsonLogs, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		jsonLogs = false
	}
	return newLogger(cmd.ErrOrStderr(), verbose, jsonLogs)
}

func newLogger(w io.Writer, verbose, jsonLogs bool) *slog.Logger {
	if jsonLogs {
		return log.NewSecureJSONLogger(w, verbose)
	}
	return log.NewSecureLogger(w, verbose)
}

// loadConfig builds a Config from the defaults and the configuration file.
// A missing file is only an error when its path was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	found := config.FindConfigFile(configPath)
	switch {
	case found != "":
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cfg.File = file
		file.Apply(cfg)
	case configPath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	return cfg, nil
}

// applyResultsFlag overrides the results directory when --results is set.
func applyResultsFlag(cmd *cobra.Command, cfg *config.Config) error {
	if !cmd.Flags().Changed("results") {
		return nil
	}
	dir, err := cmd.Flags().GetString("results")
	if err != nil {
		return err
	}
	cfg.ResultsDir = dir
	return nil
}

// applyDBDirFlag overrides the history database directory when --db-dir is set.
func applyDBDirFlag(cmd *cobra.Command, cfg *config.Config) error {
	if !cmd.Flags().Changed("db-dir") {
		return nil
	}
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	cfg.DBDir = dir
	return nil
}
