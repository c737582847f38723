package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlreport/internal/config"
	"github.com/nao1215/urlreport/internal/report"
	"github.com/nao1215/urlreport/internal/storage"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the URLs found in the results directory",
		Long: `List decodes every URL directory of the results directory and prints the
URL with its number of runs and its latest run.

Directories whose name is not a URL identifier are ignored; use --verbose to
see them. An identifier is the base64 of the URL and may contain '/', which
nests it in subdirectories; such URLs are not listed here, but report and
runs still find them by URL.

Examples:
  urlreport list
  urlreport list --results /srv/scans`,
		Args: cobra.NoArgs,
		RunE: runListCmd,
	}

	cmd.Flags().StringP("results", "r", config.DefaultResultsDir,
		"Results directory written by the scanners")

	return cmd
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyResultsFlag(cmd, cfg); err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)
	store := storage.NewStore(cfg.ResultsDir)

	targets, skipped, err := store.Targets()
	if err != nil {
		return err
	}
	for _, name := range skipped {
		logger.Debug("not a url directory", "name", name)
	}

	printTargets(cmd.OutOrStdout(), targets, cfg.File.Title)
	return nil
}

// printTargets writes the target table.
func printTargets(w io.Writer, targets []storage.Target, title report.TitleFunc) {
	if len(targets) == 0 {
		fmt.Fprintln(w, "No scanned URL found.")
		return
	}

	fmt.Fprintf(w, "%-50s %5s  %s\n", "URL", "RUNS", "LATEST")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, t := range targets {
		name := report.DisplayURL(t.URL)
		if title != nil {
			if s := title(t.URL); s != t.URL && s != "" {
				name += " (" + s + ")"
			}
		}
		latest := t.LatestRun
		if latest == "" {
			latest = "-"
		}
		fmt.Fprintf(w, "%-50s %5d  %s\n", name, t.Runs, latest)
	}
	fmt.Fprintf(w, "\nTotal: %d URL(s)\n", len(targets))
}
