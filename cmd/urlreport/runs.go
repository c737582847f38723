package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlreport/internal/config"
	"github.com/nao1215/urlreport/internal/report"
	"github.com/nao1215/urlreport/internal/storage"
)

// NewRunsCmd creates the runs command.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs <url>",
		Short: "List the scan runs of a URL",
		Long: `Runs lists every run directory of a URL in ascending order and marks the
one the report command uses. The latest run is the greatest directory name in
plain string order.

Examples:
  urlreport runs https://www.example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runRunsCmd,
	}

	cmd.Flags().StringP("results", "r", config.DefaultResultsDir,
		"Results directory written by the scanners")

	return cmd
}

// runRunsCmd executes the runs command.
func runRunsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyResultsFlag(cmd, cfg); err != nil {
		return err
	}

	url := args[0]
	store := storage.NewStore(cfg.ResultsDir, storage.WithScreenshotFile(cfg.ScreenshotFile))
	out := cmd.OutOrStdout()

	id, known, err := store.Known(url)
	if err != nil {
		return err
	}
	if !known {
		fmt.Fprintf(out, "%s: not scanned yet\n", report.DisplayURL(url))
		return nil
	}

	runs, err := store.Runs(id)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "%s: no run\n", report.DisplayURL(url))
		return nil
	}

	latest := runs[len(runs)-1]
	fmt.Fprintf(out, "Runs of %s (%s):\n\n", report.DisplayURL(url), id)
	for _, run := range runs {
		marker := " "
		if run == latest {
			marker = "*"
		}
		screenshot := ""
		if store.HasScreenshot(id, run) {
			screenshot = "  [screenshot]"
		}
		fmt.Fprintf(out, "%s %s%s\n", marker, run, screenshot)
	}
	fmt.Fprintf(out, "\n* latest run, %d run(s)\n", len(runs))
	return nil
}
