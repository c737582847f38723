package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlreport/internal/aggregate"
	"github.com/nao1215/urlreport/internal/config"
	"github.com/nao1215/urlreport/internal/database"
	"github.com/nao1215/urlreport/internal/model"
	"github.com/nao1215/urlreport/internal/report"
	"github.com/nao1215/urlreport/internal/storage"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [url...]",
		Short: "Generate the merged report of one or more URLs",
		Long: `Report reads the latest run of each URL and merges its report files.

The URL must be written exactly as the scanners received it: no
normalization is applied, so "https://a.com" and "https://a.com/" are two
different URLs. A URL that was never scanned is reported as "not scanned yet"
and is not an error. A results directory that cannot be read is an error.

Examples:
  # Report on a single URL
  urlreport report https://www.example.com

  # Report on every URL of the configuration file
  urlreport report --all

  # Write one JSON document per URL to a file
  urlreport report --json -o reports.json https://a.com https://b.com

  # Print the bare merged object, one per URL
  urlreport report --raw https://www.example.com

  # Write Markdown to a file and a summary line to the terminal
  urlreport report --markdown -o report.md --tee https://www.example.com

  # Markdown report, saving a snapshot in the history database
  urlreport report --markdown --save https://www.example.com

  # Read results from another directory
  urlreport report --results /srv/scans https://www.example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runReportCmd,
	}

	// Target flags
	cmd.Flags().BoolP("all", "a", false,
		"Report on every URL listed in the configuration file")
	cmd.Flags().StringP("results", "r", config.DefaultResultsDir,
		"Results directory written by the scanners")
	cmd.Flags().IntP("batch", "b", config.DefaultConcurrency,
		"Number of URLs processed concurrently")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().Bool("raw", false,
		"Output the bare JSON report object without metadata (implies --json)")
	cmd.Flags().BoolP("summary", "S", false,
		"Print one line per URL instead of the full text report")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"Also print one summary line per URL to stdout (with --output)")
	cmd.Flags().BoolP("save", "s", false,
		"Save a snapshot of each report in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildReportConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runReport(ctx, cfg, cmd.OutOrStdout(), summary, logger)
}

// buildReportConfig creates a Config from the configuration file and the
// command flags. Flags win over the file.
func buildReportConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := applyResultsFlag(cmd, cfg); err != nil {
		return nil, err
	}
	if err := applyDBDirFlag(cmd, cfg); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("batch") {
		cfg.Concurrency, err = cmd.Flags().GetInt("batch")
		if err != nil {
			return nil, err
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.RawJSON, err = cmd.Flags().GetBool("raw")
	if err != nil {
		return nil, err
	}
	if cfg.RawJSON {
		cfg.JSONReport = true
	}

	cfg.Tee, err = cmd.Flags().GetBool("tee")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return nil, err
	}
	if all {
		cfg.URLs = append(cfg.URLs, cfg.File.URLList()...)
	}
	cfg.URLs = append(cfg.URLs, args...)

	return cfg, nil
}

// runReport generates the reports of cfg.URLs and writes them in input
// order. Per-URL storage failures are logged, the remaining URLs are still
// reported and the failures are returned joined.
func runReport(ctx context.Context, cfg *config.Config, stdout io.Writer, summary bool, logger *slog.Logger) error {
	logger.Info("starting report",
		"urls", len(cfg.URLs),
		"results", cfg.ResultsDir,
		"concurrency", cfg.Concurrency,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	store := storage.NewStore(cfg.ResultsDir, storage.WithScreenshotFile(cfg.ScreenshotFile))
	generator := aggregate.NewGenerator(store, aggregate.WithLogger(logger))
	bp := aggregate.NewBatchProcessor(generator,
		aggregate.WithConcurrency(cfg.Concurrency),
		aggregate.WithBatchLogger(logger),
	)

	results, err := bp.ProcessBatch(ctx, cfg.URLs)
	if err != nil {
		return err
	}

	writer := newReportWriter(cfg, output, summary)
	if cfg.Tee && cfg.ReportFile != "" {
		writer = report.NewMultiWriter(writer, report.NewSimpleWriter(stdout, report.WithCompact(true)))
	}
	var failures []error
	for _, res := range results {
		if res.Err != nil {
			logger.Error("report failed", "url", res.URL, "error", res.Err)
			failures = append(failures, fmt.Errorf("%s: %w", res.URL, res.Err))
			continue
		}

		if res.Report == nil {
			if _, err := writer.WriteNotScanned(res.URL); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			continue
		}

		if _, err := writer.Write(res.Report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		if err := saveSnapshot(ctx, db, res.Report, logger); err != nil {
			logger.Error("failed to save snapshot", "url", res.URL, "error", err)
			failures = append(failures, err)
		}
	}

	return errors.Join(failures...)
}

// newReportWriter returns the writer of the requested format.
func newReportWriter(cfg *config.Config, output io.Writer, summary bool) report.Writer {
	switch {
	case cfg.RawJSON:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output,
			report.WithMarkdownTitles(cfg.File.Title),
			report.WithMarkdownVerbose(cfg.Verbose),
		)
	default:
		return report.NewSimpleWriter(output,
			report.WithTitles(cfg.File.Title),
			report.WithVerbose(cfg.Verbose),
			report.WithCompact(summary),
		)
	}
}

// openOutput returns the report destination: path when set, stdout
// otherwise. The returned function closes the file.
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain sensitive information that should only be readable by the owner
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// saveSnapshot saves the report to the history database.
// If db is nil, this function is a no-op.
func saveSnapshot(ctx context.Context, db *database.HistoryDB, r *model.URLReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, saved, err := db.SaveSnapshot(ctx, r)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if saved {
		logger.Info("snapshot saved", "url", r.URL, "run", r.Run, "id", id)
	} else {
		logger.Info("snapshot unchanged", "url", r.URL, "run", r.Run, "id", id)
	}
	return nil
}
