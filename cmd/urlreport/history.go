package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlreport/internal/config"
	"github.com/nao1215/urlreport/internal/database"
	"github.com/nao1215/urlreport/internal/report"
)

// historyTimeFormat is the layout of snapshot times in the history table.
const historyTimeFormat = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show the saved report snapshots of a URL",
		Long: `History lists the report snapshots saved with 'urlreport report --save'.

A snapshot is only saved when the merged report differs from the previous
snapshot of the same URL, so each line marks a change in the scan results.

Examples:
  # List the snapshots of a URL
  urlreport history https://www.example.com

  # Print a saved snapshot by ID
  urlreport history --show 5

  # Print a saved snapshot as JSON
  urlreport history --show 5 --json

  # Print the newest snapshot of a URL
  urlreport history --latest https://www.example.com

  # List every URL with saved snapshots
  urlreport history --list-urls`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-urls", "L", false,
		"List all URLs with saved snapshots")
	cmd.Flags().Int64P("show", "i", 0,
		"Print the snapshot with this ID (use the URL listing to see IDs)")
	cmd.Flags().BoolP("latest", "l", false,
		"Print the newest snapshot of the URL")
	cmd.Flags().BoolP("json", "j", false,
		"Print the snapshot in JSON format (with --show or --latest)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listURLs, err := cmd.Flags().GetBool("list-urls")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	latest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if !listURLs && showID == 0 && len(args) == 0 {
		return errors.New("url is required (use --list-urls to see saved URLs)")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyDBDirFlag(cmd, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(out, "No snapshot saved yet (use 'urlreport report --save').")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	switch {
	case listURLs:
		return listSavedURLs(ctx, out, db)
	case showID != 0:
		snap, err := db.GetSnapshot(ctx, showID)
		if err != nil {
			return err
		}
		if snap == nil {
			return fmt.Errorf("snapshot %d not found", showID)
		}
		return showSnapshot(out, snap, cfg, jsonOutput)
	case latest:
		snap, err := db.LatestSnapshot(ctx, args[0])
		if err != nil {
			return err
		}
		if snap == nil {
			fmt.Fprintf(out, "No snapshot found for %s\n", report.DisplayURL(args[0]))
			return nil
		}
		return showSnapshot(out, snap, cfg, jsonOutput)
	default:
		return listSnapshots(ctx, out, db, args[0])
	}
}

// listSavedURLs prints every URL with at least one snapshot.
func listSavedURLs(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	urls, err := db.ListURLs(ctx)
	if err != nil {
		return err
	}

	if len(urls) == 0 {
		fmt.Fprintln(out, "No snapshot saved yet.")
		return nil
	}

	fmt.Fprintln(out, "URLs with saved snapshots:")
	fmt.Fprintln(out)
	for _, url := range urls {
		fmt.Fprintf(out, "  %s\n", report.DisplayURL(url))
	}
	fmt.Fprintf(out, "\nTotal: %d URL(s)\n", len(urls))
	return nil
}

// listSnapshots prints the snapshot table of a URL.
func listSnapshots(ctx context.Context, out io.Writer, db *database.HistoryDB, url string) error {
	history, err := db.History(ctx, url)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Fprintf(out, "No snapshot found for %s\n", report.DisplayURL(url))
		return nil
	}

	fmt.Fprintf(out, "Snapshots of %s:\n\n", report.DisplayURL(url))
	fmt.Fprintf(out, "%-6s  %-19s  %-20s  %-9s  %s\n", "ID", "SAVED", "RUN", "REPORTS", "SCREENSHOT")
	fmt.Fprintln(out, strings.Repeat("-", 76))
	for _, snap := range history {
		saved := "-"
		if !snap.Timestamp.IsZero() {
			saved = snap.Timestamp.Format(historyTimeFormat)
		}
		reports := fmt.Sprintf("%d/%d", len(snap.Summary.Available), snap.Summary.Total())
		fmt.Fprintf(out, "%-6d  %-19s  %-20s  %-9s  %s\n",
			snap.ID, saved, snap.Run, reports, yesNo(snap.Screenshot))
	}
	fmt.Fprintf(out, "\nTotal: %d snapshot(s)\n", len(history))
	return nil
}

// showSnapshot prints a stored report with the report writers.
func showSnapshot(out io.Writer, snap *database.Snapshot, cfg *config.Config, jsonOutput bool) error {
	var w report.Writer
	if jsonOutput {
		w = report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	} else {
		w = report.NewSimpleWriter(out, report.WithTitles(cfg.File.Title))
	}
	_, err := w.Write(snap.Report)
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
