package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/urlreport/internal/model"
)

// DBFileName is the name of the database file inside the database directory.
const DBFileName = "urlreport.db"

// HistoryDB stores report snapshots in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ErrDatabaseNotFound is returned by Open when the database file does not
// exist and CreateIfNotExists is false.
var ErrDatabaseNotFound = errors.New("database not found")

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist,
// ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS report_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		identifier TEXT NOT NULL,
		run TEXT NOT NULL,
		digest TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		screenshot INTEGER NOT NULL DEFAULT 0,
		summary_json TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_url ON report_snapshots(url);
	CREATE INDEX IF NOT EXISTS idx_snapshots_timestamp ON report_snapshots(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Snapshot is a stored report.
type Snapshot struct {
	// ID is the unique identifier of the snapshot in the database.
	ID int64

	// URL is the reported URL.
	URL string

	// Identifier is the directory name of the URL under the results root.
	Identifier string

	// Run is the run label the report was built from.
	Run string

	// Digest is the SHA3-256 of the report object.
	Digest string

	// Timestamp is when the snapshot was saved.
	Timestamp time.Time

	// Screenshot is true when the run had a screenshot.
	Screenshot bool

	// Summary counts the fields by outcome.
	Summary model.Summary

	// Report is the stored report. It is nil in History results.
	Report *model.URLReport
}

// SaveSnapshot stores report unless the latest snapshot of the same URL has
// the same digest. It returns the id of the new snapshot, or of the latest
// one when nothing was saved, and whether a row was inserted.
func (hdb *HistoryDB) SaveSnapshot(ctx context.Context, report *model.URLReport) (int64, bool, error) {
	if report == nil {
		return 0, false, errors.New("cannot save a nil report")
	}

	digest, err := report.Digest()
	if err != nil {
		return 0, false, fmt.Errorf("failed to digest report: %w", err)
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, false, fmt.Errorf("failed to serialize report: %w", err)
	}
	summaryJSON, err := json.Marshal(report.Summary())
	if err != nil {
		return 0, false, fmt.Errorf("failed to serialize summary: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		latestID     int64
		latestDigest string
	)
	err = tx.QueryRowContext(ctx, `
	SELECT id, digest FROM report_snapshots
	WHERE url = ?
	ORDER BY id DESC
	LIMIT 1
	`, report.URL).Scan(&latestID, &latestDigest)
	switch {
	case err == nil && latestDigest == digest:
		return latestID, false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return 0, false, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
	INSERT INTO report_snapshots (url, identifier, run, digest, screenshot, summary_json, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		report.URL,
		report.Identifier,
		report.Run,
		digest,
		report.Screenshot,
		string(summaryJSON),
		string(reportJSON),
	)
	if err != nil {
		return 0, false, fmt.Errorf("failed to save snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get snapshot id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return id, true, nil
}

// History returns the snapshots of url, newest first, without their report.
func (hdb *HistoryDB) History(ctx context.Context, url string) ([]Snapshot, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT id, url, identifier, run, digest, timestamp, screenshot, summary_json
	FROM report_snapshots
	WHERE url = ?
	ORDER BY id DESC
	`, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []Snapshot
	for rows.Next() {
		var (
			snap        Snapshot
			timestamp   string
			summaryJSON sql.NullString
		)
		if err := rows.Scan(
			&snap.ID,
			&snap.URL,
			&snap.Identifier,
			&snap.Run,
			&snap.Digest,
			&timestamp,
			&snap.Screenshot,
			&summaryJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		snap.Timestamp = parseTimestamp(timestamp)
		snap.Summary = parseSummary(summaryJSON, snap.URL, snap.Run)
		results = append(results, snap)
	}

	return results, rows.Err()
}

// GetSnapshot retrieves a snapshot with its report by database ID.
// It returns nil when no snapshot has that id.
func (hdb *HistoryDB) GetSnapshot(ctx context.Context, id int64) (*Snapshot, error) {
	return hdb.getSnapshot(ctx, `
	SELECT id, url, identifier, run, digest, timestamp, screenshot, summary_json, report_json
	FROM report_snapshots
	WHERE id = ?
	`, id)
}

// LatestSnapshot retrieves the newest snapshot of url with its report.
// It returns nil when url has no snapshot.
func (hdb *HistoryDB) LatestSnapshot(ctx context.Context, url string) (*Snapshot, error) {
	return hdb.getSnapshot(ctx, `
	SELECT id, url, identifier, run, digest, timestamp, screenshot, summary_json, report_json
	FROM report_snapshots
	WHERE url = ?
	ORDER BY id DESC
	LIMIT 1
	`, url)
}

// getSnapshot runs a query returning at most one full snapshot row.
func (hdb *HistoryDB) getSnapshot(ctx context.Context, query string, args ...any) (*Snapshot, error) {
	var (
		snap        Snapshot
		timestamp   string
		summaryJSON sql.NullString
		reportJSON  string
	)
	err := hdb.db.QueryRowContext(ctx, query, args...).Scan(
		&snap.ID,
		&snap.URL,
		&snap.Identifier,
		&snap.Run,
		&snap.Digest,
		&timestamp,
		&snap.Screenshot,
		&summaryJSON,
		&reportJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	report := model.NewURLReport(snap.URL, snap.Identifier, snap.Run)
	if err := json.Unmarshal([]byte(reportJSON), report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	snap.Timestamp = parseTimestamp(timestamp)
	snap.Summary = parseSummary(summaryJSON, snap.URL, snap.Run)
	snap.Report = report
	return &snap, nil
}

// ListURLs returns every URL with at least one snapshot.
func (hdb *HistoryDB) ListURLs(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT DISTINCT url FROM report_snapshots
	ORDER BY url
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, url)
	}

	return urls, rows.Err()
}

// parseSummary decodes a stored summary. A missing or broken value yields a
// summary holding only the metadata.
func parseSummary(raw sql.NullString, url, run string) model.Summary {
	summary := model.Summary{URL: url, Run: run}
	if raw.Valid && raw.String != "" {
		if err := json.Unmarshal([]byte(raw.String), &summary); err != nil {
			return model.Summary{URL: url, Run: run}
		}
	}
	return summary
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
