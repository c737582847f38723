// Package database provides SQLite-based storage of report snapshots.
//
// Each time a report is saved with `urlreport report --save`, the merged
// report object is stored together with its run, its digest and a summary
// of the field outcomes. A snapshot is skipped when its digest equals the
// one of the latest snapshot of the same URL, so the history only grows
// when the content of the reports changes.
//
// The database is a file in the XDG data directory, opened through the
// CGO-free modernc.org/sqlite driver. The report generator never reads it.
package database
