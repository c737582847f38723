// Package main provides the entry point for the urlreport CLI.
//
// urlreport merges the per-tool scan results stored under a results
// directory into one report per URL. It never scans by itself: the
// scanners write one directory per URL and one sub-directory per run, and
// urlreport reads the latest run.
//
// Usage:
//
//	urlreport report https://www.example.com
//	urlreport report --all --markdown -o report.md
//	urlreport list
//
// See --help for all available options.
package main

func main() {
	Execute()
}
