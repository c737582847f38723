// Package report renders URL reports.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text output for terminal display
//   - JSONWriter and FullJSONWriter: JSON output for tool integration
//   - MarkdownWriter: Markdown output for sharing
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. A URL that has
// never been scanned is not an error: writers render it with
// WriteNotScanned.
package report
