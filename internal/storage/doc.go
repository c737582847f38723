// Package storage resolves URLs to their scan results on disk.
//
// The scanning side writes every run of every URL into a fixed layout:
//
//	{root}/{identifier}/{run}/{artifact}
//
// where identifier is the standard base64 encoding of the raw URL and run is
// a label whose lexicographic order is its chronological order (zero-padded
// epoch seconds or an ISO-like timestamp). This package maps a URL to its
// identifier, decides whether the URL has been scanned at all, picks the
// latest run and checks for the screenshot of that run.
//
// Nothing in this package writes to the results root.
package storage
