// Package aggregate builds URL reports from the results root.
//
// Generator.Generate is the single entry point: it resolves the URL to its
// directory, picks the latest run, loads every report file of that run and
// checks for the screenshot. A URL that was never scanned, or whose
// directory holds no run, yields a nil report and no error. Only a results
// root that cannot be reached is an error.
//
// Generation is a pure projection of the files on disk: nothing is written,
// cached or fetched over the network, and the same disk state always gives
// an equal report.
//
// BatchProcessor runs Generate for many URLs with bounded concurrency.
package aggregate
