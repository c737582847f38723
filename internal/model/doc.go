// Package model defines the URL report produced by the aggregator.
//
// A URLReport is built from the latest scan run of a URL. It keeps the load
// result of every report kind of the catalog, so a missing tool output and a
// corrupt one can still be told apart in memory, while its JSON form only
// distinguishes a document from null.
package model
