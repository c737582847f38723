// Package artifact loads the per-tool report files of a scan run.
//
// Every tool writes one JSON document into the run directory. The set of
// tools is fixed and described by Catalog: the field name a report is
// published under, the file it is read from and the JSON shape it must have.
//
// Loading never fails. A file that is missing, unreadable, not JSON or of
// the wrong shape produces a Result whose Status says why, and the rest of
// the run is loaded as usual.
package artifact
