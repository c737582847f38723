// Package api serves merged URL reports over HTTP.
//
// The router is read-only: every request resolves the latest run on disk
// through aggregate.Generator, exactly like the report command, and nothing
// is cached between requests.
//
// # Endpoints
//
//	GET /ping                            liveness probe
//	GET /api/v1/targets                  every URL found in the results directory
//	GET /api/v1/reports?url=<url>        report envelope of a URL
//	GET /api/v1/reports/{identifier}     same, addressed by URL identifier
//	GET /api/v1/runs?url=<url>           run labels of a URL, oldest first
//
// A URL that was never scanned answers 404, a results directory that cannot
// be read answers 500, so clients can tell "nothing yet" from a failure.
package api
