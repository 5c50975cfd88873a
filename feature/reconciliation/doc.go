// Package reconciliation orchestrates reconciliation runs and serves them over HTTP.
//
// The Service loads both feeds, runs the engine, writes the output files and
// hands the result to the configured sinks and the object mirror. Uploaded runs
// are kept in an in-memory cache for a limited time; identical concurrent uploads
// share a single run.
//
// # Routes
//
//   - GET /health
//   - POST /reconcile (multipart "processor" and "ledger" files; optional
//     amount_tolerance and date_window query parameters)
//   - GET /reconcile/runs/:id
package reconciliation
