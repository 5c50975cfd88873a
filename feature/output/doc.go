// Package output persists the result of a reconciliation run.
//
// Four tables (matched, exceptions, unmatched_processor, unmatched_ledger) share
// one flat row layout, Row, which is written:
//
//   - as CSV files plus summary.json into an output directory (WriteFiles),
//     staged in a temporary directory and renamed into place once complete;
//   - into a relational database through GORM (Sink), replacing same-named tables
//     inside a single transaction;
//   - into object storage under <prefix>/<run-id>/ (Mirror).
package output
