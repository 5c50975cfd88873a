// Package ingest loads the processor and ledger feeds as header-indexed rows.
//
// A feed is a CSV file with a header row, read from a local path or from an
// object in the configured store (s3://bucket/key). Header names are matched
// case-insensitively, extra columns are ignored and a missing required column
// fails the load with ErrMissingColumns. Field values are passed through as text;
// parsing happens in the reconciliation engine.
package ingest
