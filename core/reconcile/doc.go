// Package reconcile implements the reconciliation engine that pairs a
// payment-processor feed with an accounting-ledger feed.
//
// Each record is classified as matched or exceptional within an amount
// tolerance and a date window. The engine is synchronous and works on
// finite in-memory record sets; every stage returns a new value and never
// mutates its input.
//
// # Stages
//
//  1. Normalization: temporal and monetary columns are parsed. Unparseable
//     values become nulls, and no row is dropped.
//  2. Duplicate detection: every row whose business key repeats inside its own
//     source is flagged (txn_id for the processor, external_id for the ledger).
//  3. Pass 1: full outer join on txn_id = external_id.
//  4. Pass 2: the unmatched subset is joined on the composite key
//     (user_id, amount rounded to cents, currency) within the date window.
//     Ties are resolved by smallest day distance, then smallest amount
//     difference, then txn_id, entry_id and external_id. Each record is used once.
//     A fallback pair replaces both one-sided pass-1 pairs it consumes, so a
//     ledger record paired here is not also reported as ledger-only.
//  5. Classification: a pair is matched only if keys, currency, dates,
//     amount and duplicate checks all pass. Exceptions carry reason codes.
//  6. Summary: row counts, match rate and exceptions by reason.
//
// # Usage
//
//	tol := reconcile.DefaultTolerance()
//	result, err := reconcile.RunRaw(processorRows, ledgerRows, tol)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Summary.MatchRatePct)
package reconcile
