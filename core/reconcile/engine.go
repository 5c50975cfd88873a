package reconcile

// Run reconciles normalized processor records against ledger records.
//
// The stages run in order, each producing a new value from the previous one:
// duplicate flags, pass-1 exact join, pass-2 fallback delta, merge,
// classification, partition and summary. The inputs are not modified.
func Run(processors []ProcessorRecord, ledgers []LedgerRecord, tol Tolerance) (*Result, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}

	flaggedProcessors := FlagProcessorDuplicates(processors)
	flaggedLedgers := FlagLedgerDuplicates(ledgers)

	pairs := ExactJoin(flaggedProcessors, flaggedLedgers)
	pairs = ApplyFallback(pairs, FallbackJoin(pairs, tol))

	decisions := ClassifyAll(pairs, tol)
	matched, exceptions, unmatchedProcessor, unmatchedLedger := Partition(decisions)

	return &Result{
		Decisions:          decisions,
		Matched:            matched,
		Exceptions:         exceptions,
		UnmatchedProcessor: unmatchedProcessor,
		UnmatchedLedger:    unmatchedLedger,
		Summary:            Summarize(decisions, tol),
	}, nil
}

// RunRaw normalizes raw rows and reconciles them.
func RunRaw(processorRows, ledgerRows []RawRow, tol Tolerance) (*Result, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	return Run(NormalizeProcessor(processorRows), NormalizeLedger(ledgerRows), tol)
}
