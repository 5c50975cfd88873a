package reconcile

// FlagProcessorDuplicates returns a copy of records where every record whose
// TxnID occurs more than once is marked Duplicate. Empty keys are never grouped.
func FlagProcessorDuplicates(records []ProcessorRecord) []ProcessorRecord {
	out := make([]ProcessorRecord, len(records))
	copy(out, records)
	flagDuplicates(out, func(r *ProcessorRecord) string { return r.TxnID }, func(r *ProcessorRecord, dup bool) { r.Duplicate = dup })
	return out
}

// FlagLedgerDuplicates returns a copy of records where every record whose
// ExternalID occurs more than once is marked Duplicate.
func FlagLedgerDuplicates(records []LedgerRecord) []LedgerRecord {
	out := make([]LedgerRecord, len(records))
	copy(out, records)
	flagDuplicates(out, func(r *LedgerRecord) string { return r.ExternalID }, func(r *LedgerRecord, dup bool) { r.Duplicate = dup })
	return out
}

func flagDuplicates[T any](records []T, key func(*T) string, mark func(*T, bool)) {
	counts := make(map[string]int, len(records))
	for i := range records {
		if k := key(&records[i]); k != "" {
			counts[k]++
		}
	}
	for i := range records {
		k := key(&records[i])
		mark(&records[i], k != "" && counts[k] > 1)
	}
}
