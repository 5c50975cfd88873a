package reconcile

// ExactJoin performs the pass-1 full outer join of processor records (TxnID)
// against ledger records (ExternalID).
//
// Every record appears in at least one pair. A key repeated on both sides yields
// the cross product of its rows. Pairs are ordered by processor input order,
// followed by the unjoined ledger records in ledger input order.
// The returned pairs point into the given slices, which are not modified.
func ExactJoin(processors []ProcessorRecord, ledgers []LedgerRecord) []Pair {
	byExternalID := make(map[string][]int, len(ledgers))
	for i := range ledgers {
		if id := ledgers[i].ExternalID; id != "" {
			byExternalID[id] = append(byExternalID[id], i)
		}
	}

	joined := make([]bool, len(ledgers))
	pairs := make([]Pair, 0, len(processors)+len(ledgers))

	for i := range processors {
		p := &processors[i]
		matches := byExternalID[p.TxnID]
		if p.TxnID == "" || len(matches) == 0 {
			pairs = append(pairs, Pair{
				Processor:    p,
				Provenance:   ProvenanceProcessorOnly,
				Pass:         PassExact,
				DupProcessor: p.Duplicate,
			})
			continue
		}
		for _, j := range matches {
			joined[j] = true
			pairs = append(pairs, Pair{
				Processor:    p,
				Ledger:       &ledgers[j],
				Provenance:   ProvenanceBoth,
				Pass:         PassExact,
				DupProcessor: p.Duplicate,
				DupLedger:    ledgers[j].Duplicate,
			})
		}
	}

	for j := range ledgers {
		if joined[j] {
			continue
		}
		pairs = append(pairs, Pair{
			Ledger:     &ledgers[j],
			Provenance: ProvenanceLedgerOnly,
			Pass:       PassExact,
			DupLedger:  ledgers[j].Duplicate,
		})
	}

	return pairs
}
