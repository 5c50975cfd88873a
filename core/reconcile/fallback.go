package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FallbackMatch associates a processor-only pair with a ledger-only pair
// found by the composite-key heuristic. Indices refer to the pass-1 pair slice.
type FallbackMatch struct {
	ProcessorPair int
	LedgerPair    int
	// DayDiff is the whole-day distance between settlement and posting.
	DayDiff int
}

// fallbackKey is the composite key (user, amount rounded to cents, currency).
type fallbackKey struct {
	userID   string
	amount   string
	currency string
}

func makeFallbackKey(userID string, amount decimal.NullDecimal, currency string) (fallbackKey, bool) {
	if userID == "" || currency == "" || !amount.Valid {
		return fallbackKey{}, false
	}
	return fallbackKey{
		userID:   userID,
		amount:   amount.Decimal.Round(2).StringFixed(2),
		currency: currency,
	}, true
}

type fallbackEdge struct {
	FallbackMatch
	amountDiff decimal.Decimal
	txnID      string
	entryID    string
	externalID string
}

// FallbackJoin runs pass 2 over the unmatched subset of pass-1 pairs.
//
// Processor-only and ledger-only pairs are joined on the composite key
// (user_id, amount rounded to 2 decimals, currency). A candidate is kept only if
// settlement and posting dates are both present and at most DateWindowDays apart.
//
// Selection is one-to-one and independent of input order: candidates are ranked by
// day distance, then absolute amount difference, then txn_id, entry_id and external_id,
// and accepted best-first while neither side has been used.
// The result is a delta sorted by processor pair index; pairs is not modified.
func FallbackJoin(pairs []Pair, tol Tolerance) []FallbackMatch {
	ledgerByKey := make(map[fallbackKey][]int)
	for i := range pairs {
		l := pairs[i].Ledger
		if pairs[i].Provenance != ProvenanceLedgerOnly || l == nil || l.ExternalID == "" {
			continue
		}
		if key, ok := makeFallbackKey(l.UserID, l.Amount, l.Currency); ok {
			ledgerByKey[key] = append(ledgerByKey[key], i)
		}
	}
	if len(ledgerByKey) == 0 {
		return nil
	}

	var edges []fallbackEdge
	for i := range pairs {
		p := pairs[i].Processor
		if pairs[i].Provenance != ProvenanceProcessorOnly || p == nil || p.TxnID == "" {
			continue
		}
		key, ok := makeFallbackKey(p.UserID, p.Amount, p.Currency)
		if !ok || !p.SettledAt.Valid {
			continue
		}
		for _, j := range ledgerByKey[key] {
			l := pairs[j].Ledger
			if !l.PostingDate.Valid {
				continue
			}
			days := dayDistance(p.SettledAt.Time, l.PostingDate.Time)
			if days > tol.DateWindowDays {
				continue
			}
			edges = append(edges, fallbackEdge{
				FallbackMatch: FallbackMatch{ProcessorPair: i, LedgerPair: j, DayDiff: days},
				amountDiff:    p.Amount.Decimal.Sub(l.Amount.Decimal).Abs(),
				txnID:         p.TxnID,
				entryID:       l.EntryID,
				externalID:    l.ExternalID,
			})
		}
	}

	sort.Slice(edges, func(a, b int) bool {
		ea, eb := edges[a], edges[b]
		if ea.DayDiff != eb.DayDiff {
			return ea.DayDiff < eb.DayDiff
		}
		if c := ea.amountDiff.Cmp(eb.amountDiff); c != 0 {
			return c < 0
		}
		if ea.txnID != eb.txnID {
			return ea.txnID < eb.txnID
		}
		if ea.entryID != eb.entryID {
			return ea.entryID < eb.entryID
		}
		if ea.externalID != eb.externalID {
			return ea.externalID < eb.externalID
		}
		if ea.ProcessorPair != eb.ProcessorPair {
			return ea.ProcessorPair < eb.ProcessorPair
		}
		return ea.LedgerPair < eb.LedgerPair
	})

	usedProcessor := make(map[int]bool)
	usedLedger := make(map[int]bool)
	var matches []FallbackMatch
	for _, e := range edges {
		if usedProcessor[e.ProcessorPair] || usedLedger[e.LedgerPair] {
			continue
		}
		usedProcessor[e.ProcessorPair] = true
		usedLedger[e.LedgerPair] = true
		matches = append(matches, e.FallbackMatch)
	}

	sort.Slice(matches, func(a, b int) bool {
		return matches[a].ProcessorPair < matches[b].ProcessorPair
	})
	return matches
}

// ApplyFallback merges a pass-2 delta into the pass-1 pairs and returns a new slice.
// The matched processor pair takes the ledger side, provenance "both" and PassFallback;
// the consumed ledger-only pair is dropped. A pair is never filled twice and
// matches that do not reference a processor-only and a ledger-only pair are ignored.
func ApplyFallback(pairs []Pair, matches []FallbackMatch) []Pair {
	fill := make(map[int]int, len(matches))
	consumed := make(map[int]bool, len(matches))
	for _, m := range matches {
		if m.ProcessorPair < 0 || m.ProcessorPair >= len(pairs) || m.LedgerPair < 0 || m.LedgerPair >= len(pairs) {
			continue
		}
		if pairs[m.ProcessorPair].Provenance != ProvenanceProcessorOnly || pairs[m.LedgerPair].Provenance != ProvenanceLedgerOnly {
			continue
		}
		if _, filled := fill[m.ProcessorPair]; filled || consumed[m.LedgerPair] {
			continue
		}
		fill[m.ProcessorPair] = m.LedgerPair
		consumed[m.LedgerPair] = true
	}

	out := make([]Pair, 0, len(pairs)-len(consumed))
	for i, pair := range pairs {
		if consumed[i] {
			continue
		}
		if j, ok := fill[i]; ok {
			ledger := pairs[j]
			pair.Ledger = ledger.Ledger
			pair.DupLedger = ledger.DupLedger
			pair.Provenance = ProvenanceBoth
			pair.Pass = PassFallback
		}
		out = append(out, pair)
	}
	return out
}

// dayDistance returns the absolute distance between two instants in whole days,
// truncating any partial day.
func dayDistance(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}
