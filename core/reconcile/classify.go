package reconcile

import "github.com/shopspring/decimal"

// Classify decides whether a pair is matched. A pair matches only if all hold:
// both business keys are present, currencies are equal, settlement and posting
// dates are present and within the date window, amounts are present and within
// the amount tolerance, and neither side is duplicate-flagged.
// Null values never satisfy a check.
func Classify(pair Pair, tol Tolerance) Decision {
	d := Decision{Pair: pair}

	p, l := pair.Processor, pair.Ledger
	switch {
	case p == nil:
		d.Reasons = append(d.Reasons, ReasonNoCounterpartLedger)
		d.Category = CategoryLedgerOnly
	case l == nil:
		d.Reasons = append(d.Reasons, ReasonNoCounterpartProcessor)
		d.Category = CategoryProcessorOnly
	default:
		// A blank key leaves the other side without an identified counterpart.
		if p.TxnID == "" {
			d.Reasons = append(d.Reasons, ReasonNoCounterpartLedger)
		}
		if l.ExternalID == "" {
			d.Reasons = append(d.Reasons, ReasonNoCounterpartProcessor)
		}
		if p.Currency != l.Currency {
			d.Reasons = append(d.Reasons, ReasonCurrencyMismatch)
		}
		if !p.SettledAt.Valid || !l.PostingDate.Valid || dayDistance(p.SettledAt.Time, l.PostingDate.Time) > tol.DateWindowDays {
			d.Reasons = append(d.Reasons, ReasonDateOutOfWindow)
		}
		if !withinAmount(p.Amount, l.Amount, tol.Amount) {
			d.Reasons = append(d.Reasons, ReasonAmountOutOfTolerance)
		}
		d.Category = CategoryMismatched
	}

	// A pair missing one side has only that side's flag to check.
	if pair.DupProcessor || pair.DupLedger {
		d.Reasons = append(d.Reasons, ReasonDuplicateKey)
	}

	if len(d.Reasons) == 0 {
		d.Matched = true
		d.Category = CategoryMatched
		return d
	}
	d.Reason = d.Reasons[0]
	return d
}

func withinAmount(a, b decimal.NullDecimal, tolerance decimal.Decimal) bool {
	if !a.Valid || !b.Valid {
		return false
	}
	return a.Decimal.Sub(b.Decimal).Abs().LessThanOrEqual(tolerance)
}

// ClassifyAll classifies every pair, preserving order.
func ClassifyAll(pairs []Pair, tol Tolerance) []Decision {
	decisions := make([]Decision, 0, len(pairs))
	for _, pair := range pairs {
		decisions = append(decisions, Classify(pair, tol))
	}
	return decisions
}

// Partition splits decisions into matched and exceptions, and derives the
// exceptions missing a ledger side (unmatched processor) or a processor side
// (unmatched ledger). Each decision lands in exactly one of matched or exceptions.
func Partition(decisions []Decision) (matched, exceptions, unmatchedProcessor, unmatchedLedger []Decision) {
	matched = make([]Decision, 0, len(decisions))
	exceptions = make([]Decision, 0)
	unmatchedProcessor = make([]Decision, 0)
	unmatchedLedger = make([]Decision, 0)

	for _, d := range decisions {
		if d.Matched {
			matched = append(matched, d)
			continue
		}
		exceptions = append(exceptions, d)
		if d.Ledger == nil {
			unmatchedProcessor = append(unmatchedProcessor, d)
		}
		if d.Processor == nil {
			unmatchedLedger = append(unmatchedLedger, d)
		}
	}
	return matched, exceptions, unmatchedProcessor, unmatchedLedger
}
