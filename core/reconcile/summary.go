package reconcile

import "github.com/shopspring/decimal"

// Summarize derives the run statistics from the final decisions.
// The match rate is 100 * matched / processor rows, rounded to two places,
// and 0 when there are no processor rows.
func Summarize(decisions []Decision, tol Tolerance) Summary {
	s := Summary{
		ExceptionsByType: make(map[ReasonCode]int),
		AmountTolerance:  tol.Amount.String(),
		DateWindowDays:   tol.DateWindowDays,
	}

	for _, d := range decisions {
		if d.Processor != nil {
			s.TotalProcessorRows++
		}
		if d.Ledger != nil {
			s.TotalLedgerRows++
		}
		if d.Matched {
			s.MatchedRows++
			continue
		}
		s.ExceptionRows++
		s.ExceptionsByType[d.Reason]++
	}

	denominator := s.TotalProcessorRows
	if denominator < 1 {
		denominator = 1
	}
	s.MatchRatePct = decimal.NewFromInt(int64(100 * s.MatchedRows)).
		Div(decimal.NewFromInt(int64(denominator))).
		Round(2).
		InexactFloat64()

	return s
}
