package reconcile

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Provenance records which sides of a candidate pair were found.
type Provenance string

const (
	// ProvenanceBoth means both a processor and a ledger record are present.
	ProvenanceBoth Provenance = "both"
	// ProvenanceProcessorOnly means no ledger counterpart was found.
	ProvenanceProcessorOnly Provenance = "processor-only"
	// ProvenanceLedgerOnly means no processor counterpart was found.
	ProvenanceLedgerOnly Provenance = "ledger-only"
)

// Pass identifies the matching pass that produced a pair.
const (
	// PassExact is the exact business-key join.
	PassExact = 1
	// PassFallback is the composite-key heuristic join.
	PassFallback = 2
)

// Category is the observable outcome of a classified pair.
type Category string

const (
	// CategoryMatched means every check passed.
	CategoryMatched Category = "matched"
	// CategoryProcessorOnly means the ledger side is absent.
	CategoryProcessorOnly Category = "processor-only"
	// CategoryLedgerOnly means the processor side is absent.
	CategoryLedgerOnly Category = "ledger-only"
	// CategoryMismatched means both sides are present but a check failed.
	CategoryMismatched Category = "mismatched"
)

// ReasonCode explains why a pair was routed to exceptions.
type ReasonCode string

const (
	// ReasonNoCounterpartProcessor marks a processor record with no ledger counterpart.
	ReasonNoCounterpartProcessor ReasonCode = "no_counterpart_processor"
	// ReasonNoCounterpartLedger marks a ledger record with no processor counterpart.
	ReasonNoCounterpartLedger ReasonCode = "no_counterpart_ledger"
	// ReasonCurrencyMismatch marks a pair whose currencies differ.
	ReasonCurrencyMismatch ReasonCode = "currency_mismatch"
	// ReasonAmountOutOfTolerance marks a pair whose amounts differ by more than the tolerance, or are null.
	ReasonAmountOutOfTolerance ReasonCode = "amount_out_of_tolerance"
	// ReasonDateOutOfWindow marks a pair whose dates are further apart than the window, or are null.
	ReasonDateOutOfWindow ReasonCode = "date_out_of_window"
	// ReasonDuplicateKey marks a pair with a duplicate-flagged side.
	ReasonDuplicateKey ReasonCode = "duplicate_key"
)

// ReasonCodes lists every reason in classification order.
var ReasonCodes = []ReasonCode{
	ReasonNoCounterpartProcessor,
	ReasonNoCounterpartLedger,
	ReasonCurrencyMismatch,
	ReasonDateOutOfWindow,
	ReasonAmountOutOfTolerance,
	ReasonDuplicateKey,
}

// ProcessorRecord is a normalized payment-processor transaction.
type ProcessorRecord struct {
	// TxnID is the business key. An empty TxnID is treated as null.
	TxnID     string
	UserID    string
	Merchant  string
	Amount    decimal.NullDecimal
	Currency  string
	CreatedAt sql.NullTime
	SettledAt sql.NullTime
	Status    string

	// Duplicate is set when TxnID occurs more than once in the processor set.
	Duplicate bool
}

// LedgerRecord is a normalized accounting-ledger posting.
type LedgerRecord struct {
	// EntryID identifies the posting in the ledger; it is never used as a join key.
	EntryID string
	// ExternalID is the business key expected to equal a processor TxnID.
	ExternalID  string
	UserID      string
	Amount      decimal.NullDecimal
	Currency    string
	PostingDate sql.NullTime
	Account     string
	Status      string

	// Duplicate is set when ExternalID occurs more than once in the ledger set.
	Duplicate bool
}

// Pair is a provisional association between at most one processor record
// and at most one ledger record. A nil side is absent.
type Pair struct {
	Processor  *ProcessorRecord
	Ledger     *LedgerRecord
	Provenance Provenance
	// Pass is PassExact or PassFallback.
	Pass int

	DupProcessor bool
	DupLedger    bool
}

// Decision is a classified pair.
type Decision struct {
	Pair

	Matched  bool
	Category Category
	// Reason is the first failed check; empty when matched.
	Reason ReasonCode
	// Reasons holds every failed check in classification order.
	Reasons []ReasonCode
}

// Tolerance bundles the matching thresholds.
type Tolerance struct {
	// Amount is the maximum absolute amount difference for a match.
	Amount decimal.Decimal
	// DateWindowDays is the maximum whole-day distance between settlement and posting.
	DateWindowDays int
}

// Default thresholds.
const (
	DefaultAmountTolerance = "0.05"
	DefaultDateWindowDays  = 2
)

var (
	// ErrNegativeAmountTolerance is returned for an amount tolerance below zero.
	ErrNegativeAmountTolerance = errors.New("amount tolerance must not be negative")
	// ErrNegativeDateWindow is returned for a date window below zero.
	ErrNegativeDateWindow = errors.New("date window must not be negative")
)

// DefaultTolerance returns the default thresholds (0.05, 2 days).
func DefaultTolerance() Tolerance {
	return Tolerance{
		Amount:         decimal.RequireFromString(DefaultAmountTolerance),
		DateWindowDays: DefaultDateWindowDays,
	}
}

// Validate rejects negative thresholds.
func (t Tolerance) Validate() error {
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeAmountTolerance, t.Amount)
	}
	if t.DateWindowDays < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDateWindow, t.DateWindowDays)
	}
	return nil
}

// Summary provides aggregate statistics for a reconciliation run.
type Summary struct {
	// TotalProcessorRows counts pairs with a processor side.
	TotalProcessorRows int `json:"total_processor_rows"`
	// TotalLedgerRows counts pairs with a ledger side.
	TotalLedgerRows int `json:"total_ledger_rows"`
	MatchedRows     int `json:"matched_rows"`
	// MatchRatePct is matched / processor rows as a percentage, rounded to 2 places.
	MatchRatePct  float64 `json:"match_rate_pct"`
	ExceptionRows int     `json:"exceptions_rows"`

	// ExceptionsByType counts exceptions by primary reason.
	ExceptionsByType map[ReasonCode]int `json:"exceptions_by_type"`

	AmountTolerance string `json:"amount_tolerance"`
	DateWindowDays  int    `json:"date_window_days"`
}

// Result is the full output of a reconciliation run.
type Result struct {
	// Decisions holds every classified pair in candidate order.
	Decisions          []Decision
	Matched            []Decision
	Exceptions         []Decision
	UnmatchedProcessor []Decision
	UnmatchedLedger    []Decision
	Summary            Summary
}
