package reconcile

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmountTolerance is returned when the amount tolerance is not a number.
var ErrInvalidAmountTolerance = errors.New("amount tolerance is not a decimal number")

// Config holds configuration for a reconciliation run.
type Config struct {
	// AmountTolerance is the maximum absolute amount difference of a match.
	AmountTolerance string `mapstructure:"amount_tolerance" default:"0.05"`
	// DateWindow is the maximum whole-day distance between settlement and posting.
	DateWindow int `mapstructure:"date_window" default:"2"`
	// ProcessorPath is the processor feed (local path or s3://bucket/key).
	ProcessorPath string `mapstructure:"processor_path" default:"data/processor_transactions.csv"`
	// LedgerPath is the ledger feed (local path or s3://bucket/key).
	LedgerPath string `mapstructure:"ledger_path" default:"data/ledger_postings.csv"`
	// OutDir receives the result tables and summary.json.
	OutDir string `mapstructure:"outdir" default:"outputs"`
	// SQLitePath, when set, mirrors the result tables into this SQLite file.
	SQLitePath string `mapstructure:"sqlite_path" default:""`
}

// Tolerance parses and validates the configured thresholds.
func (c Config) Tolerance() (Tolerance, error) {
	raw := c.AmountTolerance
	if raw == "" {
		raw = DefaultAmountTolerance
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return Tolerance{}, fmt.Errorf("%w: %q", ErrInvalidAmountTolerance, raw)
	}

	tol := Tolerance{Amount: amount, DateWindowDays: c.DateWindow}
	if err := tol.Validate(); err != nil {
		return Tolerance{}, err
	}
	return tol, nil
}
