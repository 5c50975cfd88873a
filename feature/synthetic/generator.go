package synthetic

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/core/utils"

	"github.com/shopspring/decimal"
)

// StatusMissing marks processor rows that are never posted to the ledger.
const StatusMissing = "missing_test_only"

// DefaultSeed is the seed used when none is given.
const DefaultSeed = 42

var (
	merchants = []string{"ACME INC", "GLOBEX", "WAYNE ENTERPRISES", "STARK", "HONEYBOOK", "WIX", "RELAY", "BILL.COM"}
	accounts  = []string{"Cash", "Clearing", "Fees"}
	drifts    = []decimal.Decimal{
		decimal.RequireFromString("-0.03"),
		decimal.RequireFromString("0.03"),
		decimal.RequireFromString("0.05"),
	}
)

// Options controls the size and the noise rates of a dataset.
type Options struct {
	// Rows is the number of distinct processor transactions.
	Rows int
	// Users is the size of the user pool.
	Users int
	// Start is the first possible creation date.
	Start time.Time
	// Days is the span of creation dates after Start.
	Days int

	EURRate             float64
	DuplicateProcessor  float64
	MissingRate         float64
	ExternalIDRate      float64
	AmountDriftRate     float64
	DateDriftRate       float64
	DuplicateLedgerRate float64
}

// DefaultOptions returns the reference dataset shape.
func DefaultOptions() Options {
	return Options{
		Rows:                500,
		Users:               200,
		Start:               time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Days:                60,
		EURRate:             0.05,
		DuplicateProcessor:  0.02,
		MissingRate:         0.02,
		ExternalIDRate:      0.03,
		AmountDriftRate:     0.02,
		DateDriftRate:       0.03,
		DuplicateLedgerRate: 0.01,
	}
}

// ProcessorRow is one generated processor transaction.
type ProcessorRow struct {
	TxnID     string
	UserID    string
	Merchant  string
	Amount    decimal.Decimal
	Currency  string
	CreatedAt time.Time
	SettledAt time.Time
	Status    string
}

// LedgerRow is one generated ledger posting.
type LedgerRow struct {
	EntryID     string
	ExternalID  string
	UserID      string
	Amount      decimal.Decimal
	Currency    string
	PostingDate time.Time
	Account     string
	Status      string
}

// Dataset is a generated pair of feeds.
type Dataset struct {
	Processor []ProcessorRow
	Ledger    []LedgerRow
}

// Generator produces datasets from an injected random source.
type Generator struct {
	rng  *rand.Rand
	opts Options
}

// New creates a generator. Non-positive sizes fall back to the defaults.
func New(rng *rand.Rand, opts Options) *Generator {
	def := DefaultOptions()
	if opts.Rows <= 0 {
		opts.Rows = def.Rows
	}
	if opts.Users <= 0 {
		opts.Users = def.Users
	}
	if opts.Days <= 0 {
		opts.Days = def.Days
	}
	if opts.Start.IsZero() {
		opts.Start = def.Start
	}
	return &Generator{rng: rng, opts: opts}
}

// NewSeeded creates a generator over a fresh source seeded with seed.
func NewSeeded(seed int64, opts Options) *Generator {
	return New(rand.New(rand.NewSource(seed)), opts)
}

// Generate builds the processor feed and derives the ledger feed from it.
func (g *Generator) Generate() *Dataset {
	processor := g.processor()
	return &Dataset{Processor: processor, Ledger: g.ledger(processor)}
}

func (g *Generator) processor() []ProcessorRow {
	rows := make([]ProcessorRow, 0, g.opts.Rows)
	for i := 0; i < g.opts.Rows; i++ {
		created := g.opts.Start.AddDate(0, 0, g.rng.Intn(g.opts.Days))
		currency := "USD"
		if g.rng.Float64() < g.opts.EURRate {
			currency = "EUR"
		}
		rows = append(rows, ProcessorRow{
			TxnID:     fmt.Sprintf("T%d", 100000+i),
			UserID:    fmt.Sprintf("U%04d", g.rng.Intn(g.opts.Users)),
			Merchant:  merchants[g.rng.Intn(len(merchants))],
			Amount:    decimal.NewFromFloat(5 + g.rng.Float64()*495).Round(2),
			Currency:  currency,
			CreatedAt: created,
			SettledAt: created.AddDate(0, 0, g.rng.Intn(3)),
			Status:    "settled",
		})
	}

	for _, i := range g.sample(len(rows), g.opts.DuplicateProcessor) {
		rows = append(rows, rows[i])
	}
	for _, i := range g.sample(len(rows), g.opts.MissingRate) {
		rows[i].Status = StatusMissing
	}
	return rows
}

func (g *Generator) ledger(processor []ProcessorRow) []LedgerRow {
	rows := make([]LedgerRow, 0, len(processor))
	for _, p := range processor {
		if p.Status == StatusMissing {
			continue
		}

		external := p.TxnID
		if g.rng.Float64() < g.opts.ExternalIDRate {
			external = "EXT" + p.TxnID
		}
		posted := p.SettledAt.AddDate(0, 0, g.rng.Intn(2))
		amount := p.Amount
		if g.rng.Float64() < g.opts.AmountDriftRate {
			amount = amount.Add(drifts[g.rng.Intn(len(drifts))]).Round(2)
		}
		if g.rng.Float64() < g.opts.DateDriftRate {
			posted = posted.AddDate(0, 0, 3+g.rng.Intn(3))
		}

		rows = append(rows, LedgerRow{
			EntryID:     fmt.Sprintf("L%d", 1_000_000+g.rng.Intn(9_000_000)),
			ExternalID:  external,
			UserID:      p.UserID,
			Amount:      amount,
			Currency:    p.Currency,
			PostingDate: posted,
			Account:     accounts[g.rng.Intn(len(accounts))],
			Status:      "posted",
		})
	}

	for _, i := range g.sample(len(rows), g.opts.DuplicateLedgerRate) {
		rows = append(rows, rows[i])
	}
	return rows
}

// sample picks round(frac*n) distinct indices.
func (g *Generator) sample(n int, frac float64) []int {
	k := int(frac*float64(n) + 0.5)
	if k <= 0 || n == 0 {
		return nil
	}
	if k > n {
		k = n
	}
	return g.rng.Perm(n)[:k]
}

// RawProcessor converts the processor feed into engine input rows.
func (d *Dataset) RawProcessor() []reconcile.RawRow {
	rows := make([]reconcile.RawRow, 0, len(d.Processor))
	for _, p := range d.Processor {
		rows = append(rows, reconcile.RawRow{
			reconcile.ColTxnID:     p.TxnID,
			reconcile.ColUserID:    p.UserID,
			reconcile.ColMerchant:  p.Merchant,
			reconcile.ColAmount:    p.Amount.StringFixed(2),
			reconcile.ColCurrency:  p.Currency,
			reconcile.ColCreatedAt: formatTime(p.CreatedAt),
			reconcile.ColSettledAt: formatTime(p.SettledAt),
			reconcile.ColStatus:    p.Status,
		})
	}
	return rows
}

// RawLedger converts the ledger feed into engine input rows.
func (d *Dataset) RawLedger() []reconcile.RawRow {
	rows := make([]reconcile.RawRow, 0, len(d.Ledger))
	for _, l := range d.Ledger {
		rows = append(rows, reconcile.RawRow{
			reconcile.ColEntryID:     l.EntryID,
			reconcile.ColExternalID:  l.ExternalID,
			reconcile.ColUserID:      l.UserID,
			reconcile.ColAmount:      l.Amount.StringFixed(2),
			reconcile.ColCurrency:    l.Currency,
			reconcile.ColPostingDate: formatTime(l.PostingDate),
			reconcile.ColAccount:     l.Account,
			reconcile.ColStatus:      l.Status,
		})
	}
	return rows
}

func formatTime(t time.Time) string {
	return utils.FormatTimestamp(sql.NullTime{Time: t, Valid: true})
}
