package output

import (
	"strconv"
	"strings"

	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/core/utils"
)

// Table names, also used as CSV file stems.
const (
	TableMatched            = "matched"
	TableExceptions         = "exceptions"
	TableUnmatchedProcessor = "unmatched_processor"
	TableUnmatchedLedger    = "unmatched_ledger"
)

// SummaryFile is the name of the summary document.
const SummaryFile = "summary.json"

// Columns is the stable column order of every result table.
var Columns = []string{
	"txn_id", "user_id_p", "merchant", "amount_p", "currency_p", "created_at", "settled_at", "status_p",
	"entry_id", "external_id", "user_id_l", "amount_l", "currency_l", "posting_date", "account", "status_l",
	"dup_flag_p", "dup_flag_l", "provenance", "match_pass", "match_flag", "category", "reason", "reasons",
}

// Row is one flattened decision. Null values are empty strings.
type Row struct {
	TxnID       string `gorm:"column:txn_id" json:"txn_id"`
	UserIDP     string `gorm:"column:user_id_p" json:"user_id_p"`
	Merchant    string `gorm:"column:merchant" json:"merchant"`
	AmountP     string `gorm:"column:amount_p" json:"amount_p"`
	CurrencyP   string `gorm:"column:currency_p" json:"currency_p"`
	CreatedAt   string `gorm:"column:created_at" json:"created_at"`
	SettledAt   string `gorm:"column:settled_at" json:"settled_at"`
	StatusP     string `gorm:"column:status_p" json:"status_p"`
	EntryID     string `gorm:"column:entry_id" json:"entry_id"`
	ExternalID  string `gorm:"column:external_id" json:"external_id"`
	UserIDL     string `gorm:"column:user_id_l" json:"user_id_l"`
	AmountL     string `gorm:"column:amount_l" json:"amount_l"`
	CurrencyL   string `gorm:"column:currency_l" json:"currency_l"`
	PostingDate string `gorm:"column:posting_date" json:"posting_date"`
	Account     string `gorm:"column:account" json:"account"`
	StatusL     string `gorm:"column:status_l" json:"status_l"`
	DupFlagP    bool   `gorm:"column:dup_flag_p" json:"dup_flag_p"`
	DupFlagL    bool   `gorm:"column:dup_flag_l" json:"dup_flag_l"`
	Provenance  string `gorm:"column:provenance" json:"provenance"`
	MatchPass   int    `gorm:"column:match_pass" json:"match_pass"`
	MatchFlag   bool   `gorm:"column:match_flag" json:"match_flag"`
	Category    string `gorm:"column:category" json:"category"`
	Reason      string `gorm:"column:reason" json:"reason"`
	// Reasons joins every failed check with "|".
	Reasons string `gorm:"column:reasons" json:"reasons"`
}

// Flatten converts a decision into a row.
func Flatten(d reconcile.Decision) Row {
	row := Row{
		DupFlagP:   d.DupProcessor,
		DupFlagL:   d.DupLedger,
		Provenance: string(d.Provenance),
		MatchPass:  d.Pass,
		MatchFlag:  d.Matched,
		Category:   string(d.Category),
		Reason:     string(d.Reason),
		Reasons:    joinReasons(d.Reasons),
	}
	if p := d.Processor; p != nil {
		row.TxnID = p.TxnID
		row.UserIDP = p.UserID
		row.Merchant = p.Merchant
		row.AmountP = utils.FormatAmount(p.Amount)
		row.CurrencyP = p.Currency
		row.CreatedAt = utils.FormatTimestamp(p.CreatedAt)
		row.SettledAt = utils.FormatTimestamp(p.SettledAt)
		row.StatusP = p.Status
	}
	if l := d.Ledger; l != nil {
		row.EntryID = l.EntryID
		row.ExternalID = l.ExternalID
		row.UserIDL = l.UserID
		row.AmountL = utils.FormatAmount(l.Amount)
		row.CurrencyL = l.Currency
		row.PostingDate = utils.FormatTimestamp(l.PostingDate)
		row.Account = l.Account
		row.StatusL = l.Status
	}
	return row
}

// FlattenAll converts decisions into rows, preserving order.
func FlattenAll(decisions []reconcile.Decision) []Row {
	rows := make([]Row, 0, len(decisions))
	for _, d := range decisions {
		rows = append(rows, Flatten(d))
	}
	return rows
}

// Record renders the row as CSV fields in Columns order.
func (r Row) Record() []string {
	return []string{
		r.TxnID, r.UserIDP, r.Merchant, r.AmountP, r.CurrencyP, r.CreatedAt, r.SettledAt, r.StatusP,
		r.EntryID, r.ExternalID, r.UserIDL, r.AmountL, r.CurrencyL, r.PostingDate, r.Account, r.StatusL,
		utils.FormatBool(r.DupFlagP), utils.FormatBool(r.DupFlagL), r.Provenance, strconv.Itoa(r.MatchPass),
		utils.FormatBool(r.MatchFlag), r.Category, r.Reason, r.Reasons,
	}
}

// Table is a named set of decisions.
type Table struct {
	Name      string
	Decisions []reconcile.Decision
}

// Tables returns the four result tables in output order.
func Tables(result *reconcile.Result) []Table {
	return []Table{
		{Name: TableMatched, Decisions: result.Matched},
		{Name: TableExceptions, Decisions: result.Exceptions},
		{Name: TableUnmatchedProcessor, Decisions: result.UnmatchedProcessor},
		{Name: TableUnmatchedLedger, Decisions: result.UnmatchedLedger},
	}
}

func joinReasons(reasons []reconcile.ReasonCode) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, "|")
}
