package reconcile

import (
	"database/sql"
	"strings"

	"ledger-reconciler/core/utils"

	"github.com/shopspring/decimal"
)

// RawRow is one input row keyed by lower-cased column name.
type RawRow map[string]string

// Column names shared by the processor and ledger inputs.
const (
	ColTxnID       = "txn_id"
	ColUserID      = "user_id"
	ColMerchant    = "merchant"
	ColAmount      = "amount"
	ColCurrency    = "currency"
	ColCreatedAt   = "created_at"
	ColSettledAt   = "settled_at"
	ColStatus      = "status"
	ColEntryID     = "entry_id"
	ColExternalID  = "external_id"
	ColPostingDate = "posting_date"
	ColAccount     = "account"
)

// ProcessorColumns lists the required processor columns.
var ProcessorColumns = []string{ColTxnID, ColUserID, ColMerchant, ColAmount, ColCurrency, ColCreatedAt, ColSettledAt, ColStatus}

// LedgerColumns lists the required ledger columns.
var LedgerColumns = []string{ColEntryID, ColExternalID, ColUserID, ColAmount, ColCurrency, ColPostingDate, ColAccount, ColStatus}

// Schema describes which columns of a record set are temporal and which are monetary.
type Schema struct {
	// Key is the business-key column.
	Key      string
	Temporal []string
	Monetary []string
}

// ProcessorSchema describes the processor feed.
var ProcessorSchema = Schema{
	Key:      ColTxnID,
	Temporal: []string{ColCreatedAt, ColSettledAt},
	Monetary: []string{ColAmount},
}

// LedgerSchema describes the ledger feed.
var LedgerSchema = Schema{
	Key:      ColExternalID,
	Temporal: []string{ColPostingDate},
	Monetary: []string{ColAmount},
}

// temporalHints mark a column as temporal when contained in its name.
var temporalHints = []string{"date", "created", "settled", "posting"}

// DetectSchema infers a schema from a header: a column is temporal when its name
// mentions a date-like word, and the amount column is monetary.
func DetectSchema(header []string, key string) Schema {
	schema := Schema{Key: key}
	for _, col := range header {
		lc := strings.ToLower(col)
		for _, hint := range temporalHints {
			if strings.Contains(lc, hint) {
				schema.Temporal = append(schema.Temporal, lc)
				break
			}
		}
		if lc == ColAmount {
			schema.Monetary = append(schema.Monetary, lc)
		}
	}
	return schema
}

// NormalizedRow is a row whose temporal and monetary fields are parsed.
// Columns not named by the schema stay in Text untouched.
type NormalizedRow struct {
	Text    map[string]string
	Times   map[string]sql.NullTime
	Amounts map[string]decimal.NullDecimal
}

// Normalize parses the schema's temporal and monetary columns of every row.
// It never drops a row: unparseable values become nulls.
func Normalize(rows []RawRow, schema Schema) []NormalizedRow {
	temporal := make(map[string]struct{}, len(schema.Temporal))
	for _, c := range schema.Temporal {
		temporal[c] = struct{}{}
	}
	monetary := make(map[string]struct{}, len(schema.Monetary))
	for _, c := range schema.Monetary {
		monetary[c] = struct{}{}
	}

	out := make([]NormalizedRow, 0, len(rows))
	for _, row := range rows {
		n := NormalizedRow{
			Text:    make(map[string]string, len(row)),
			Times:   make(map[string]sql.NullTime, len(schema.Temporal)),
			Amounts: make(map[string]decimal.NullDecimal, len(schema.Monetary)),
		}
		for col, val := range row {
			if _, ok := temporal[col]; ok {
				n.Times[col] = utils.ParseTimestamp(val)
				continue
			}
			if _, ok := monetary[col]; ok {
				n.Amounts[col] = utils.ParseAmount(val)
				continue
			}
			n.Text[col] = val
		}
		out = append(out, n)
	}
	return out
}

// NormalizeProcessor normalizes raw processor rows into records.
func NormalizeProcessor(rows []RawRow) []ProcessorRecord {
	normalized := Normalize(rows, ProcessorSchema)
	records := make([]ProcessorRecord, 0, len(normalized))
	for _, n := range normalized {
		records = append(records, ProcessorRecord{
			TxnID:     n.Text[ColTxnID],
			UserID:    n.Text[ColUserID],
			Merchant:  n.Text[ColMerchant],
			Amount:    n.Amounts[ColAmount],
			Currency:  n.Text[ColCurrency],
			CreatedAt: n.Times[ColCreatedAt],
			SettledAt: n.Times[ColSettledAt],
			Status:    n.Text[ColStatus],
		})
	}
	return records
}

// NormalizeLedger normalizes raw ledger rows into records.
func NormalizeLedger(rows []RawRow) []LedgerRecord {
	normalized := Normalize(rows, LedgerSchema)
	records := make([]LedgerRecord, 0, len(normalized))
	for _, n := range normalized {
		records = append(records, LedgerRecord{
			EntryID:     n.Text[ColEntryID],
			ExternalID:  n.Text[ColExternalID],
			UserID:      n.Text[ColUserID],
			Amount:      n.Amounts[ColAmount],
			Currency:    n.Text[ColCurrency],
			PostingDate: n.Times[ColPostingDate],
			Account:     n.Text[ColAccount],
			Status:      n.Text[ColStatus],
		})
	}
	return records
}
