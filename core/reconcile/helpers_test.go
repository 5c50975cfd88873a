package reconcile

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) sql.NullTime {
	return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func amt(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func proc(txnID, user, amount, currency string, settled sql.NullTime) ProcessorRecord {
	return ProcessorRecord{
		TxnID:     txnID,
		UserID:    user,
		Merchant:  "ACME INC",
		Amount:    amt(amount),
		Currency:  currency,
		CreatedAt: settled,
		SettledAt: settled,
		Status:    "settled",
	}
}

func ledg(entryID, externalID, user, amount, currency string, posted sql.NullTime) LedgerRecord {
	return LedgerRecord{
		EntryID:     entryID,
		ExternalID:  externalID,
		UserID:      user,
		Amount:      amt(amount),
		Currency:    currency,
		PostingDate: posted,
		Account:     "Cash",
		Status:      "posted",
	}
}

func tolerance(amount string, window int) Tolerance {
	return Tolerance{Amount: decimal.RequireFromString(amount), DateWindowDays: window}
}

func txnIDs(decisions []Decision) []string {
	var ids []string
	for _, d := range decisions {
		if d.Processor != nil {
			ids = append(ids, d.Processor.TxnID)
		} else {
			ids = append(ids, "")
		}
	}
	return ids
}

func externalIDs(decisions []Decision) []string {
	var ids []string
	for _, d := range decisions {
		if d.Ledger != nil {
			ids = append(ids, d.Ledger.ExternalID)
		} else {
			ids = append(ids, "")
		}
	}
	return ids
}

// mixedFixture exercises every path of the engine at once.
func mixedFixture() ([]ProcessorRecord, []LedgerRecord) {
	processors := []ProcessorRecord{
		proc("T1", "U1", "100.00", "USD", day(2025, 5, 10)),
		proc("T2", "U2", "50.00", "USD", day(2025, 5, 5)),
		proc("T3", "U3", "20.00", "USD", day(2025, 5, 1)),
		proc("T3", "U3", "20.00", "USD", day(2025, 5, 1)),
		proc("T4", "U4", "75.50", "EUR", day(2025, 5, 3)),
		proc("T5", "U5", "10.00", "USD", day(2025, 5, 3)),
		proc("T6", "U6", "42.00", "USD", day(2025, 5, 3)),
		proc("T7", "U7", "33.33", "USD", day(2025, 5, 3)),
		proc("T8", "U8", "99.99", "USD", day(2025, 5, 20)),
	}
	ledgers := []LedgerRecord{
		ledg("L1", "T1", "U1", "100.03", "USD", day(2025, 5, 11)),
		ledg("L2", "EXTT2", "U2", "50.00", "USD", day(2025, 5, 6)),
		ledg("L3", "T3", "U3", "20.00", "USD", day(2025, 5, 1)),
		ledg("L4", "T4", "U4", "75.50", "USD", day(2025, 5, 3)),
		ledg("L5", "T5", "U5", "10.20", "USD", day(2025, 5, 3)),
		ledg("L6", "T6", "U6", "42.00", "USD", day(2025, 5, 9)),
		ledg("L7a", "T7", "U7", "33.33", "USD", day(2025, 5, 3)),
		ledg("L7b", "T7", "U7", "33.33", "USD", day(2025, 5, 4)),
		ledg("L9", "T9", "U9", "5.00", "USD", day(2025, 5, 3)),
		ledg("L10", "EXTT8", "U8", "99.99", "USD", day(2025, 5, 29)),
	}
	return processors, ledgers
}
