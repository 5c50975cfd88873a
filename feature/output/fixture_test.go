package output

import (
	"database/sql"
	"testing"
	"time"

	"ledger-reconciler/core/reconcile"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func nullTime(y int, m time.Month, d int) sql.NullTime {
	return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func nullAmount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// sampleResult reconciles one match, one amount exception, one processor-only
// and one ledger-only record.
func sampleResult(t *testing.T) *reconcile.Result {
	t.Helper()

	processors := []reconcile.ProcessorRecord{
		{TxnID: "T1", UserID: "U1", Merchant: "ACME INC", Amount: nullAmount("100.00"), Currency: "USD",
			CreatedAt: nullTime(2025, 5, 9), SettledAt: nullTime(2025, 5, 10), Status: "settled"},
		{TxnID: "T2", UserID: "U2", Merchant: "SHOP, LLC", Amount: nullAmount("10.00"), Currency: "USD",
			CreatedAt: nullTime(2025, 5, 9), SettledAt: nullTime(2025, 5, 10), Status: "settled"},
		{TxnID: "T3", UserID: "U3", Merchant: "ACME INC", Amount: nullAmount("5.00"), Currency: "EUR",
			SettledAt: nullTime(2025, 5, 10), Status: "settled"},
	}
	ledgers := []reconcile.LedgerRecord{
		{EntryID: "L0000001", ExternalID: "T1", UserID: "U1", Amount: nullAmount("100.03"), Currency: "USD",
			PostingDate: nullTime(2025, 5, 11), Account: "Cash", Status: "posted"},
		{EntryID: "L0000002", ExternalID: "T2", UserID: "U2", Amount: nullAmount("10.50"), Currency: "USD",
			PostingDate: nullTime(2025, 5, 11), Account: "Clearing", Status: "posted"},
		{EntryID: "L0000003", ExternalID: "T9", UserID: "U9", Currency: "USD", Account: "Fees", Status: "posted"},
	}

	result, err := reconcile.Run(processors, ledgers, reconcile.DefaultTolerance())
	require.NoError(t, err)
	return result
}
