package output

import (
	"testing"

	"ledger-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	result := sampleResult(t)
	require.Len(t, result.Matched, 1)

	row := Flatten(result.Matched[0])
	assert.Equal(t, "T1", row.TxnID)
	assert.Equal(t, "100", row.AmountP)
	assert.Equal(t, "100.03", row.AmountL)
	assert.Equal(t, "2025-05-10 00:00:00", row.SettledAt)
	assert.Equal(t, "L0000001", row.EntryID)
	assert.True(t, row.MatchFlag)
	assert.Equal(t, 1, row.MatchPass)
	assert.Equal(t, "both", row.Provenance)
	assert.Empty(t, row.Reason)
	assert.Empty(t, row.Reasons)
}

func TestFlatten_OneSided(t *testing.T) {
	result := sampleResult(t)
	require.Len(t, result.UnmatchedLedger, 1)

	row := Flatten(result.UnmatchedLedger[0])
	assert.Empty(t, row.TxnID)
	assert.Empty(t, row.AmountP)
	assert.Empty(t, row.AmountL, "null amount renders empty")
	assert.Empty(t, row.PostingDate)
	assert.Equal(t, "T9", row.ExternalID)
	assert.Equal(t, string(reconcile.ReasonNoCounterpartLedger), row.Reason)
	assert.Equal(t, "ledger-only", row.Category)
}

func TestRow_Record(t *testing.T) {
	row := Row{TxnID: "T1", DupFlagL: true, MatchPass: 2, Reasons: "currency_mismatch|duplicate_key"}
	record := row.Record()

	require.Len(t, record, len(Columns))
	assert.Equal(t, "T1", record[0])
	assert.Equal(t, "false", record[16])
	assert.Equal(t, "true", record[17])
	assert.Equal(t, "2", record[19])
	assert.Equal(t, "currency_mismatch|duplicate_key", record[23])
}

func TestTables(t *testing.T) {
	result := sampleResult(t)
	tables := Tables(result)

	require.Len(t, tables, 4)
	assert.Equal(t, TableMatched, tables[0].Name)
	assert.Len(t, tables[0].Decisions, 1)
	assert.Len(t, tables[1].Decisions, 3)
	assert.Len(t, tables[2].Decisions, 1)
	assert.Len(t, tables[3].Decisions, 1)
}
