package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/feature/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func runFixture(t *testing.T, withExceptions bool) string {
	t.Helper()

	processorRows := []reconcile.RawRow{
		{"txn_id": "T1", "user_id": "U1", "merchant": "ACME INC", "amount": "100.00", "currency": "USD",
			"created_at": "2025-05-09", "settled_at": "2025-05-10", "status": "settled"},
	}
	ledgerRows := []reconcile.RawRow{
		{"entry_id": "L0000001", "external_id": "T1", "user_id": "U1", "amount": "100.03", "currency": "USD",
			"posting_date": "2025-05-11", "account": "Cash", "status": "posted"},
	}
	if withExceptions {
		processorRows = append(processorRows,
			reconcile.RawRow{"txn_id": "T2", "user_id": "U2", "amount": "10.00", "currency": "USD", "settled_at": "2025-05-10"},
			reconcile.RawRow{"txn_id": "T3", "user_id": "U3", "amount": "1.00", "currency": "EUR", "settled_at": "2025-05-10"},
		)
		ledgerRows = append(ledgerRows,
			reconcile.RawRow{"entry_id": "L0000002", "external_id": "T3", "user_id": "U3", "amount": "1.00", "currency": "EUR", "posting_date": "2025-05-10"},
			reconcile.RawRow{"entry_id": "L0000003", "external_id": "T3", "user_id": "U3", "amount": "1.00", "currency": "EUR", "posting_date": "2025-05-10"},
		)
	}

	result, err := reconcile.RunRaw(processorRows, ledgerRows, reconcile.DefaultTolerance())
	require.NoError(t, err)

	dir := t.TempDir()
	doc := output.NewDocument("run-42", time.Date(2025, 5, 12, 8, 0, 0, 0, time.UTC), result.Summary)
	_, err = output.WriteFiles(dir, result, doc)
	require.NoError(t, err)
	return dir
}

func TestGenerate_WithExceptions(t *testing.T) {
	dir := runFixture(t, true)

	res, err := Generate(Options{OutDir: dir})
	require.NoError(t, err)
	require.NotEmpty(t, res.ChartPath)

	chart, err := os.ReadFile(res.ChartPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(chart, pngMagic))

	md, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	report := string(md)

	assert.Contains(t, report, "# Payments Reconciliation Report")
	assert.Contains(t, report, "run-42")
	assert.Contains(t, report, "25.00%")
	assert.Contains(t, report, "no_counterpart_processor")
	assert.Contains(t, report, "duplicate_key")
	assert.Contains(t, report, "![Exceptions by type](exceptions_by_type.png)")
	assert.Contains(t, report, "## Sample Exceptions (first 3)")

	// Reason code order: no_counterpart_processor precedes duplicate_key.
	assert.Less(t, strings.Index(report, "no_counterpart_processor"), strings.Index(report, "| duplicate_key"))
}

func TestGenerate_NoExceptions(t *testing.T) {
	dir := runFixture(t, false)

	res, err := Generate(Options{OutDir: dir, SampleSize: 5})
	require.NoError(t, err)
	assert.Empty(t, res.ChartPath)
	assert.NoFileExists(t, filepath.Join(dir, ChartFile))

	md, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "No exception chart generated.")
	assert.Contains(t, string(md), "100.00%")
	assert.NotContains(t, string(md), "Sample Exceptions")
}

func TestGenerate_MissingSummary(t *testing.T) {
	_, err := Generate(Options{OutDir: t.TempDir()})
	assert.ErrorContains(t, err, "failed to read")
}

func TestGenerate_SampleSize(t *testing.T) {
	dir := runFixture(t, true)

	res, err := Generate(Options{OutDir: dir, SampleSize: 1})
	require.NoError(t, err)

	md, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Sample Exceptions (first 1)")
}

func TestSortedCounts(t *testing.T) {
	counts := SortedCounts(map[reconcile.ReasonCode]int{
		reconcile.ReasonDuplicateKey:           2,
		"legacy_reason":                        1,
		reconcile.ReasonNoCounterpartProcessor: 4,
		reconcile.ReasonCurrencyMismatch:       3,
	})

	require.Len(t, counts, 4)
	assert.Equal(t, reconcile.ReasonNoCounterpartProcessor, counts[0].Reason)
	assert.Equal(t, reconcile.ReasonCurrencyMismatch, counts[1].Reason)
	assert.Equal(t, reconcile.ReasonDuplicateKey, counts[2].Reason)
	assert.Equal(t, reconcile.ReasonCode("legacy_reason"), counts[3].Reason)
}

func TestWriteChart_Empty(t *testing.T) {
	err := WriteChart(filepath.Join(t.TempDir(), ChartFile), nil)
	assert.Error(t, err)
}
