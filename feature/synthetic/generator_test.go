package synthetic

import (
	"math/rand"
	"os"
	"strings"
	"testing"

	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/feature/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	first := NewSeeded(DefaultSeed, DefaultOptions()).Generate()
	second := New(rand.New(rand.NewSource(DefaultSeed)), DefaultOptions()).Generate()
	other := NewSeeded(7, DefaultOptions()).Generate()

	assert.Equal(t, first, second)
	assert.NotEqual(t, first.Ledger, other.Ledger)
}

func TestGenerate_Shape(t *testing.T) {
	ds := NewSeeded(DefaultSeed, DefaultOptions()).Generate()

	// 500 transactions plus 2% duplicates, of which 2% are never posted.
	require.Len(t, ds.Processor, 510)
	missing := 0
	for _, p := range ds.Processor {
		if p.Status == StatusMissing {
			missing++
		}
		assert.True(t, strings.HasPrefix(p.UserID, "U"))
		assert.True(t, p.Amount.Equal(p.Amount.Round(2)))
		assert.False(t, p.SettledAt.Before(p.CreatedAt))
	}
	assert.Equal(t, 10, missing)

	// Every posted transaction plus 1% duplicated postings.
	require.Len(t, ds.Ledger, 505)
	ext := 0
	for _, l := range ds.Ledger {
		assert.Len(t, l.EntryID, 8)
		assert.Contains(t, []string{"Cash", "Clearing", "Fees"}, l.Account)
		if strings.HasPrefix(l.ExternalID, "EXT") {
			ext++
		}
	}
	assert.Greater(t, ext, 0)
}

func TestGenerate_SmallOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Rows = 3
	opts.DuplicateProcessor = 0
	opts.MissingRate = 0
	opts.DuplicateLedgerRate = 0

	ds := NewSeeded(1, opts).Generate()
	assert.Len(t, ds.Processor, 3)
	assert.Len(t, ds.Ledger, 3)
}

func TestGenerate_Reconciles(t *testing.T) {
	ds := NewSeeded(DefaultSeed, DefaultOptions()).Generate()

	result, err := reconcile.RunRaw(ds.RawProcessor(), ds.RawLedger(), reconcile.DefaultTolerance())
	require.NoError(t, err)

	s := result.Summary
	assert.Greater(t, s.MatchRatePct, 80.0)
	assert.Less(t, s.MatchRatePct, 100.0)
	assert.Greater(t, s.ExceptionsByType[reconcile.ReasonDuplicateKey], 0)
	assert.Greater(t, s.ExceptionsByType[reconcile.ReasonDateOutOfWindow], 0)
	assert.Greater(t, s.ExceptionsByType[reconcile.ReasonNoCounterpartProcessor], 0)

	fallback := 0
	for _, d := range result.Matched {
		if d.Pass == reconcile.PassFallback {
			fallback++
		}
	}
	assert.Greater(t, fallback, 0, "EXT-prefixed postings are recovered by pass 2")
}

func TestDataset_WriteCSV(t *testing.T) {
	ds := NewSeeded(DefaultSeed, DefaultOptions()).Generate()
	dir := t.TempDir()

	processorPath, ledgerPath, err := ds.WriteCSV(dir)
	require.NoError(t, err)

	f, err := os.Open(processorPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := ingest.ReadRows(f, reconcile.ProcessorColumns)
	require.NoError(t, err)
	require.Len(t, rows, len(ds.Processor))
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1][reconcile.ColTxnID], rows[i][reconcile.ColTxnID])
	}

	g, err := os.Open(ledgerPath)
	require.NoError(t, err)
	defer g.Close()
	ledger, err := ingest.ReadRows(g, reconcile.LedgerColumns)
	require.NoError(t, err)
	assert.Len(t, ledger, len(ds.Ledger))
}
