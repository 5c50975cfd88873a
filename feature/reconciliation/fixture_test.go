package reconciliation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"ledger-reconciler/core/reconcile"

	"github.com/stretchr/testify/require"
)

// T1 matches on its key, T2 through the fallback, T3 has no counterpart.
const processorCSV = `txn_id,user_id,merchant,amount,currency,created_at,settled_at,status
T1,U1,ACME INC,100.00,USD,2025-05-09 10:00:00,2025-05-10 08:00:00,settled
T2,U2,SHOP LLC,50.00,USD,2025-05-04 09:00:00,2025-05-05 09:00:00,settled
T3,U3,SHOP LLC,20.00,USD,2025-05-01 09:00:00,2025-05-01 12:00:00,settled
`

const ledgerCSV = `entry_id,external_id,user_id,amount,currency,posting_date,account,status
L0000001,T1,U1,100.03,USD,2025-05-11,Cash,posted
L0000002,EXTT2,U2,50.00,USD,2025-05-06,Clearing,posted
`

func writeFeeds(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	processorPath := filepath.Join(dir, "processor.csv")
	ledgerPath := filepath.Join(dir, "ledger.csv")
	require.NoError(t, os.WriteFile(processorPath, []byte(processorCSV), 0o644))
	require.NoError(t, os.WriteFile(ledgerPath, []byte(ledgerCSV), 0o644))
	return processorPath, ledgerPath
}

type recordingSink struct {
	mu      sync.Mutex
	results []*reconcile.Result
	err     error
}

func (s *recordingSink) Write(_ context.Context, result *reconcile.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return s.err
}

type recordingMirror struct {
	runID string
	paths []string
	err   error
}

func (m *recordingMirror) Upload(_ context.Context, runID string, paths []string) ([]string, error) {
	m.runID = runID
	m.paths = paths
	if m.err != nil {
		return nil, m.err
	}
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = "runs/" + runID + "/" + filepath.Base(p)
	}
	return keys, nil
}

var errSink = errors.New("sink unavailable")
