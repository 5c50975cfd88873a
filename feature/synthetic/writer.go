package synthetic

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"ledger-reconciler/core/reconcile"
)

// Output file names.
const (
	ProcessorFile = "processor_transactions.csv"
	LedgerFile    = "ledger_postings.csv"
)

// WriteCSV writes both feeds into dir, sorted by txn_id and external_id,
// and returns the processor and ledger paths.
func (d *Dataset) WriteCSV(dir string) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create data directory: %w", err)
	}

	processor := d.RawProcessor()
	sort.SliceStable(processor, func(i, j int) bool {
		return processor[i][reconcile.ColTxnID] < processor[j][reconcile.ColTxnID]
	})
	ledger := d.RawLedger()
	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i][reconcile.ColExternalID] < ledger[j][reconcile.ColExternalID]
	})

	processorPath := filepath.Join(dir, ProcessorFile)
	if err := writeRows(processorPath, reconcile.ProcessorColumns, processor); err != nil {
		return "", "", err
	}
	ledgerPath := filepath.Join(dir, LedgerFile)
	if err := writeRows(ledgerPath, reconcile.LedgerColumns, ledger); err != nil {
		return "", "", err
	}
	return processorPath, ledgerPath, nil
}

func writeRows(path string, columns []string, rows []reconcile.RawRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			record[i] = row[c]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
