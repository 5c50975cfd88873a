package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"ledger-reconciler/core/config"
	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/core/storage"
	"ledger-reconciler/feature/ingest"
	"ledger-reconciler/feature/output"
)

// debug_reconcile traces every decision touching one key through the engine.
// Usage: go run ./cmd/debug_reconcile <txn_id|external_id|entry_id>
func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: debug_reconcile <txn_id|external_id|entry_id>")
	}
	key := os.Args[1]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	tol, err := cfg.Reconcile.Tolerance()
	if err != nil {
		log.Fatal(err)
	}

	var client storage.Client
	if storage.IsObjectURI(cfg.Reconcile.ProcessorPath) || storage.IsObjectURI(cfg.Reconcile.LedgerPath) {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			log.Fatal(err)
		}
	}

	feeds, err := ingest.NewLoader(client, nil).LoadFeeds(context.Background(), cfg.Reconcile.ProcessorPath, cfg.Reconcile.LedgerPath)
	if err != nil {
		log.Fatal(err)
	}

	// Step 1: raw rows carrying the key
	fmt.Println("=== STEP 1: Raw Rows ===")
	for _, row := range feeds.Processor {
		if row[reconcile.ColTxnID] == key {
			fmt.Printf("processor: %v\n", row)
		}
	}
	for _, row := range feeds.Ledger {
		if row[reconcile.ColExternalID] == key || row[reconcile.ColEntryID] == key {
			fmt.Printf("ledger: %v\n", row)
		}
	}

	// Step 2: run the engine and collect the decisions
	fmt.Println("\n=== STEP 2: Decisions ===")
	result, err := reconcile.RunRaw(feeds.Processor, feeds.Ledger, tol)
	if err != nil {
		log.Fatal(err)
	}

	var rows []output.Row
	for _, d := range result.Decisions {
		if !touches(d, key) {
			continue
		}
		row := output.Flatten(d)
		rows = append(rows, row)
		fmt.Printf("pass=%d provenance=%s category=%s reason=%q reasons=%q dup_p=%v dup_l=%v\n",
			row.MatchPass, row.Provenance, row.Category, row.Reason, row.Reasons, row.DupFlagP, row.DupFlagL)
		fmt.Printf("  processor: txn_id=%s amount=%s %s settled_at=%s\n", row.TxnID, row.AmountP, row.CurrencyP, row.SettledAt)
		fmt.Printf("  ledger:    entry_id=%s external_id=%s amount=%s %s posting_date=%s\n",
			row.EntryID, row.ExternalID, row.AmountL, row.CurrencyL, row.PostingDate)
	}
	if len(rows) == 0 {
		fmt.Println("NOT FOUND in any decision")
	}

	// Save detailed output
	out := map[string]interface{}{
		"key":       key,
		"tolerance": tol.Amount.String(),
		"window":    tol.DateWindowDays,
		"decisions": rows,
		"summary":   result.Summary,
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	os.WriteFile("debug_reconcile.json", data, 0644)

	fmt.Println("\nDebug complete. Check debug_reconcile.json for details.")
}

func touches(d reconcile.Decision, key string) bool {
	if d.Processor != nil && d.Processor.TxnID == key {
		return true
	}
	return d.Ledger != nil && (d.Ledger.ExternalID == key || d.Ledger.EntryID == key)
}
