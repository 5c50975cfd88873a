package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ledger-reconciler/core/reconcile"
)

// Document is the content of summary.json.
type Document struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	reconcile.Summary
}

// NewDocument wraps a summary with run metadata.
func NewDocument(runID string, generatedAt time.Time, summary reconcile.Summary) Document {
	return Document{RunID: runID, GeneratedAt: generatedAt.UTC(), Summary: summary}
}

// FileNames lists the files written by WriteFiles, in write order.
func FileNames() []string {
	return []string{
		TableMatched + ".csv",
		TableExceptions + ".csv",
		TableUnmatchedProcessor + ".csv",
		TableUnmatchedLedger + ".csv",
		SummaryFile,
	}
}

// WriteFiles writes the four tables and summary.json into outDir and returns
// their final paths. Files are written to a staging directory inside outDir and
// moved into place only after all of them were written.
func WriteFiles(outDir string, result *reconcile.Result, doc Document) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	staging, err := os.MkdirTemp(outDir, ".staging-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	for _, table := range Tables(result) {
		path := filepath.Join(staging, table.Name+".csv")
		if err := writeCSV(path, FlattenAll(table.Decisions)); err != nil {
			return nil, err
		}
	}
	if err := writeJSON(filepath.Join(staging, SummaryFile), doc); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(FileNames()))
	for _, name := range FileNames() {
		final := filepath.Join(outDir, name)
		if err := os.Rename(filepath.Join(staging, name), final); err != nil {
			return nil, fmt.Errorf("failed to move %s into place: %w", name, err)
		}
		paths = append(paths, final)
	}
	return paths, nil
}

func writeCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", filepath.Base(path), err)
	}
	for _, row := range rows {
		if err := w.Write(row.Record()); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadDocument loads a summary.json file.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &doc, nil
}
