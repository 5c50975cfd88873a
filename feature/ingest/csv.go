package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"ledger-reconciler/core/reconcile"
)

// ErrMissingColumns is returned when a feed lacks a required column.
var ErrMissingColumns = errors.New("missing required columns")

// ReadRows parses a CSV stream into rows keyed by lower-cased header name.
// Every required column must be present in the header. Short records yield
// empty values for their missing trailing columns.
func ReadRows(r io.Reader, required []string) ([]reconcile.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(required, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := normalizeHeader(header)
	if missing := missingColumns(columns, required); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows []reconcile.RawRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}

		row := make(reconcile.RawRow, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			row[col] = strings.TrimSpace(safeGet(record, i))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return columns
}

func missingColumns(columns, required []string) []string {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}
	var missing []string
	for _, r := range required {
		if _, ok := present[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}

func safeGet(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
