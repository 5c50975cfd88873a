package output

import (
	"fmt"

	"ledger-reconciler/core/database"

	"gorm.io/gorm"
)

// Table check statuses.
const (
	StatusOK      = "ok"
	StatusMissing = "missing"
	StatusError   = "error"
)

// SchemaReport is the result of CheckSchema.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport describes one result table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	ExtraColumns   []string `json:"extra_columns"`
	Status         string   `json:"status"`
}

// CheckSchema verifies that the database holds the four result tables with
// the stable column set. Inspection failures are reported per table.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{Matched: true, Tables: make(map[string]TableReport)}
	for _, name := range TableNames() {
		actual, err := database.ColumnNames(db, name)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("failed to inspect table %s: %v", name, err))
			report.Tables[name] = TableReport{Status: StatusError}
			report.Matched = false
			continue
		}

		tbl := compareColumns(actual)
		if tbl.Status != StatusOK {
			report.Matched = false
		}
		report.Tables[name] = tbl
	}
	return report, nil
}

// TableNames lists the result tables in output order.
func TableNames() []string {
	return []string{TableMatched, TableExceptions, TableUnmatchedProcessor, TableUnmatchedLedger}
}

func compareColumns(actual []string) TableReport {
	tbl := TableReport{MissingColumns: []string{}, ExtraColumns: []string{}, Status: StatusOK}
	if len(actual) == 0 {
		tbl.Status = StatusMissing
		return tbl
	}

	present := make(map[string]struct{}, len(actual))
	for _, c := range actual {
		present[c] = struct{}{}
	}
	expected := make(map[string]struct{}, len(Columns))
	for _, c := range Columns {
		expected[c] = struct{}{}
		if _, ok := present[c]; !ok {
			tbl.MissingColumns = append(tbl.MissingColumns, c)
		}
	}
	for _, c := range actual {
		if _, ok := expected[c]; !ok {
			tbl.ExtraColumns = append(tbl.ExtraColumns, c)
		}
	}
	if len(tbl.MissingColumns) > 0 || len(tbl.ExtraColumns) > 0 {
		tbl.Status = StatusError
	}
	return tbl
}
