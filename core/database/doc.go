// Package database handles database connections and schema inspection.
//
// It wraps GORM and opens either a MySQL server or a SQLite file, depending on the
// configured driver. Reconciliation tables are mirrored through it.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for both dialects. It is used to
// verify the shape of the mirrored result tables.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	columns, err := database.GetTableColumns(db, "matched")
package database
