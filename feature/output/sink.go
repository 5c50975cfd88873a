package output

import (
	"context"
	"fmt"

	"ledger-reconciler/core/reconcile"

	"gorm.io/gorm"
)

// batchSize bounds the rows per INSERT statement.
const batchSize = 500

// Sink mirrors the result tables into a relational database.
type Sink struct {
	db *gorm.DB
}

// NewSink creates a sink over an open connection.
func NewSink(db *gorm.DB) *Sink {
	return &Sink{db: db}
}

// Write replaces the four result tables with the rows of result.
// Tables are dropped, recreated and filled inside one transaction. MySQL commits
// DDL implicitly, so there a failure can leave some tables already replaced.
func (s *Sink) Write(ctx context.Context, result *reconcile.Result) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range Tables(result) {
			if err := replaceTable(tx, table.Name, FlattenAll(table.Decisions)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write result tables: %w", err)
	}
	return nil
}

func replaceTable(tx *gorm.DB, name string, rows []Row) error {
	if err := tx.Migrator().DropTable(name); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	if err := tx.Table(name).AutoMigrate(&Row{}); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Table(name).CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("failed to insert into %s: %w", name, err)
	}
	return nil
}
