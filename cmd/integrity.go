package cmd

import (
	"context"
	"fmt"

	"ledger-reconciler/core/config"
	"ledger-reconciler/core/database"
	"ledger-reconciler/core/logger"
	"ledger-reconciler/core/storage"
	"ledger-reconciler/feature/output"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	fixFlag    bool
	sqliteFlag string
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the configured sinks",
	Long:  `Checks that the result tables in the configured databases have the expected columns and that the mirror bucket exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the result tables of the SQLite file and the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// bucketCmd represents the integrity bucket command
var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Check and optionally create the mirror bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(schemaCmd, bucketCmd)

	integrityCmd.PersistentFlags().StringVar(&sqliteFlag, "sqlite", "", "SQLite file to check instead of reconcile.sqlite_path")
	bucketCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")
}

func runIntegrityChecks(ctx context.Context, runSchema, runBucket bool) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if sqliteFlag != "" {
		cfg.Reconcile.SQLitePath = sqliteFlag
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	healthy := true

	if runSchema {
		targets := map[string]func() (*gorm.DB, error){}
		if cfg.Reconcile.SQLitePath != "" {
			targets["sqlite:"+cfg.Reconcile.SQLitePath] = func() (*gorm.DB, error) {
				return database.OpenSQLite(cfg.Reconcile.SQLitePath)
			}
		}
		if cfg.Database.Enabled {
			targets["database:"+cfg.Database.Driver] = func() (*gorm.DB, error) {
				return database.Connect(cfg.Database)
			}
		}
		if len(targets) == 0 {
			logg.Info("No relational sink configured, schema check skipped.")
		}

		for name, open := range targets {
			logg.Info("Checking result tables...", zap.String("target", name))
			db, err := open()
			if err != nil {
				logg.Error("Connection failed", zap.String("target", name), zap.Error(err))
				healthy = false
				continue
			}
			if !checkSchema(logg.With(zap.String("target", name)), db) {
				healthy = false
			}
		}
	}

	if runBucket {
		if !cfg.Storage.Enabled && !fixFlag {
			logg.Info("Object mirror disabled, bucket check skipped.")
		} else if !checkBucket(ctx, logg, cfg.Storage) {
			healthy = false
		}
	}

	if !healthy {
		return fmt.Errorf("integrity checks failed")
	}
	return nil
}

func checkSchema(logg *zap.Logger, db *gorm.DB) bool {
	report, err := output.CheckSchema(db)
	if err != nil {
		logg.Error("Schema check failed", zap.Error(err))
		return false
	}

	if report.Matched {
		logg.Info("Result tables match the expected columns.")
		return true
	}

	logg.Warn("Result table mismatches found")
	for table, tbl := range report.Tables {
		switch tbl.Status {
		case output.StatusMissing:
			logg.Warn("Missing table", zap.String("table", table))
		case output.StatusError:
			if len(tbl.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
			}
			if len(tbl.ExtraColumns) > 0 {
				logg.Warn("Unexpected Columns", zap.String("table", table), zap.Strings("columns", tbl.ExtraColumns))
			}
		}
	}
	for _, e := range report.Errors {
		logg.Error("Inspection Error", zap.String("error", e))
	}
	return false
}

func checkBucket(ctx context.Context, logg *zap.Logger, cfg storage.Config) bool {
	client, err := storage.NewClient(cfg)
	if err != nil {
		logg.Error("Failed to create storage client", zap.Error(err))
		return false
	}

	logg.Info("Checking mirror bucket...", zap.String("bucket", cfg.Bucket))
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		logg.Error("Bucket check failed", zap.Error(err))
		return false
	}
	if exists {
		logg.Info("Bucket is present.")
		return true
	}

	if !fixFlag {
		logg.Warn("Bucket is missing. Run with --fix to create it.", zap.String("bucket", cfg.Bucket))
		return false
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil {
		logg.Error("Failed to create bucket", zap.Error(err))
		return false
	}
	logg.Info("Bucket created.", zap.String("bucket", cfg.Bucket))
	return true
}
