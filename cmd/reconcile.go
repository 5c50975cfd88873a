package cmd

import (
	"fmt"

	"ledger-reconciler/core/config"
	"ledger-reconciler/core/database"
	"ledger-reconciler/core/logger"
	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/core/storage"
	"ledger-reconciler/feature/ingest"
	"ledger-reconciler/feature/output"
	"ledger-reconciler/feature/reconciliation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reconcileCmd runs one reconciliation over the configured feeds.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the processor feed against the ledger feed",
	Long: `Reconcile loads both feeds, pairs records by key and by the fallback composite key,
and writes matched.csv, exceptions.csv, unmatched_processor.csv, unmatched_ledger.csv
and summary.json into the output directory.

Examples:
  # Defaults (data/ -> outputs/)
  reconciler reconcile

  # Tighter tolerance, mirrored into SQLite
  reconciler reconcile --amount-tolerance 0.01 --date-window 1 --sqlite outputs/recon.db

  # Feeds from object storage
  reconciler reconcile --processor s3://feeds/processor.csv --ledger s3://feeds/ledger.csv`,
	RunE: runReconcile,
}

func init() {
	registerReconcileFlags(reconcileCmd)
	RootCmd.AddCommand(reconcileCmd)
}

func registerReconcileFlags(c *cobra.Command) {
	f := c.Flags()
	f.String("amount-tolerance", "", "Maximum absolute amount difference of a match (default 0.05)")
	f.Int("date-window", 0, "Maximum whole-day distance between settlement and posting (default 2)")
	f.String("processor", "", "Processor feed path or s3://bucket/key")
	f.String("ledger", "", "Ledger feed path or s3://bucket/key")
	f.String("outdir", "", "Output directory")
	f.String("sqlite", "", "Mirror the result tables into this SQLite file")
}

// loadConfig loads configuration and applies explicitly set reconcile flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := applyReconcileFlags(cmd, &cfg.Reconcile); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyReconcileFlags overrides rc with every reconcile flag set on the command line.
func applyReconcileFlags(cmd *cobra.Command, rc *reconcile.Config) error {
	f := cmd.Flags()

	stringFlags := map[string]*string{
		"amount-tolerance": &rc.AmountTolerance,
		"processor":        &rc.ProcessorPath,
		"ledger":           &rc.LedgerPath,
		"outdir":           &rc.OutDir,
		"sqlite":           &rc.SQLitePath,
	}
	for name, dst := range stringFlags {
		if !f.Changed(name) {
			continue
		}
		value, err := f.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to read flag --%s: %w", name, err)
		}
		*dst = value
	}

	if f.Changed("date-window") {
		window, err := f.GetInt("date-window")
		if err != nil {
			return fmt.Errorf("failed to read flag --date-window: %w", err)
		}
		rc.DateWindow = window
	}
	return nil
}

// buildService wires the optional sinks and the object mirror around the engine.
func buildService(cfg *config.Config, l *zap.Logger) (*reconciliation.Service, error) {
	var (
		opts   []reconciliation.Option
		client storage.Client
	)

	if cfg.Reconcile.SQLitePath != "" {
		db, err := database.OpenSQLite(cfg.Reconcile.SQLitePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, reconciliation.WithSink(output.NewSink(db)))
	}

	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		opts = append(opts, reconciliation.WithSink(output.NewSink(db)))
	}

	if cfg.Storage.Enabled || usesObjectStorage(cfg) {
		c, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		client = c
	}
	if cfg.Storage.Enabled {
		opts = append(opts, reconciliation.WithMirror(output.NewMirror(client, cfg.Storage, l)))
	}

	return reconciliation.NewService(cfg.Reconcile, ingest.NewLoader(client, l), l, opts...), nil
}

func usesObjectStorage(cfg *config.Config) bool {
	return storage.IsObjectURI(cfg.Reconcile.ProcessorPath) || storage.IsObjectURI(cfg.Reconcile.LedgerPath)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	tol, err := cfg.Reconcile.Tolerance()
	if err != nil {
		return err
	}

	svc, err := buildService(cfg, l)
	if err != nil {
		return err
	}

	l.Info("Starting reconciliation",
		zap.String("processor", cfg.Reconcile.ProcessorPath),
		zap.String("ledger", cfg.Reconcile.LedgerPath),
		zap.String("amount_tolerance", tol.Amount.String()),
		zap.Int("date_window", tol.DateWindowDays),
	)

	run, err := svc.Reconcile(cmd.Context(), reconciliation.Request{
		ProcessorPath: cfg.Reconcile.ProcessorPath,
		LedgerPath:    cfg.Reconcile.LedgerPath,
		OutDir:        cfg.Reconcile.OutDir,
		Tolerance:     tol,
	})
	if run == nil {
		return err
	}

	printSummary(l, run)
	if err != nil {
		l.Error("Results written to disk but not persisted everywhere", zap.Error(err))
	}
	return err
}

// printSummary logs the run summary.
func printSummary(l *zap.Logger, run *reconciliation.Run) {
	s := run.Result.Summary

	fields := []zap.Field{
		zap.String("run_id", run.ID),
		zap.Int("total_processor_rows", s.TotalProcessorRows),
		zap.Int("total_ledger_rows", s.TotalLedgerRows),
		zap.Int("matched_rows", s.MatchedRows),
		zap.Float64("match_rate_pct", s.MatchRatePct),
		zap.Int("exceptions_rows", s.ExceptionRows),
	}
	for reason, n := range s.ExceptionsByType {
		fields = append(fields, zap.Int("exceptions."+string(reason), n))
	}
	l.Info("Reconciliation report", fields...)

	for _, f := range run.Files {
		l.Info("Wrote output", zap.String("path", f))
	}
	for _, key := range run.Objects {
		l.Info("Mirrored output", zap.String("key", key))
	}
}
