package cmd

import (
	"fmt"

	"ledger-reconciler/core/config"
	"ledger-reconciler/core/logger"
	"ledger-reconciler/feature/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reportCmd renders report.md from a finished run.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a Markdown report and chart for the last run",
	Long:  `Report reads summary.json and exceptions.csv from the output directory and writes report.md and exceptions_by_type.png.`,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().String("outdir", "", "Directory holding the run outputs")
	reportCmd.Flags().Int("sample", report.DefaultSampleSize, "Number of exceptions listed in the report")

	RootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	outDir := cfg.Reconcile.OutDir
	if cmd.Flags().Changed("outdir") {
		outDir, _ = cmd.Flags().GetString("outdir")
	}
	sample, _ := cmd.Flags().GetInt("sample")

	res, err := report.Generate(report.Options{OutDir: outDir, SampleSize: sample})
	if err != nil {
		return err
	}

	l.Info("Report written", zap.String("report", res.ReportPath))
	if res.ChartPath != "" {
		l.Info("Chart written", zap.String("chart", res.ChartPath))
	} else {
		l.Info("No exceptions, chart skipped")
	}
	return nil
}
