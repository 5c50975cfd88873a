package cmd

import (
	"fmt"
	"os"

	"ledger-reconciler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "Payments reconciliation engine",
	Long: `Reconciler pairs payment-processor transactions with accounting-ledger postings
and reports every record that does not reconcile, with a reason.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding at debug level gives readable ISO8601 timestamps for CLI failures.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
