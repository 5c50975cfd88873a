// Package logger provides a structured logging facility based on Zap.
//
// New builds a production or development logger from the configured level and
// encoding (console or json). WithRayID attaches the request id stored by the
// rayid middleware to every entry logged while serving a request.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	if err != nil {
//	    return err
//	}
//	log.Info("Reconciliation finished", zap.Int("matched", summary.MatchedRows))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
