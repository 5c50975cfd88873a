// Package config provides configuration management for the reconciler.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each partial
// configuration; command-line flags override the loaded values.
//
// # Configuration Structure
//
//   - Reconcile: tolerances, input feeds, output directory, SQLite mirror
//   - Server: HTTP port, API key, upload limit
//   - Database: optional MySQL or SQLite sink
//   - Storage: S3/MinIO credentials, bucket and prefix of the output mirror
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
