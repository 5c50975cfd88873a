package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.05", cfg.Reconcile.AmountTolerance)
	assert.Equal(t, 2, cfg.Reconcile.DateWindow)
	assert.Equal(t, "data/processor_transactions.csv", cfg.Reconcile.ProcessorPath)
	assert.Equal(t, "data/ledger_postings.csv", cfg.Reconcile.LedgerPath)
	assert.Equal(t, "outputs", cfg.Reconcile.OutDir)
	assert.Empty(t, cfg.Reconcile.SQLitePath)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 64, cfg.Server.BodyLimitMB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Storage.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("RECONCILE_AMOUNT_TOLERANCE", "0.10")
	t.Setenv("RECONCILE_DATE_WINDOW", "5")
	t.Setenv("STORAGE_ENABLED", "true")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.10", cfg.Reconcile.AmountTolerance)
	assert.Equal(t, 5, cfg.Reconcile.DateWindow)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("RECONCILE_OUTDIR=/tmp/recon-out\nLOG_FORMAT=json\n"), 0o644)
	require.NoError(t, err)
	t.Cleanup(func() {
		os.Unsetenv("RECONCILE_OUTDIR")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/recon-out", cfg.Reconcile.OutDir)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"Negative Tolerance", func(c *Config) { c.Reconcile.AmountTolerance = "-1" }, "invalid reconcile configuration"},
		{"Negative Window", func(c *Config) { c.Reconcile.DateWindow = -3 }, "invalid reconcile configuration"},
		{"Bad Log Level", func(c *Config) { c.Log.Level = "chatty" }, "invalid log configuration"},
		{"Bad Driver", func(c *Config) { c.Database.Enabled = true; c.Database.Driver = "mssql" }, "unsupported driver"},
		{"Missing Bucket", func(c *Config) { c.Storage.Enabled = true; c.Storage.Bucket = "" }, "bucket is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}
