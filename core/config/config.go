package config

import (
	"fmt"
	"reflect"
	"strings"

	"ledger-reconciler/core/database"
	"ledger-reconciler/core/logger"
	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/core/server"
	"ledger-reconciler/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Reconcile holds the thresholds and locations of a reconciliation run.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the optional relational sink.
	Database database.Config `mapstructure:"database"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// A missing .env file is fine (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Register every key with its default so AutomaticEnv can resolve it
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. RECONCILE_DATE_WINDOW -> reconcile.date_window)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return &config, nil
}

// Validate checks the settings that must fail before any I/O.
func (c *Config) Validate() error {
	if _, err := c.Reconcile.Tolerance(); err != nil {
		return fmt.Errorf("invalid reconcile configuration: %w", err)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log configuration: %w", err)
	}
	if c.Database.Enabled && !c.Database.IsValidDriver() {
		return fmt.Errorf("invalid database configuration: unsupported driver %q", c.Database.Driver)
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return fmt.Errorf("invalid storage configuration: bucket is required")
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
