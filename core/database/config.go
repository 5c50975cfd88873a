package database

const (
	// DriverMySQL selects the MySQL dialector.
	DriverMySQL = "mysql"
	// DriverSQLite selects the SQLite dialector. Name is then the database file path.
	DriverSQLite = "sqlite"
)

// Config holds configuration for the database connection.
type Config struct {
	// Enabled mirrors reconciliation results into this database.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file path for sqlite.
	Name string `mapstructure:"name" default:"reconciliation"`
	// TimeoutSeconds bounds the connection setup, I/O and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// IsValidDriver checks if the configured driver is supported.
func (c Config) IsValidDriver() bool {
	switch c.Driver {
	case DriverMySQL, DriverSQLite:
		return true
	default:
		return false
	}
}
