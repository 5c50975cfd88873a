package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps the size of uploaded feeds.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"64"`
}

// DefaultBodyLimitMB applies when BodyLimitMB is not positive.
const DefaultBodyLimitMB = 64

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	mb := c.BodyLimitMB
	if mb <= 0 {
		mb = DefaultBodyLimitMB
	}
	return mb * 1024 * 1024
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + c.Port
}
