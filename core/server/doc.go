// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the API key guarding the reconciliation
// endpoints and the upload size limit. It is embedded by core/config and read by
// the start command when building the Fiber application.
package server
