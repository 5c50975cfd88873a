// Package utils provides common value conversion helpers for the reconciler.
// It includes the lenient amount and timestamp parsers used by normalization
// and the matching formatters used when rendering result tables.
package utils
