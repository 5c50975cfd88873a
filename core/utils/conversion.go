package utils

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayouts lists the layouts accepted by ParseTimestamp, tried in order.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"01/02/2006",
	"2006/01/02",
}

// OutputTimestampLayout is the layout used when timestamps are written back out.
const OutputTimestampLayout = "2006-01-02 15:04:05"

// ParseAmount converts a raw cell into a nullable decimal.
// Empty or unparseable values yield an invalid NullDecimal instead of an error.
func ParseAmount(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ParseTimestamp converts a raw cell into a nullable time.
// Values without a zone are interpreted as UTC. Unparseable values yield an invalid NullTime.
func ParseTimestamp(raw string) sql.NullTime {
	s := strings.TrimSpace(raw)
	if s == "" {
		return sql.NullTime{}
	}
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: t, Valid: true}
		}
	}
	return sql.NullTime{}
}

// FormatAmount renders a nullable decimal; null renders as the empty string.
func FormatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// FormatTimestamp renders a nullable time; null renders as the empty string.
func FormatTimestamp(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(OutputTimestampLayout)
}

// ToBool converts common textual booleans ("1", "true", "yes") to bool.
func ToBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

// FormatBool renders a bool the way ToBool reads it back.
func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}
