// Package datetime provides date and time utility functions.
package datetime

import (
	"strings"
	"time"

	"github.com/iwvelando/erp-engines/pkg/constants"
)

const (
	// DateLayout is the format expected in workbook files and is also the output
	// date format.
	DateLayout = constants.DateLayout
)

// MustParseDate parses a date string using DateLayout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseDate(dateStr string) time.Time {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDateOr parses a date string, returning fallback when the string is
// empty.
func ParseDateOr(dateStr string, fallback time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(dateStr)
	if trimmed == "" {
		return fallback, nil
	}
	return time.Parse(DateLayout, trimmed)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// AddDays returns the start of the day that lies the given number of days
// after t.
func AddDays(t time.Time, days int) time.Time {
	return StartOfDay(t).AddDate(0, 0, days)
}

// FormatDate formats an optional date, returning an empty string for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
