// Package dates normalizes free-text date input into canonical
// year-month-day form.
package dates

import (
	"strings"
	"time"
)

// canonical is the yyyy-mm-dd layout every stored date uses.
const canonical = "2006-01-02"

// Normalize converts a day-month-year date string (two-digit day, two-digit
// month, four-digit year, hyphen separated) into year-month-day order. Any
// other input passes through unchanged; an empty input yields today's date.
// Idempotent: normalizing an already-canonical value is a no-op.
func Normalize(s string) string {
	return NormalizeAt(s, time.Now())
}

// NormalizeAt is Normalize with an explicit clock, for deterministic tests.
func NormalizeAt(s string, now time.Time) string {
	if s == "" {
		return now.Format(canonical)
	}

	parts := strings.Split(s, "-")
	if len(parts) == 3 && len(parts[0]) == 2 && len(parts[1]) == 2 && len(parts[2]) == 4 {
		return parts[2] + "-" + parts[1] + "-" + parts[0]
	}

	return s
}
