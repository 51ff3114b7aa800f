package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAt_DayFirstInput(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in       string
		expected string
	}{
		{"15-03-2024", "2024-03-15"},
		{"01-02-2024", "2024-02-01"},
		{"31-12-1999", "1999-12-31"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, NormalizeAt(tc.in, now), "input %q", tc.in)
	}
}

func TestNormalizeAt_CanonicalPassesThrough(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-15", NormalizeAt("2024-03-15", now))
}

func TestNormalizeAt_Idempotent(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	once := NormalizeAt("15-03-2024", now)
	twice := NormalizeAt(once, now)
	assert.Equal(t, once, twice)
}

func TestNormalizeAt_EmptyUsesToday(t *testing.T) {
	now := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "2024-06-01", NormalizeAt("", now))
}

func TestNormalizeAt_UnrecognizedPassesThrough(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []string{
		"yesterday",
		"2024/03/15",
		"1-2-2024",    // parts too short
		"15-03-24",    // two-digit year
		"15-03",       // only two parts
		"03-15-2024x", // trailing junk keeps the group length wrong
	}

	for _, in := range tests {
		assert.Equal(t, in, NormalizeAt(in, now), "input %q", in)
	}
}

func TestNormalizeAt_DoesNotValidateCalendar(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Group lengths are all the heuristic looks at. 99-99-2024 still
	// rearranges; callers get garbage in, rearranged garbage out.
	assert.Equal(t, "2024-99-99", NormalizeAt("99-99-2024", now))
}

func TestNormalize_UsesCurrentDate(t *testing.T) {
	got := Normalize("")
	assert.Equal(t, time.Now().Format("2006-01-02"), got)
}
