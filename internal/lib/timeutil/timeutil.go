package timeutil

import "time"

// iso8601 matches the ledger timestamp format: UTC with millisecond precision
// and a literal Z suffix.
const iso8601 = "2006-01-02T15:04:05.000Z"

func ISO8601(t time.Time) string {
	return t.UTC().Format(iso8601)
}

// ParseISO8601 accepts only the exact ledger format, so a parsed timestamp
// always formats back to the same string.
func ParseISO8601(s string) (time.Time, error) {
	return time.Parse(iso8601, s)
}
