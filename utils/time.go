package utils

import (
	"fmt"
	"time"
)

// ParseInstant normalizes the wire representations we accept (RFC3339 with or
// without fractional seconds) into a single canonical UTC instant. Everything
// below the handler/consumer boundary works with the result only.
func ParseInstant(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized instant %q", s)
}

// FormatInstant renders an instant for the wire.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// LocalDate renders the calendar day of t in loc as YYYY-MM-DD.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
