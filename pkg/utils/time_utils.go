package utils

import "time"

// Tour plans key their days by calendar date, independent of clock time.
const dateKeyLayout = "2006-01-02"

func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

func ParseDateKey(s string) (time.Time, error) {
	return time.Parse(dateKeyLayout, s)
}

func FormatRFC3339(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
