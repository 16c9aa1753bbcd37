package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 form written for persisted dates:
// UTC with millisecond precision and a literal Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DateLayout is the calendar-date form accepted from users.
const DateLayout = "2006-01-02"

// Layouts carrying their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// Layouts without an offset, read in the caller's location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DateLayout,
}

// FormatTimestamp renders t in UTC. Instants on a whole millisecond use
// TimestampLayout; finer instants keep every digit so they read back equal.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()%int(time.Millisecond) == 0 {
		return t.Format(TimestampLayout)
	}
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp accepts any of the ISO-8601 variants found in stored data
// and backup files. Values without an offset, bare dates included, are
// read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	return ParseTimestampIn(s, time.UTC)
}

// ParseTimestampIn is ParseTimestamp with values lacking an offset read in
// loc, so a bare date from the command line means local midnight.
func ParseTimestampIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
