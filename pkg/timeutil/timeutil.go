package timeutil

import (
	"strings"
	"time"
)

// DayKeyLayout is the canonical calendar-day key, local time.
const DayKeyLayout = "2006-01-02"

// instantLayouts are tried in order for anything that is not a bare date.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseInstant converts a raw date/time representation into a local instant.
// A bare YYYY-MM-DD string is interpreted as local midnight so that the
// calendar day survives any timezone offset. Returns nil when the value
// cannot be parsed; it never panics.
func ParseInstant(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if len(raw) == len(DayKeyLayout) {
		if t, err := time.ParseInLocation(DayKeyLayout, raw, time.Local); err == nil {
			return &t
		}
	}

	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			local := t.In(time.Local)
			return &local
		}
	}

	return nil
}

// DayKey returns the YYYY-MM-DD key of an instant in local time, or the
// empty string for a nil instant.
func DayKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(time.Local).Format(DayKeyLayout)
}

// HoursWorked computes the elapsed hours between an entry and an exit
// representation. Returns nil when either side fails to parse or when the
// span is not positive; a shift that ends at or before its start is invalid,
// not worked backwards.
func HoursWorked(entryRaw, exitRaw string) *float64 {
	entry := ParseInstant(entryRaw)
	exit := ParseInstant(exitRaw)
	if entry == nil || exit == nil {
		return nil
	}

	diff := exit.Sub(*entry)
	if diff <= 0 {
		return nil
	}

	hours := diff.Hours()
	return &hours
}

// Timestamp renders a compact yyyymmddhhmmss suffix for generated filenames,
// with every non-alphanumeric separator stripped.
func Timestamp(now time.Time) string {
	return now.Format("20060102150405")
}
