// Package format renders timestamps for table output.
package format

import (
	"fmt"
	"time"
)

// ParseSVNTime parses a timestamp as emitted by svn XML output
// (RFC 3339 with fractional seconds, e.g. 2026-08-01T10:00:00.123456Z).
func ParseSVNTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse svn timestamp %q: %w", s, err)
	}
	return t, nil
}

// RelativeTime formats a time relative to now ("3h ago", "yesterday").
// Times older than a week render as a plain date.
func RelativeTime(t time.Time) string {
	return RelativeTimeFrom(t, time.Now())
}

// RelativeTimeFrom is RelativeTime against an explicit reference time.
func RelativeTimeFrom(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 2*time.Second:
		return "just now"
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
