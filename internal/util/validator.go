package util

import (
	"fmt"
	"regexp"
	"time"
)

var (
	emailRe = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	rollRe  = regexp.MustCompile(`^[A-Z0-9]{6,10}$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidRollNumber reports whether s is 6-10 uppercase letters and digits
// (e.g. CSE301234).
func ValidRollNumber(s string) bool {
	return rollRe.MatchString(s)
}

// ParseEventTime parses the timestamp formats clients send for event
// start/end values.
func ParseEventTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	layouts := []string{
		time.RFC3339,          // 2026-03-01T09:00:00+05:30
		"2006-01-02T15:04:05", // 2026-03-01T09:00:00
		"2006-01-02T15:04",    // 2026-03-01T09:00
		"2006-01-02",          // 2026-03-01
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format: %q", s)
}
