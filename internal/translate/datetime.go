package translate

import (
	"fmt"
	"strings"
	"time"
)

// Intara timestamp layouts. Record datetime values carry a literal "+00:00"
// suffix while lastModifiedDate values and filter bounds carry a literal "Z".
// Both denote UTC; no other offset is accepted.
const (
	recordTimeLayout   = "2006-01-02T15:04:05+00:00"
	modifiedTimeLayout = "2006-01-02T15:04:05Z"
)

// ParseRecordTime parses a record's datetime property.
// Returns time in UTC.
func ParseRecordTime(s string) (time.Time, error) {
	return parseIntaraTime(s, recordTimeLayout)
}

// ParseModifiedTime parses a lastModifiedDate property.
// Returns time in UTC.
func ParseModifiedTime(s string) (time.Time, error) {
	return parseIntaraTime(s, modifiedTimeLayout)
}

func parseIntaraTime(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty time string", ErrInvalidDateTime)
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match layout %q", ErrInvalidDateTime, s, layout)
	}

	return t.UTC(), nil
}

// FormatFilterTime formats a bound for lastModifiedDate range fragments.
func FormatFilterTime(t time.Time) string {
	return t.UTC().Format(modifiedTimeLayout)
}
