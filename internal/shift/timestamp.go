package shift

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the only accepted DTSTART/DTEND value form: UTC,
// second precision, e.g. 20140320T100000Z.
const TimestampLayout = "20060102T150405Z"

// ErrTimestamp is returned when an event's start or end cannot be read.
var ErrTimestamp = errors.New("timestamp unusable")

// ParseTimestamp parses v in TimestampLayout. Surrounding whitespace is not
// accepted.
func ParseTimestamp(v string) (time.Time, error) {
	if len(v) != len(TimestampLayout) || !strings.HasSuffix(v, "Z") {
		return time.Time{}, fmt.Errorf("%w: %q is not in %s form", ErrTimestamp, v, TimestampLayout)
	}
	t, err := time.Parse(TimestampLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrTimestamp, err)
	}
	return t.UTC(), nil
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
