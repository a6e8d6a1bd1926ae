package shift

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSpec is returned for malformed shift specifications.
var ErrInvalidSpec = errors.New("invalid shift specification")

// Mode selects how the delta for an event is computed.
type Mode int

const (
	ModeNone Mode = iota
	ModeFixed
	ModeAnchor
)

// Direction is the side of an event's start the anchor is searched on.
type Direction int

const (
	Later Direction = iota
	Earlier
)

func (d Direction) String() string {
	if d == Earlier {
		return "earlier"
	}
	return "later"
}

// Spec is a shift request: either a fixed duration or an anchor hour.
// The zero value is invalid.
type Spec struct {
	mode      Mode
	delta     time.Duration
	hour      int
	direction Direction
}

// Fixed shifts every event by d.
func Fixed(d time.Duration) Spec {
	return Spec{mode: ModeFixed, delta: d}
}

// Anchor moves every event to hour:00 on the nearest day in direction dir.
func Anchor(hour int, dir Direction) Spec {
	return Spec{mode: ModeAnchor, hour: hour, direction: dir}
}

// ParseAnchor decodes the signed hour form: "8" is later to 08:00, "-8" is
// earlier to 08:00. "-0" means earlier to midnight.
func ParseAnchor(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	dir := Later
	digits := s
	if strings.HasPrefix(s, "-") {
		dir = Earlier
		digits = s[1:]
	} else if strings.HasPrefix(s, "+") {
		digits = s[1:]
	}

	h, err := strconv.Atoi(digits)
	if err != nil || strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		return Spec{}, fmt.Errorf("%w: anchor %q is not a signed hour", ErrInvalidSpec, s)
	}

	spec := Anchor(h, dir)
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

const maxHours = math.MaxInt64 / int64(time.Hour)

// ParseDelta accepts a Go duration ("-1h30m") or a bare integer number of
// hours ("-1").
func ParseDelta(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > maxHours || n < -maxHours {
			return Spec{}, fmt.Errorf("%w: delta %q hours out of range", ErrInvalidSpec, s)
		}
		return Fixed(time.Duration(n) * time.Hour), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: delta %q: %w", ErrInvalidSpec, s, err)
	}
	return Fixed(d), nil
}

func (s Spec) Mode() Mode { return s.mode }

// Delta returns the fixed duration; zero in anchor mode.
func (s Spec) Delta() time.Duration { return s.delta }

// Hour returns the anchor hour; zero in fixed mode.
func (s Spec) Hour() int { return s.hour }

func (s Spec) Direction() Direction { return s.direction }

// Validate checks that s names exactly one usable mode.
func (s Spec) Validate() error {
	switch s.mode {
	case ModeFixed:
		return nil
	case ModeAnchor:
		if s.hour < 0 || s.hour > 23 {
			return fmt.Errorf("%w: anchor hour %d outside 0-23", ErrInvalidSpec, s.hour)
		}
		return nil
	default:
		return fmt.Errorf("%w: no delta or anchor given", ErrInvalidSpec)
	}
}

func (s Spec) String() string {
	switch s.mode {
	case ModeFixed:
		return "delta " + s.delta.String()
	case ModeAnchor:
		return fmt.Sprintf("anchor %02d:00 %s", s.hour, s.direction)
	default:
		return "none"
	}
}
