package ics

import (
	"bytes"
	"errors"
	"fmt"

	ical "github.com/arran4/golang-ical"
)

// ErrVerify reports that serialized output did not read back as expected.
var ErrVerify = errors.New("output verification failed")

// Verify re-reads serialized calendar data with an independent iCalendar
// parser and checks that it still holds wantEvents VEVENTs with readable
// start times.
func Verify(data []byte, wantEvents int) error {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}

	events := cal.Events()
	if len(events) != wantEvents {
		return fmt.Errorf("%w: expected %d events, parsed %d", ErrVerify, wantEvents, len(events))
	}

	for i, ev := range events {
		if ev.GetProperty(ical.ComponentPropertyDtStart) == nil {
			continue
		}
		if _, err := ev.GetStartAt(); err != nil {
			return fmt.Errorf("%w: event %d: %w", ErrVerify, i, err)
		}
	}
	return nil
}
