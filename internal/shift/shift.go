package shift

import (
	"fmt"
	"time"

	"icsshift/internal/model"
)

// Delta returns the duration to add to an event starting at start.
//
// In anchor mode the target is hour:00:00 on start's day (in start's
// location), or the neighbouring day when start lies on the wrong side of
// it. An event that already starts exactly on the anchor yields zero in both
// directions.
func Delta(start time.Time, spec Spec) time.Duration {
	if spec.mode != ModeAnchor {
		return spec.delta
	}

	sameDay := time.Date(start.Year(), start.Month(), start.Day(), spec.hour, 0, 0, 0, start.Location())

	var target time.Time
	switch spec.direction {
	case Earlier:
		if start.Before(sameDay) {
			target = sameDay.AddDate(0, 0, -1)
		} else {
			target = sameDay
		}
	default:
		if !start.After(sameDay) {
			target = sameDay
		} else {
			target = sameDay.AddDate(0, 0, 1)
		}
	}
	return target.Sub(start)
}

// Apply returns a copy of ev with DTSTART and DTEND moved by the delta spec
// yields for its start. Either both fields change or, on error, neither.
func Apply(ev model.Event, spec Spec) (model.Event, time.Duration, error) {
	start, err := field(ev, model.FieldStart)
	if err != nil {
		return ev, 0, err
	}
	end, err := field(ev, model.FieldEnd)
	if err != nil {
		return ev, 0, err
	}

	d := Delta(start, spec)
	newStart, newEnd := start.Add(d), end.Add(d)
	if !representable(newStart) || !representable(newEnd) {
		return ev, 0, fmt.Errorf("%w: shifted by %s the event leaves years 0000-9999", ErrTimestamp, d)
	}

	out, err := ev.With(model.FieldStart, FormatTimestamp(newStart))
	if err != nil {
		return ev, 0, fmt.Errorf("%w: %w", ErrTimestamp, err)
	}
	out, err = out.With(model.FieldEnd, FormatTimestamp(newEnd))
	if err != nil {
		return ev, 0, fmt.Errorf("%w: %w", ErrTimestamp, err)
	}
	return out, d, nil
}

// representable reports whether t fits the four-digit year of TimestampLayout.
func representable(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 0 && y <= 9999
}

func field(ev model.Event, name string) (time.Time, error) {
	v, ok := ev.Get(name)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %w: %s", ErrTimestamp, model.ErrFieldNotFound, name)
	}
	t, err := ParseTimestamp(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// Failure records an event left unshifted.
type Failure struct {
	Index   int // position in Document.Records
	Summary string
	Err     error
}

// Shifted records an event that was moved.
type Shifted struct {
	Index   int
	Summary string
	Delta   time.Duration
}

// Report summarizes a batch shift.
type Report struct {
	Events   int
	Shifted  []Shifted
	Failures []Failure
}

// Document shifts every event of doc and returns a new document. Events that
// cannot be shifted are kept as they were and listed in the report. doc
// itself is not modified.
func Document(doc model.Document, spec Spec) (model.Document, Report) {
	var rep Report
	out := model.Document{
		Records:    make([]model.Record, 0, len(doc.Records)),
		LineEnding: doc.LineEnding,
	}

	for i, rec := range doc.Records {
		switch r := rec.(type) {
		case model.Event:
			rep.Events++
			shifted, d, err := Apply(r, spec)
			if err != nil {
				rep.Failures = append(rep.Failures, Failure{Index: i, Summary: r.Summary(), Err: err})
				out.Records = append(out.Records, r)
				continue
			}
			rep.Shifted = append(rep.Shifted, Shifted{Index: i, Summary: r.Summary(), Delta: d})
			out.Records = append(out.Records, shifted)
		default:
			out.Records = append(out.Records, rec)
		}
	}
	return out, rep
}
