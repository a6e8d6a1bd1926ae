package model

import "errors"

// ErrFieldNotFound is returned when an event has no pair with the requested key.
var ErrFieldNotFound = errors.New("field not found")

// Default line terminator for serialized calendars (RFC 5545 uses CRLF).
const DefaultLineEnding = "\r\n"

// Pair is one KEY:VALUE content line, split on the first colon.
//
// Folded holds continuation lines (leading space or tab) that followed the
// pair in the input. They are kept verbatim and re-emitted right after it.
type Pair struct {
	Key    string
	Value  string
	Folded []string
}

// Line returns the pair as it appears on its first line.
func (p Pair) Line() string {
	return p.Key + ":" + p.Value
}

func (p Pair) clone() Pair {
	if p.Folded != nil {
		p.Folded = append([]string(nil), p.Folded...)
	}
	return p
}

// Record is one parsed unit of a calendar file. It is implemented only by
// GenericRecord and Event; consumers dispatch on the concrete type:
//
//	switch r := rec.(type) {
//	case model.Event:
//	case model.GenericRecord:
//	}
type Record interface {
	// Lines returns the serialized content lines in original order.
	Lines() []string

	isRecord()
}

// GenericRecord carries non-event content (calendar header, VTIMEZONE blocks,
// footer, unterminated events) with no interpretation.
type GenericRecord struct {
	Pairs []Pair
}

func (GenericRecord) isRecord() {}

// Lines returns the record exactly as it was tokenized.
func (g GenericRecord) Lines() []string {
	return linesOf(g.Pairs)
}

// Document is the ordered sequence of records of one calendar file.
type Document struct {
	Records []Record

	// LineEnding is appended after every serialized line. Empty means
	// DefaultLineEnding.
	LineEnding string
}

// Events returns the events of the document in order.
func (d Document) Events() []Event {
	out := make([]Event, 0)
	for _, r := range d.Records {
		if ev, ok := r.(Event); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Terminator returns the effective line terminator.
func (d Document) Terminator() string {
	if d.LineEnding == "" {
		return DefaultLineEnding
	}
	return d.LineEnding
}

func linesOf(pairs []Pair) []string {
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		lines = append(lines, p.Line())
		lines = append(lines, p.Folded...)
	}
	return lines
}
