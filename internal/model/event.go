package model

import "fmt"

// Well-known VEVENT property names.
const (
	FieldStart   = "DTSTART"
	FieldEnd     = "DTEND"
	FieldSummary = "SUMMARY"
	FieldRRule   = "RRULE"
)

// Event is a VEVENT record, including its BEGIN/END marker lines. It is a
// value type: With returns a modified copy and never touches the receiver.
type Event struct {
	pairs []Pair
}

func (Event) isRecord() {}

// NewEvent builds an event from pairs. The slice is copied.
func NewEvent(pairs []Pair) Event {
	return Event{pairs: clonePairs(pairs)}
}

// Pairs returns a copy of the event's pairs.
func (e Event) Pairs() []Pair {
	return clonePairs(e.pairs)
}

// Get returns the value of the first pair named name.
func (e Event) Get(name string) (string, bool) {
	i := e.index(name)
	if i < 0 {
		return "", false
	}
	return e.pairs[i].Value, true
}

// With returns a copy of e whose first name pair holds value. The pair keeps
// its position; folded continuation lines of the old value are dropped.
func (e Event) With(name, value string) (Event, error) {
	i := e.index(name)
	if i < 0 {
		return Event{}, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
	}

	out := Event{pairs: clonePairs(e.pairs)}
	out.pairs[i].Value = value
	out.pairs[i].Folded = nil
	return out, nil
}

// Summary returns the SUMMARY value or "" when the event has none.
func (e Event) Summary() string {
	s, _ := e.Get(FieldSummary)
	return s
}

// Lines returns the event as content lines, folded continuations included.
func (e Event) Lines() []string {
	return linesOf(e.pairs)
}

func (e Event) index(name string) int {
	for i, p := range e.pairs {
		if p.Key == name {
			return i
		}
	}
	return -1
}

func clonePairs(pairs []Pair) []Pair {
	if pairs == nil {
		return nil
	}
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		out[i] = p.clone()
	}
	return out
}
