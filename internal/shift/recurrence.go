package shift

import (
	"strings"

	"github.com/teambition/rrule-go"

	"icsshift/internal/model"
)

// RecurrenceNotes lists reasons why shifting ev may not move its whole series
// consistently. Recurrences are never expanded; DTSTART/DTEND are the only
// values rewritten, so rule parts that pin wall-clock times, and exception
// dates, keep their old values.
func RecurrenceNotes(ev model.Event) []string {
	var notes []string

	for _, p := range ev.Pairs() {
		switch {
		case p.Key == model.FieldRRule:
			notes = append(notes, ruleNotes(p.Value)...)
		case p.Key == "EXDATE" || strings.HasPrefix(p.Key, "EXDATE;"):
			notes = append(notes, "EXDATE values are not shifted")
		case p.Key == "RECURRENCE-ID" || strings.HasPrefix(p.Key, "RECURRENCE-ID;"):
			notes = append(notes, "RECURRENCE-ID is not shifted")
		}
	}
	return notes
}

func ruleNotes(raw string) []string {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return []string{"RRULE not understood: " + err.Error()}
	}

	var notes []string
	if len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 {
		notes = append(notes, "RRULE pins BYHOUR/BYMINUTE/BYSECOND; occurrences keep their old time of day")
	}
	if !opt.Until.IsZero() {
		notes = append(notes, "RRULE UNTIL is not shifted; the last occurrence may be dropped or added")
	}
	return notes
}
