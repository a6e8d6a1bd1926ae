package shift_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icsshift/internal/ics"
	"icsshift/internal/model"
	"icsshift/internal/shift"
)

func meeting(start, end string) model.Event {
	pairs := []model.Pair{
		{Key: "BEGIN", Value: "VEVENT"},
		{Key: "SUMMARY", Value: "Meeting"},
	}
	if start != "" {
		pairs = append(pairs, model.Pair{Key: "DTSTART", Value: start})
	}
	if end != "" {
		pairs = append(pairs, model.Pair{Key: "DTEND", Value: end})
	}
	pairs = append(pairs, model.Pair{Key: "END", Value: "VEVENT"})
	return model.NewEvent(pairs)
}

func ts(t *testing.T, v string) time.Time {
	t.Helper()
	tm, err := shift.ParseTimestamp(v)
	require.NoError(t, err)
	return tm
}

func Test_Apply_Fixed_Delta_Moves_Start_And_End(t *testing.T) {
	t.Parallel()

	ev := meeting("20140320T100000Z", "20140320T110000Z")

	out, d, err := shift.Apply(ev, shift.Fixed(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, -time.Hour, d)

	assert.Equal(t, []string{
		"BEGIN:VEVENT",
		"SUMMARY:Meeting",
		"DTSTART:20140320T090000Z",
		"DTEND:20140320T100000Z",
		"END:VEVENT",
	}, out.Lines())

	start, _ := ev.Get("DTSTART")
	assert.Equal(t, "20140320T100000Z", start, "input event must not change")
}

func Test_Apply_Fixed_Delta_Preserves_Event_Length(t *testing.T) {
	t.Parallel()

	deltas := []time.Duration{-36 * time.Hour, -90 * time.Minute, 0, 45 * time.Second, 7 * 24 * time.Hour}
	ev := meeting("20141231T233000Z", "20150101T011500Z")

	for _, delta := range deltas {
		out, _, err := shift.Apply(ev, shift.Fixed(delta))
		require.NoError(t, err)

		oldStart, oldEnd := ts(t, mustGet(t, ev, "DTSTART")), ts(t, mustGet(t, ev, "DTEND"))
		newStart, newEnd := ts(t, mustGet(t, out, "DTSTART")), ts(t, mustGet(t, out, "DTEND"))

		assert.Equal(t, delta, newStart.Sub(oldStart))
		assert.Equal(t, delta, newEnd.Sub(oldEnd))
		assert.Equal(t, oldEnd.Sub(oldStart), newEnd.Sub(newStart))
	}
}

func mustGet(t *testing.T, ev model.Event, name string) string {
	t.Helper()
	v, ok := ev.Get(name)
	require.True(t, ok, name)
	return v
}

func Test_Apply_Anchor_Earlier_Example(t *testing.T) {
	t.Parallel()

	spec, err := shift.ParseAnchor("-8")
	require.NoError(t, err)

	out, d, err := shift.Apply(meeting("20140320T100000Z", "20140320T110000Z"), spec)
	require.NoError(t, err)

	assert.Equal(t, -2*time.Hour, d)
	assert.Equal(t, "20140320T080000Z", mustGet(t, out, "DTSTART"))
	assert.Equal(t, "20140320T090000Z", mustGet(t, out, "DTEND"))
}

func Test_Apply_Is_All_Or_Nothing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		start, end string
	}{
		{name: "missing end", start: "20140320T100000Z"},
		{name: "missing start", end: "20140320T110000Z"},
		{name: "bad end", start: "20140320T100000Z", end: "20140320T110000"},
		{name: "bad start", start: "2014-03-20T10:00:00Z", end: "20140320T110000Z"},
		{name: "date only", start: "20140320", end: "20140321"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ev := meeting(tc.start, tc.end)
			out, d, err := shift.Apply(ev, shift.Fixed(time.Hour))
			require.ErrorIs(t, err, shift.ErrTimestamp)
			assert.Zero(t, d)
			assert.Equal(t, ev.Lines(), out.Lines())
		})
	}
}

func Test_Apply_Rejects_Shift_Outside_Four_Digit_Years(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		start, end string
		delta      time.Duration
	}{
		{name: "end past 9999", start: "99991231T200000Z", end: "99991231T230000Z", delta: 2 * time.Hour},
		{name: "start past 9999", start: "99991231T230000Z", end: "99991231T233000Z", delta: 2 * time.Hour},
		{name: "before year 0", start: "00000101T010000Z", end: "00000101T020000Z", delta: -2 * time.Hour},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ev := meeting(tc.start, tc.end)
			out, d, err := shift.Apply(ev, shift.Fixed(tc.delta))
			require.ErrorIs(t, err, shift.ErrTimestamp)
			assert.Zero(t, d)
			assert.Equal(t, ev.Lines(), out.Lines())
		})
	}

	out, _, err := shift.Apply(meeting("99991231T200000Z", "99991231T210000Z"), shift.Fixed(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "99991231T230000Z", mustGet(t, out, "DTEND"))
}

func Test_Apply_Missing_Field_Wraps_FieldNotFound(t *testing.T) {
	t.Parallel()

	_, _, err := shift.Apply(meeting("20140320T100000Z", ""), shift.Fixed(time.Hour))
	require.ErrorIs(t, err, model.ErrFieldNotFound)
	assert.Contains(t, err.Error(), "DTEND")
}

func Test_Delta_Anchor_Mode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		start string
		spec  shift.Spec
		want  time.Duration
	}{
		{name: "earlier, after anchor goes to same day", start: "20140320T100000Z", spec: shift.Anchor(8, shift.Earlier), want: -2 * time.Hour},
		{name: "earlier, before anchor goes to previous day", start: "20140320T060000Z", spec: shift.Anchor(8, shift.Earlier), want: -22 * time.Hour},
		{name: "later, before anchor goes to same day", start: "20140320T060000Z", spec: shift.Anchor(8, shift.Later), want: 2 * time.Hour},
		{name: "later, after anchor goes to next day", start: "20140320T100000Z", spec: shift.Anchor(8, shift.Later), want: 22 * time.Hour},
		{name: "later, minutes past anchor", start: "20140320T080001Z", spec: shift.Anchor(8, shift.Later), want: 24*time.Hour - time.Second},
		{name: "earlier, midnight anchor", start: "20140320T000000Z", spec: shift.Anchor(0, shift.Earlier), want: 0},
		{name: "earlier, crosses month", start: "20140301T050000Z", spec: shift.Anchor(23, shift.Earlier), want: -6 * time.Hour},
		{name: "later, crosses year", start: "20141231T230000Z", spec: shift.Anchor(1, shift.Later), want: 2 * time.Hour},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, shift.Delta(ts(t, tc.start), tc.spec))
		})
	}
}

// An event already starting on the anchor hour stays put, whichever
// direction was requested.
func Test_Delta_Anchor_Boundary_Is_Fixed_Point(t *testing.T) {
	t.Parallel()

	start := ts(t, "20140320T080000Z")
	assert.Equal(t, time.Duration(0), shift.Delta(start, shift.Anchor(8, shift.Earlier)))
	assert.Equal(t, time.Duration(0), shift.Delta(start, shift.Anchor(8, shift.Later)))
}

func Test_Delta_Anchor_Lands_On_Hour_In_Requested_Direction(t *testing.T) {
	t.Parallel()

	base := ts(t, "20140320T000000Z")
	for minutes := 0; minutes < 24*60; minutes += 17 {
		start := base.Add(time.Duration(minutes) * time.Minute)
		for hour := 0; hour < 24; hour += 5 {
			for _, dir := range []shift.Direction{shift.Earlier, shift.Later} {
				d := shift.Delta(start, shift.Anchor(hour, dir))
				got := start.Add(d)

				assert.Equal(t, hour, got.Hour())
				assert.Zero(t, got.Minute())
				assert.Zero(t, got.Second())
				assert.Less(t, d.Abs(), 24*time.Hour)
				if dir == shift.Earlier {
					assert.LessOrEqual(t, d, time.Duration(0))
				} else {
					assert.GreaterOrEqual(t, d, time.Duration(0))
				}
			}
		}
	}
}

func Test_Document_Shifts_Events_And_Keeps_Failures(t *testing.T) {
	t.Parallel()

	doc, _ := ics.Tokenize([]string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:Good",
		"DTSTART:20140320T100000Z",
		"DTEND:20140320T110000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"SUMMARY:No end",
		"DTSTART:20140320T100000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"SUMMARY:Truncated",
		"DTSTART:20140320T100000Z",
		"DTEND:20140320T110000Z",
	})
	before := string(ics.Marshal(doc))

	out, rep := shift.Document(doc, shift.Fixed(-time.Hour))

	assert.Equal(t, 2, rep.Events)
	require.Len(t, rep.Shifted, 1)
	assert.Equal(t, 1, rep.Shifted[0].Index)
	assert.Equal(t, "Good", rep.Shifted[0].Summary)
	assert.Equal(t, -time.Hour, rep.Shifted[0].Delta)

	require.Len(t, rep.Failures, 1)
	assert.Equal(t, 2, rep.Failures[0].Index)
	assert.Equal(t, "No end", rep.Failures[0].Summary)
	require.ErrorIs(t, rep.Failures[0].Err, model.ErrFieldNotFound)

	assert.Equal(t, before, string(ics.Marshal(doc)), "input document must not change")

	assert.Equal(t, "BEGIN:VCALENDAR\r\n"+
		"BEGIN:VEVENT\r\n"+
		"SUMMARY:Good\r\n"+
		"DTSTART:20140320T090000Z\r\n"+
		"DTEND:20140320T100000Z\r\n"+
		"END:VEVENT\r\n"+
		"BEGIN:VEVENT\r\n"+
		"SUMMARY:No end\r\n"+
		"DTSTART:20140320T100000Z\r\n"+
		"END:VEVENT\r\n"+
		"BEGIN:VEVENT\r\n"+
		"SUMMARY:Truncated\r\n"+
		"DTSTART:20140320T100000Z\r\n"+
		"DTEND:20140320T110000Z\r\n", string(ics.Marshal(out)))
}

func Test_Document_Keeps_Line_Ending(t *testing.T) {
	t.Parallel()

	doc := model.Document{LineEnding: "\n"}
	out, rep := shift.Document(doc, shift.Fixed(time.Hour))
	assert.Equal(t, "\n", out.LineEnding)
	assert.Zero(t, rep.Events)
}
