package ics

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"bookingagg/internal/analyzer"
	"bookingagg/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func calendar(events ...string) *strings.Reader {
	body := "BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:-//bookingagg//test//EN\n" +
		strings.Join(events, "") +
		"END:VCALENDAR\n"
	return strings.NewReader(strings.ReplaceAll(body, "\n", "\r\n"))
}

func vevent(lines ...string) string {
	return "BEGIN:VEVENT\n" + strings.Join(lines, "\n") + "\nEND:VEVENT\n"
}

func year2026() (time.Time, time.Time) {
	return day(2026, 1, 1), day(2026, 12, 31)
}

func spans(bookings []models.Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.String()
	}
	return out
}

func TestImport_SingleEvents(t *testing.T) {
	r := calendar(
		vevent(
			"UID:all-day",
			"DTSTART;VALUE=DATE:20260301",
			"DTEND;VALUE=DATE:20260306",
		),
		vevent(
			"UID:timed",
			"DTSTART:20260310T090000Z",
			"DTEND:20260311T120000Z",
		),
		vevent(
			"UID:no-end",
			"DTSTART;VALUE=DATE:20260320",
		),
		vevent(
			"UID:ends-at-midnight",
			"DTSTART:20260325T220000Z",
			"DTEND:20260326T000000Z",
		),
	)

	from, to := year2026()
	bookings, err := NewImporter(0, nil).Import(r, from, to)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"03/01 - 03/05",
		"03/10 - 03/11",
		"03/20 - 03/20",
		"03/25 - 03/25",
	}, spans(bookings))
}

func TestImport_RecurringEvent(t *testing.T) {
	r := calendar(vevent(
		"UID:weekly",
		"DTSTART;VALUE=DATE:20260302",
		"DTEND;VALUE=DATE:20260304",
		"RRULE:FREQ=WEEKLY;COUNT=4",
		"EXDATE;VALUE=DATE:20260309",
	))

	from, to := year2026()
	bookings, err := NewImporter(0, nil).Import(r, from, to)
	require.NoError(t, err)

	assert.Equal(t, []string{"03/02 - 03/03", "03/16 - 03/17", "03/23 - 03/24"}, spans(bookings))
}

func TestImport_RecurrenceWindowAndCap(t *testing.T) {
	body := vevent(
		"UID:daily",
		"DTSTART;VALUE=DATE:20251230",
		"DTEND;VALUE=DATE:20251231",
		"RRULE:FREQ=DAILY",
	)

	from, to := day(2026, 1, 1), day(2026, 1, 10)
	bookings, err := NewImporter(0, nil).Import(calendar(body), from, to)
	require.NoError(t, err)
	require.Len(t, bookings, 10)
	assert.Equal(t, day(2026, 1, 1), bookings[0].Start())
	assert.Equal(t, day(2026, 1, 10), bookings[9].End())

	capped, err := NewImporter(3, nil).Import(calendar(body), from, to)
	require.NoError(t, err)
	assert.Len(t, capped, 3)
}

func TestImport_SkipsBrokenEvents(t *testing.T) {
	r := calendar(
		vevent("UID:missing-start", "SUMMARY:nothing"),
		vevent("UID:bad-rrule", "DTSTART;VALUE=DATE:20260301", "RRULE:FREQ=SOMETIMES"),
		vevent("UID:end-before-start", "DTSTART;VALUE=DATE:20260310", "DTEND;VALUE=DATE:20260301"),
		vevent("UID:ok", "DTSTART;VALUE=DATE:20260401", "DTEND;VALUE=DATE:20260402"),
	)

	from, to := year2026()
	bookings, err := NewImporter(0, nil).Import(r, from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"03/10 - 03/10", "04/01 - 04/01"}, spans(bookings))
}

func TestImport_MixedZones(t *testing.T) {
	r := calendar(
		vevent(
			"UID:tokyo-start-utc-end",
			"DTSTART;TZID=Asia/Tokyo:20260302T010000",
			"DTEND:20260301T170000Z",
		),
		vevent(
			"UID:tokyo-overnight",
			"DTSTART;TZID=Asia/Tokyo:20260302T230000",
			"DTEND:20260302T160000Z",
		),
	)

	from, to := year2026()
	bookings, err := NewImporter(0, nil).Import(r, from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"03/02 - 03/02", "03/02 - 03/03"}, spans(bookings))

	assert.NotPanics(t, func() {
		merged := analyzer.MergeOverlapping(append(bookings, bookings...))
		assert.Equal(t, []string{"03/02 - 03/03"}, spans(merged))
	})
}

func TestImport_InvalidWindow(t *testing.T) {
	_, err := NewImporter(0, nil).Import(calendar(), day(2026, 2, 1), day(2026, 1, 1))
	assert.Error(t, err)
}

func TestParseICSTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		tz    string
		want  time.Time
	}{
		{name: "date", value: "20260301", want: day(2026, 3, 1)},
		{name: "utc date-time", value: "20260301T101500Z", want: time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)},
		{name: "floating date-time", value: "20260301T101500", want: time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)},
		{name: "unknown tzid falls back to utc", value: "20260301T101500", tz: "Nowhere/Special", want: time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseICSTime(tt.value, tt.tz)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}

	_, err := parseICSTime("  ", "")
	assert.Error(t, err)
}
