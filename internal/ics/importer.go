// Package ics imports bookings from iCalendar payloads.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"bookingagg/internal/models"

	ical "github.com/arran4/golang-ical"
	"github.com/rs/zerolog"
	"github.com/teambition/rrule-go"
)

const defaultMaxOccurrencesPerEvent = 5000

// Importer converts VEVENTs into bookings.
type Importer struct {
	maxOccurrences int
	logger         *zerolog.Logger
}

// NewImporter creates an importer. maxOccurrences caps recurrence expansion
// per event; zero means the default cap.
func NewImporter(maxOccurrences int, logger *zerolog.Logger) *Importer {
	if maxOccurrences <= 0 {
		maxOccurrences = defaultMaxOccurrencesPerEvent
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Importer{maxOccurrences: maxOccurrences, logger: logger}
}

// event is the subset of a VEVENT needed to build bookings.
type event struct {
	uid     string
	start   time.Time
	end     time.Time
	rrule   string
	exDates []time.Time
}

// Import parses r and returns one booking per event occurrence.
// Recurring events are expanded within [from, to]. Events that cannot be
// read are logged and skipped.
func (im *Importer) Import(r io.Reader, from, to time.Time) ([]models.Booking, error) {
	if to.Before(from) {
		return nil, errors.New("ics: window end is before window start")
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	var bookings []models.Booking
	for _, ve := range cal.Events() {
		ev, err := readEvent(ve)
		if err != nil {
			im.logger.Warn().Err(err).Str("uid", ev.uid).Msg("skipping vevent")
			continue
		}

		occ, err := im.expand(ev, from, to)
		if err != nil {
			im.logger.Warn().Err(err).Str("uid", ev.uid).Str("rrule", ev.rrule).Msg("skipping vevent")
			continue
		}
		bookings = append(bookings, occ...)
	}

	im.logger.Info().Int("events", len(cal.Events())).Int("bookings", len(bookings)).Msg("ics import completed")
	return bookings, nil
}

func (im *Importer) expand(ev event, from, to time.Time) ([]models.Booking, error) {
	if ev.rrule == "" {
		b, err := toBooking(ev.start, ev.end)
		if err != nil {
			return nil, err
		}
		return []models.Booking{b}, nil
	}

	r, err := rrule.StrToRRule(ev.rrule)
	if err != nil {
		return nil, fmt.Errorf("parse rrule: %w", err)
	}
	r.DTStart(ev.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exDates {
		set.ExDate(ex.In(ev.start.Location()))
	}

	starts := set.Between(from.In(ev.start.Location()), to.In(ev.start.Location()), true)
	if len(starts) > im.maxOccurrences {
		im.logger.Warn().Str("uid", ev.uid).Int("cap", im.maxOccurrences).Msg("recurrence truncated")
		starts = starts[:im.maxOccurrences]
	}

	dur := ev.end.Sub(ev.start)
	out := make([]models.Booking, 0, len(starts))
	for _, s := range starts {
		b, err := toBooking(s, s.Add(dur))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// toBooking maps an event span to inclusive dates. DTEND is exclusive and is
// read in the zone of DTSTART.
func toBooking(start, end time.Time) (models.Booking, error) {
	end = end.In(start.Location())
	last := start
	if end.After(start) {
		last = end.Add(-time.Nanosecond)
	}
	return models.New(start, last)
}

func readEvent(ve *ical.VEvent) (event, error) {
	var ev event
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		ev.uid = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return ev, errors.New("missing DTSTART")
	}
	start, err := parseICSTime(dtStart.Value, tzid(dtStart.ICalParameters))
	if err != nil {
		return ev, fmt.Errorf("DTSTART: %w", err)
	}
	ev.start = start
	ev.end = start

	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil && dtEnd.Value != "" {
		end, err := parseICSTime(dtEnd.Value, tzid(dtEnd.ICalParameters))
		if err != nil {
			return ev, fmt.Errorf("DTEND: %w", err)
		}
		ev.end = end
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.rrule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part, tzid(p.ICalParameters)); err == nil {
				ev.exDates = append(ev.exDates, t)
			}
		}
	}

	return ev, nil
}

func tzid(params map[string][]string) string {
	if vs, ok := params["TZID"]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// parseICSTime parses DATE and DATE-TIME values. Floating times and unknown
// TZIDs are read as UTC.
func parseICSTime(v, tz string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
