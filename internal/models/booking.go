package models

import (
	"fmt"
	"iter"
	"time"
)

// Booking represents a validated, inclusive date range.
// Both endpoints are stored as midnight UTC of their calendar date.
type Booking struct {
	start time.Time
	end   time.Time
}

// New builds a Booking from two dates. Sub-day precision is dropped.
// Dates are compared by their wall clock, ignoring the zone offset, and it
// fails with an InvertedRange ValidationError when start is after end.
func New(start, end time.Time) (Booking, error) {
	if wallClock(start).After(wallClock(end)) {
		return Booking{}, &ValidationError{Kind: KindInvertedRange, Start: start, End: end}
	}
	return Booking{start: dateOnly(start), end: dateOnly(end)}, nil
}

// Start returns the first booked date.
func (b Booking) Start() time.Time {
	return b.start
}

// End returns the last booked date (inclusive).
func (b Booking) End() time.Time {
	return b.end
}

// Dates yields every date from Start to End inclusive, one calendar day apart.
// The sequence can be ranged over any number of times.
func (b Booking) Dates() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := b.start; !d.After(b.end); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Days returns the number of dates covered by the booking.
func (b Booking) Days() int {
	return int(b.end.Sub(b.start)/(24*time.Hour)) + 1
}

// ContainsDate checks if the booking covers a specific date.
func (b Booking) ContainsDate(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(b.start) && !d.After(b.end)
}

// OverlapsWith checks if two bookings share at least one date.
// Bounds are inclusive, so a booking ending on the 20th overlaps one starting on the 20th.
func (b Booking) OverlapsWith(other Booking) bool {
	return !b.end.Before(other.start) && !other.end.Before(b.start)
}

// Equal reports whether both bookings cover the same range.
func (b Booking) Equal(other Booking) bool {
	return b.start.Equal(other.start) && b.end.Equal(other.end)
}

func (b Booking) String() string {
	return fmt.Sprintf("%s - %s", b.start.Format("01/02"), b.end.Format("01/02"))
}

// wallClock reinterprets the clock reading of t as UTC.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
