// Package input turns console lines into bookings.
package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bookingagg/internal/analyzer"
	"bookingagg/internal/models"
)

// ErrFormat is wrapped by every error caused by a malformed line.
var ErrFormat = errors.New("use format MM/DD - MM/DD")

// ParseRange parses a "MM/DD - MM/DD" line into a booking within year.
func ParseRange(line string, year int) (models.Booking, error) {
	parts := strings.Split(line, "-")
	if len(parts) != 2 {
		return models.Booking{}, ErrFormat
	}

	start, err := parseMonthDay(parts[0], year)
	if err != nil {
		return models.Booking{}, fmt.Errorf("start date: %w", err)
	}
	end, err := parseMonthDay(parts[1], year)
	if err != nil {
		return models.Booking{}, fmt.Errorf("end date: %w", err)
	}

	return models.New(start, end)
}

func parseMonthDay(s string, year int) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrFormat, strings.TrimSpace(s))
	}

	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid month %q", ErrFormat, parts[0])
	}
	d, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid day %q", ErrFormat, parts[1])
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d out of range", ErrFormat, month)
	}
	// time.Date normalizes overflow, so validate the day against the real month length.
	if d < 1 || d > analyzer.DaysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("%w: day %d out of range for month %d", ErrFormat, d, month)
	}

	return time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC), nil
}
