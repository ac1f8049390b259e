// Package analyzer aggregates bookings into daily occupancy and merged spans.
package analyzer

import (
	"time"

	"bookingagg/internal/models"
)

// Report bundles everything shown for one analysis run.
type Report struct {
	Month        time.Month
	Year         int
	Bookings     int
	Counts       []DayCount
	Merged       []models.Booking
	MergedCounts []DayCount
}

// Analyze computes daily counts for the raw and merged bookings of a month.
func Analyze(bookings []models.Booking, month time.Month, year int) Report {
	merged := MergeOverlapping(bookings)
	return Report{
		Month:        month,
		Year:         year,
		Bookings:     len(bookings),
		Counts:       MonthCounts(CountPerDay(bookings), month, year),
		Merged:       merged,
		MergedCounts: MonthCounts(CountPerDay(merged), month, year),
	}
}

// BookedDays returns the number of distinct dates covered by merged bookings.
func BookedDays(merged []models.Booking) int {
	total := 0
	for _, b := range merged {
		total += b.Days()
	}
	return total
}
