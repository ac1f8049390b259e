package analyzer

import (
	"time"

	"bookingagg/internal/models"
)

// DayCount is the number of bookings covering one day of a month.
type DayCount struct {
	Day   int
	Count int
}

// CountPerDay counts how many bookings cover each day of the month.
// Keys are day-of-month (1-31); dates from different months share a key.
func CountPerDay(bookings []models.Booking) map[int]int {
	counts := make(map[int]int)
	for _, b := range bookings {
		for date := range b.Dates() {
			counts[date.Day()]++
		}
	}
	return counts
}

// MonthCounts expands counts into one entry per day of the given month.
// Days missing from counts are reported as 0.
func MonthCounts(counts map[int]int, month time.Month, year int) []DayCount {
	n := DaysIn(month, year)
	out := make([]DayCount, n)
	for i := range out {
		out[i] = DayCount{Day: i + 1, Count: counts[i+1]}
	}
	return out
}

// DaysIn returns the number of days in month of year.
func DaysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
