package analyzer

import (
	"fmt"
	"slices"

	"bookingagg/internal/models"
)

// MergeOverlapping merges overlapping and adjacent bookings into maximal spans.
// The result is sorted by start and consecutive spans are at least two days apart.
// The input slice is left untouched.
func MergeOverlapping(bookings []models.Booking) []models.Booking {
	if len(bookings) == 0 {
		return []models.Booking{}
	}

	sorted := slices.Clone(bookings)
	slices.SortStableFunc(sorted, func(a, b models.Booking) int {
		return a.Start().Compare(b.Start())
	})

	merged := []models.Booking{sorted[0]}
	for _, current := range sorted[1:] {
		last := merged[len(merged)-1]

		// Spans that touch on consecutive days are merged too.
		if current.Start().After(last.End().AddDate(0, 0, 1)) {
			merged = append(merged, current)
			continue
		}

		end := last.End()
		if current.End().After(end) {
			end = current.End()
		}
		span, err := models.New(last.Start(), end)
		if err != nil {
			// Unreachable: end >= last.End() >= last.Start().
			panic(fmt.Sprintf("merge produced invalid span: %v", err))
		}
		merged[len(merged)-1] = span
	}

	return merged
}
