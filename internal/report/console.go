// Package report renders analysis results to the console and to xlsx.
package report

import (
	"fmt"
	"io"
	"time"

	"bookingagg/internal/analyzer"
	"bookingagg/internal/models"
)

// RenderCounts writes a "Day | Count" table for one month.
func RenderCounts(w io.Writer, title string, month time.Month, year int, counts []analyzer.DayCount) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Booking counts for %s %d:\nDay | Count\n----|------\n", month, year); err != nil {
		return err
	}
	for _, dc := range counts {
		if _, err := fmt.Fprintf(w, "%3d | %d\n", dc.Day, dc.Count); err != nil {
			return err
		}
	}
	return nil
}

// RenderMerged writes one "MM/DD - MM/DD" line per merged span.
func RenderMerged(w io.Writer, merged []models.Booking) error {
	if _, err := fmt.Fprintln(w, "Merged Booking Ranges:"); err != nil {
		return err
	}
	for _, b := range merged {
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// Render writes the raw counts, the merged spans and the merged counts.
func Render(w io.Writer, rep analyzer.Report) error {
	if rep.Bookings == 0 {
		_, err := fmt.Fprintln(w, "No bookings entered.")
		return err
	}

	if err := RenderCounts(w, "", rep.Month, rep.Year, rep.Counts); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := RenderMerged(w, rep.Merged); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return RenderCounts(w, "Daily Counts (Merged View - No Overlaps):", rep.Month, rep.Year, rep.MergedCounts)
}
