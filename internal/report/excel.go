package report

import (
	"fmt"
	"io"
	"time"

	"bookingagg/internal/analyzer"

	"github.com/xuri/excelize/v2"
)

// Meta describes the run a workbook was produced by.
type Meta struct {
	RunID       string
	GeneratedAt time.Time
}

// Workbook writes rows sheet by sheet into an xlsx file.
type Workbook struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

// AddSheet adds a new sheet and makes it current.
func (w *Workbook) AddSheet(name string) error {
	// Excel limits sheet names to 31 chars.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

// WriteHeader writes bold column headers to the current sheet.
func (w *Workbook) WriteHeader(columns ...string) error {
	if len(columns) == 0 {
		return fmt.Errorf("header needs at least one column")
	}
	row := make([]interface{}, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	if err := w.WriteRow(row...); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	startCell, err := excelize.CoordinatesToCellName(1, w.currentRow-1)
	if err != nil {
		return err
	}
	endCell, err := excelize.CoordinatesToCellName(len(columns), w.currentRow-1)
	if err != nil {
		return err
	}
	if err := w.file.SetCellStyle(w.currentSheet, startCell, endCell, style); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	return nil
}

// WriteRow writes a data row to the current sheet.
func (w *Workbook) WriteRow(values ...interface{}) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	cell, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.currentSheet, cell, &values); err != nil {
		return err
	}

	w.currentRow++
	return nil
}

// Save writes the workbook to wr.
func (w *Workbook) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// SaveToFile writes the workbook to disk.
func (w *Workbook) SaveToFile(path string) error {
	return w.file.SaveAs(path)
}

// Close releases resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Export builds a workbook with Summary, Counts and Merged sheets.
// The caller owns the returned workbook and must Close it.
func Export(rep analyzer.Report, meta Meta) (*Workbook, error) {
	w := NewWorkbook()
	if err := writeExport(w, rep, meta); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

func writeExport(w *Workbook, rep analyzer.Report, meta Meta) error {
	if err := w.AddSheet("Summary"); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Run", meta.RunID},
		{"Generated", meta.GeneratedAt.Format(time.RFC3339)},
		{"Period", fmt.Sprintf("%s %d", rep.Month, rep.Year)},
		{"Bookings", rep.Bookings},
		{"Merged ranges", len(rep.Merged)},
		{"Booked days", analyzer.BookedDays(rep.Merged)},
	}
	for _, row := range summary {
		if err := w.WriteRow(row...); err != nil {
			return err
		}
	}

	if err := w.AddSheet("Counts"); err != nil {
		return err
	}
	if err := w.WriteHeader("Day", "Count", "Merged count"); err != nil {
		return err
	}
	for i, dc := range rep.Counts {
		merged := 0
		if i < len(rep.MergedCounts) {
			merged = rep.MergedCounts[i].Count
		}
		if err := w.WriteRow(dc.Day, dc.Count, merged); err != nil {
			return err
		}
	}

	if err := w.AddSheet("Merged"); err != nil {
		return err
	}
	if err := w.WriteHeader("Start", "End", "Days"); err != nil {
		return err
	}
	for _, b := range rep.Merged {
		if err := w.WriteRow(b.Start().Format("2006-01-02"), b.End().Format("2006-01-02"), b.Days()); err != nil {
			return err
		}
	}
	return nil
}

// GenerateFilename creates a filename like "bookings_2026_03.xlsx".
func GenerateFilename(month time.Month, year int) string {
	return fmt.Sprintf("bookings_%d_%02d.xlsx", year, int(month))
}
