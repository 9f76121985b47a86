package exporter

import (
	"fmt"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	plotsSheet   = "Plots"
	// rowsPerPlot leaves room for a 7in plot at the default row height
	rowsPerPlot = 36
)

// WorkbookWriter writes report tables and plots into one Excel workbook
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write creates the workbook at path with one sheet per table, in order,
// followed by a Plots sheet embedding each PNG when plots is non-empty.
func (w *WorkbookWriter) Write(path string, tables []Table, plots []string) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for _, t := range tables {
		if err := writeSheet(f, t, bold); err != nil {
			return err
		}
	}

	if len(plots) > 0 {
		if _, err := f.NewSheet(plotsSheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", plotsSheet, err)
		}
		for i, img := range plots {
			cell, err := excelize.CoordinatesToCellName(1, 1+i*rowsPerPlot)
			if err != nil {
				return err
			}
			if err := f.AddPicture(plotsSheet, cell, img, nil); err != nil {
				return fmt.Errorf("embed plot %s: %w", filepath.Base(img), err)
			}
		}
	}

	if len(tables) > 0 || len(plots) > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("remove default sheet: %w", err)
		}
		f.SetActiveSheet(0)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	w.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(tables)),
		slog.Int("plots", len(plots)))
	return nil
}

// writeSheet adds t as a sheet with a bold header row. Cells holding numbers
// are stored as numbers.
func writeSheet(f *excelize.File, t Table, headerStyle int) error {
	if _, err := f.NewSheet(t.Name); err != nil {
		return fmt.Errorf("create sheet %s: %w", t.Name, err)
	}

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", t.Name, err)
	}
	if len(t.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(t.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style %s header: %w", t.Name, err)
		}
	}

	for r, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				cells[i] = n
			} else {
				cells[i] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &cells); err != nil {
			return fmt.Errorf("write %s row %d: %w", t.Name, r, err)
		}
	}
	return nil
}
