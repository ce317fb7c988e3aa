package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"tasklens/internal/dataset"
)

// xlsxSheetName is the single sheet holding the exported view
const xlsxSheetName = "Task Records"

// WriteXLSX serializes the records to w as an Excel workbook with one
// sheet, same column order as the CSV export.
func WriteXLSX(w io.Writer, records dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	header := make([]interface{}, len(dataset.Columns))
	for i, col := range dataset.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(xlsxSheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		row := []interface{}{
			rec.User,
			rec.Locale,
			rec.Project,
			rec.TaskType,
			rec.Timestamp.Format(time.RFC3339),
			rec.DurationSeconds,
			rec.SourceFile,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell for record %d: %w", i, err)
		}
		if err := f.SetSheetRow(xlsxSheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
