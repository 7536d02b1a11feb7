package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ziklo-timetrack-backend/internal/store"
)

const sheetName = "Horas"

var headers = []string{
	"Fecha", "Proyecto (código)", "Proyecto", "Centro de costo",
	"Ingeniero", "Concepto", "Horas", "Notas",
}

// buildWorkbook serializes the export rows into an .xlsx workbook.
func buildWorkbook(rows []store.ExportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		values := []any{
			row.Date, row.ProjectCode, row.ProjectName, row.CostCenter,
			row.EngineerName, row.Concept, row.Hours, row.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}
