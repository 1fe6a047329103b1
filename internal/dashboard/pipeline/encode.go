package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

const (
	// CSVFileName and XLSXFileName are the suggested download names.
	CSVFileName  = "dashboard_data.csv"
	XLSXFileName = "dashboard_data.xlsx"

	CSVContentType  = "text/csv; charset=utf-8"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	xlsxSheet       = "Data"
	xlsxHeaderColor = "#4472C4"
	xlsxColWidth    = 16
)

// EncodeCSV writes the header line and every row with no index column.
// Nulls become empty fields; other values keep their source text.
func EncodeCSV(t *entity.Table) ([]byte, error) {
	if t.IsEmpty() {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(t.Columns()))
	for r := 0; r < t.NumRows(); r++ {
		for i, v := range t.Row(r) {
			record[i] = v.String()
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeXLSX renders the table into a single-sheet workbook with a styled
// header row. Numbers are written as numeric cells.
func EncodeXLSX(t *entity.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if t.IsEmpty() {
		return writeWorkbook(f)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{xlsxHeaderColor}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	columns := t.Columns()
	header := make([]any, len(columns))
	for i, name := range columns {
		header[i] = name
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return nil, fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return nil, fmt.Errorf("header range: %w", err)
	}
	if err := f.SetColWidth(xlsxSheet, "A", lastCol, xlsxColWidth); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	for r := 0; r < t.NumRows(); r++ {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}

		values := t.Row(r)
		row := make([]any, len(values))
		for i, v := range values {
			switch v.Kind {
			case entity.KindNumber:
				row[i] = v.Num
			case entity.KindText:
				row[i] = v.Raw
			default:
				row[i] = nil
			}
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r, err)
		}
	}

	return writeWorkbook(f)
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
