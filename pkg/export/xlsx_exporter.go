package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Rapport"

// XLSXExporter renders documents into a single-sheet Excel workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// RenderDocument writes the preamble in column A, the table with a styled
// header row, and the footer below it.
func (e *XLSXExporter) RenderDocument(doc Document) ([]byte, error) {
	data := doc.Dataset
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	row := 1
	if doc.Title != "" {
		if err := setCell(f, 1, row, doc.Title); err != nil {
			return nil, err
		}
		row++
	}
	for _, line := range doc.Subtitle {
		if err := setCell(f, 1, row, line); err != nil {
			return nil, err
		}
		row++
	}
	if row > 1 {
		row++
	}

	for i, header := range data.Headers {
		if err := setCell(f, i+1, row, header); err != nil {
			return nil, err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(xlsxSheet, col, col, 36); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(data.Headers), row)
	if err := f.SetCellStyle(xlsxSheet, first, last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	row++

	for _, record := range data.Rows {
		for i, value := range data.record(record) {
			if err := setCell(f, i+1, row, value); err != nil {
				return nil, err
			}
		}
		row++
	}

	if len(doc.Footer) > 0 {
		row++
		for _, line := range doc.Footer {
			if err := setCell(f, 1, row, line); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
