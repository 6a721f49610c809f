package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// RenderDocument writes title and subtitle lines, the table, then footer lines,
// separating each block with a blank line.
func (e *CSVExporter) RenderDocument(doc Document) ([]byte, error) {
	data := doc.Dataset
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	preamble := make([]string, 0, len(doc.Subtitle)+1)
	if doc.Title != "" {
		preamble = append(preamble, doc.Title)
	}
	preamble = append(preamble, doc.Subtitle...)
	for _, line := range preamble {
		if err := writer.Write([]string{line}); err != nil {
			return nil, fmt.Errorf("write csv preamble: %w", err)
		}
	}
	if len(preamble) > 0 {
		if err := writer.Write([]string{""}); err != nil {
			return nil, fmt.Errorf("write csv separator: %w", err)
		}
	}

	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		if err := writer.Write(data.record(row)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	if len(doc.Footer) > 0 {
		if err := writer.Write([]string{""}); err != nil {
			return nil, fmt.Errorf("write csv separator: %w", err)
		}
		for _, line := range doc.Footer {
			if err := writer.Write([]string{line}); err != nil {
				return nil, fmt.Errorf("write csv footer: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
