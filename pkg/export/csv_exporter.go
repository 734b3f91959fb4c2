package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is tabular export content. Rows are keyed by header name so a
// renderer never depends on how the matrix builder ordered its cells.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// emptyCell fills positions a row does not carry, keeping every record
// aligned with the header line.
const emptyCell = "-"

// CSVExporter renders a Dataset as CSV with CRLF line endings, which is
// what spreadsheet tools expect when the download is opened directly.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render serializes the dataset, one record per row in header order.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv export requires at least one column")
	}
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			cell, ok := row[header]
			if !ok {
				cell = emptyCell
			}
			record[i] = cell
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}
