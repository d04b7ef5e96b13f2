package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Table is a rectangular export payload. Header is written first, followed by Rows in order.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Width returns the number of columns implied by the header.
func (t Table) Width() int {
	return len(t.Header)
}

// CSVExporter renders tables into comma separated text.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// ContentType reports the MIME type of rendered output.
func (e *CSVExporter) ContentType() string {
	return "text/csv"
}

// Extension reports the file extension of rendered output.
func (e *CSVExporter) Extension() string {
	return "csv"
}

// Render produces CSV encoded bytes for the table.
func (e *CSVExporter) Render(table Table) ([]byte, error) {
	if table.Width() == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(table.Header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range table.Rows {
		if len(row) != table.Width() {
			return nil, fmt.Errorf("csv row %d has %d cells, want %d", i, len(row), table.Width())
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
