package export

import (
	"bytes"
	"fmt"
	"strings"
)

// CSVExporter renders a Dataset as CSV with every cell quoted. encoding/csv
// only quotes when a field needs it, so rows are written directly.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV bytes. Embedded double quotes are doubled.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writeQuotedRow(buf, data.Headers)
	for i := range data.Rows {
		writeQuotedRow(buf, data.Record(i))
	}
	return buf.Bytes(), nil
}

func writeQuotedRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
