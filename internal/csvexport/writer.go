// Package csvexport serializes extracted tables into downloadable artifacts.
package csvexport

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"legalextract/internal/tabular"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension without a dot.
func (f Format) Extension() string {
	if f == FormatXLSX {
		return "xlsx"
	}
	return "csv"
}

// Writer wraps tabular.CSVWriter for exporting tables as CSV.
type Writer struct {
	csv *tabular.CSVWriter
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: tabular.NewCSVWriter(w)}
}

// WriteTable writes the header row followed by every data row.
func (w *Writer) WriteTable(t *tabular.Table) error {
	if err := w.csv.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// EncodeCSV renders t as CSV bytes, optionally prefixed with a UTF-8 BOM.
func EncodeCSV(t *tabular.Table, includeBOM bool) ([]byte, error) {
	var buf bytes.Buffer
	if includeBOM {
		buf.Write(BOM)
	}
	w := NewWriter(&buf)
	if err := w.WriteTable(t); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode renders t in the requested format. includeBOM only affects CSV.
func Encode(t *tabular.Table, format Format, includeBOM bool) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("encoding %s: nil table", format)
	}
	if format == FormatXLSX {
		return EncodeXLSX(t)
	}
	return EncodeCSV(t, includeBOM)
}
