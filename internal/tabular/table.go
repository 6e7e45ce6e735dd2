package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// ErrMalformedTable indicates the text has no parseable header row.
var ErrMalformedTable = errors.New("malformed table")

// Table is a header row plus data rows. Every row has len(Columns) cells and
// cells are kept as text.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ParseStats reports what the lenient parser dropped.
type ParseStats struct {
	SkippedRows int `json:"skipped_rows"`
}

// Parse reads normalized CSV text into a Table. The first record is the header.
// Rows whose field count differs from the header, or that cannot be read at
// all, are skipped. Empty text or a blank header yields ErrMalformedTable; a
// header with no rows is a valid empty table.
func Parse(text string) (*Table, error) {
	t, _, err := ParseWithStats(text)
	return t, err
}

// ParseWithStats is Parse that also reports how many rows were skipped.
//
// A line that opens a quote and never closes it would otherwise absorb every
// line after it into one field. Such a line is skipped on its own and reading
// resumes on the next line.
func ParseWithStats(text string) (*Table, ParseStats, error) {
	var stats ParseStats
	var t *Table

	pos := 0
	for pos < len(text) {
		r := newReader(text[pos:])
		restart := false
		for {
			start := r.InputOffset()
			record, err := r.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			raw := text[pos+int(start) : pos+int(r.InputOffset())]

			if next, ok := unterminatedQuote(raw); ok {
				if t == nil {
					return nil, stats, fmt.Errorf("%w: header has an unterminated quote", ErrMalformedTable)
				}
				stats.SkippedRows++
				pos += int(start) + next
				restart = true
				break
			}

			if err != nil {
				var parseErr *csv.ParseError
				if errors.As(err, &parseErr) && t != nil {
					stats.SkippedRows++
					continue
				}
				if t == nil {
					return nil, stats, fmt.Errorf("%w: reading header: %v", ErrMalformedTable, err)
				}
				return nil, stats, fmt.Errorf("reading csv: %w", err)
			}

			if t == nil {
				if isBlank(record) {
					return nil, stats, fmt.Errorf("%w: header has no column names", ErrMalformedTable)
				}
				t = &Table{Columns: record, Rows: [][]string{}}
				continue
			}
			if len(record) != len(t.Columns) {
				stats.SkippedRows++
				continue
			}
			t.Rows = append(t.Rows, record)
		}
		if !restart {
			break
		}
	}

	if t == nil {
		return nil, stats, fmt.Errorf("%w: no header row", ErrMalformedTable)
	}
	return t, stats, nil
}

func newReader(text string) *csv.Reader {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r
}

// unterminatedQuote reports whether raw, the source text of one record, spans
// several lines only because a quote was never closed. If so it returns the
// offset in raw of the line after the record's first line.
func unterminatedQuote(raw string) (int, bool) {
	if strings.Count(raw, `"`)%2 == 0 {
		return 0, false
	}
	lead := len(raw) - len(strings.TrimLeft(raw, "\r\n"))
	body := strings.TrimRight(raw[lead:], "\r\n")
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return 0, false
	}
	return lead + nl + 1, true
}

// WriteCSV writes the header and rows as comma-separated text.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := NewCSVWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVWriter is a csv.Writer that keeps a record holding one empty field
// readable: it is written as "" instead of a blank line, which readers skip.
type CSVWriter struct {
	out io.Writer
	csv *csv.Writer
	err error
}

// NewCSVWriter creates a CSVWriter writing to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{out: w, csv: csv.NewWriter(w)}
}

// Write writes one record.
func (w *CSVWriter) Write(record []string) error {
	if w.err != nil {
		return w.err
	}
	if len(record) == 1 && record[0] == "" {
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			return err
		}
		if _, err := io.WriteString(w.out, "\"\"\n"); err != nil {
			w.err = err
			return err
		}
		return nil
	}
	return w.csv.Write(record)
}

// Flush writes any buffered data to the underlying writer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error reports any error from a previous Write or Flush.
func (w *CSVWriter) Error() error {
	if w.err != nil {
		return w.err
	}
	return w.csv.Error()
}

// String renders the table as CSV text.
func (t *Table) String() string {
	var b strings.Builder
	_ = t.WriteCSV(&b)
	return b.String()
}

// Equal reports whether both tables have the same header and rows in the same order.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	return slices.Equal(t.Columns, other.Columns) &&
		slices.EqualFunc(t.Rows, other.Rows, func(a, b []string) bool { return slices.Equal(a, b) })
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{Columns: slices.Clone(t.Columns), Rows: make([][]string, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out
}

// ColumnIndex returns the index of the first column named name (case-insensitive,
// surrounding spaces ignored), or -1.
func (t *Table) ColumnIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, c := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
