package format

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// csvWriter emits RFC 4180 rows with every non-numeric field quoted, so
// downstream spreadsheet imports keep leading zeros and embedded commas
// intact. Numeric fields stay bare.
type csvWriter struct {
	w *bufio.Writer
}

func newCSVWriter(out io.Writer) *csvWriter {
	return &csvWriter{w: bufio.NewWriter(out)}
}

func (c *csvWriter) WriteHeader(columns []string) error {
	return c.writeRecord(columns)
}

func (c *csvWriter) WriteRow(row []string) error {
	return c.writeRecord(row)
}

func (c *csvWriter) writeRecord(fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := c.w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := c.w.WriteString(quoteNonNumeric(field)); err != nil {
			return err
		}
	}
	return c.w.WriteByte('\n')
}

func (c *csvWriter) Flush() error {
	return c.w.Flush()
}

func quoteNonNumeric(field string) string {
	if isNumeric(field) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// tsvWriter emits tab-delimited rows, quoting only when necessary.
type tsvWriter struct {
	w *csv.Writer
}

func newTSVWriter(out io.Writer) *tsvWriter {
	w := csv.NewWriter(out)
	w.Comma = '\t'
	return &tsvWriter{w: w}
}

func (t *tsvWriter) WriteHeader(columns []string) error {
	return t.w.Write(columns)
}

func (t *tsvWriter) WriteRow(row []string) error {
	return t.w.Write(row)
}

func (t *tsvWriter) Flush() error {
	t.w.Flush()
	return t.w.Error()
}
