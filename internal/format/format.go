// Package format writes tabular query results as CSV, JSON, or TSV.
package format

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Writer writes rows in one output format. WriteHeader must be called once
// before any WriteRow; Flush completes the document.
type Writer interface {
	WriteHeader(columns []string) error
	WriteRow(row []string) error
	Flush() error
}

// Known output formats.
const (
	CSV  = "csv"
	JSON = "json"
	TSV  = "tsv"
)

// FromExtension picks the format implied by an output path. Unknown or
// missing extensions fall back to TSV.
func FromExtension(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case CSV:
		return CSV
	case JSON:
		return JSON
	default:
		return TSV
	}
}

// New creates a writer for the named format. pretty only affects JSON.
func New(name string, out io.Writer, pretty bool) (Writer, error) {
	switch name {
	case CSV:
		return newCSVWriter(out), nil
	case JSON:
		return newJSONWriter(out, pretty), nil
	case TSV:
		return newTSVWriter(out), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}
