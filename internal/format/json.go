package format

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// jsonWriter streams rows as {"data":[{...},{...}]}. Values are inferred
// into JSON numbers and booleans where the text parses cleanly; everything
// else, including the empty string, stays a string. Object keys are emitted
// in sorted order (encoding/json sorts map keys), keeping output
// deterministic for a given column set.
type jsonWriter struct {
	w        *bufio.Writer
	columns  []string
	firstRow bool
	pretty   bool
}

func newJSONWriter(out io.Writer, pretty bool) *jsonWriter {
	return &jsonWriter{w: bufio.NewWriter(out), pretty: pretty}
}

func (j *jsonWriter) WriteHeader(columns []string) error {
	j.columns = append([]string(nil), columns...)
	j.firstRow = true
	_, err := j.w.WriteString(`{"data":[`)
	return err
}

func (j *jsonWriter) WriteRow(row []string) error {
	if !j.firstRow {
		if err := j.w.WriteByte(','); err != nil {
			return err
		}
	}
	j.firstRow = false

	obj := make(map[string]any, len(j.columns))
	for i, col := range j.columns {
		if i < len(row) {
			obj[col] = inferValue(row[i])
		}
	}

	var (
		encoded []byte
		err     error
	)
	if j.pretty {
		encoded, err = json.MarshalIndent(obj, "", "  ")
	} else {
		encoded, err = json.Marshal(obj)
	}
	if err != nil {
		return err
	}
	_, err = j.w.Write(encoded)
	return err
}

func (j *jsonWriter) Flush() error {
	if _, err := j.w.WriteString("]}"); err != nil {
		return err
	}
	return j.w.Flush()
}

// inferValue converts database text into the narrowest JSON type it parses
// as. Unsigned is tried before signed so values above MaxInt64 survive.
func inferValue(value string) any {
	if value == "" {
		return value
	}
	if u, err := strconv.ParseUint(value, 10, 64); err == nil {
		return u
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
