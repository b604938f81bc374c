package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, pretty bool, header []string, rows [][]string) string {
	t.Helper()

	var buf bytes.Buffer
	w, err := New(name, &buf, pretty)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(header))
	for _, row := range rows {
		require.NoError(t, w.WriteRow(row))
	}
	require.NoError(t, w.Flush())
	return buf.String()
}

func TestFromExtension(t *testing.T) {
	assert.Equal(t, CSV, FromExtension("out.csv"))
	assert.Equal(t, CSV, FromExtension("/tmp/Report.CSV"))
	assert.Equal(t, JSON, FromExtension("out.json"))
	assert.Equal(t, TSV, FromExtension("out.tsv"))
	assert.Equal(t, TSV, FromExtension("out.txt"))
	assert.Equal(t, TSV, FromExtension("noext"))
	assert.Equal(t, TSV, FromExtension(""))
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestCSV_QuotesNonNumericOnly(t *testing.T) {
	out := render(t, CSV, false,
		[]string{"id", "name", "note"},
		[][]string{
			{"1", "alice", "plain"},
			{"2.5", "bob,jr", `say "hi"`},
			{"00123", "", "-42"},
		})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `"id","name","note"`, lines[0])
	assert.Equal(t, `1,"alice","plain"`, lines[1])
	assert.Equal(t, `2.5,"bob,jr","say ""hi"""`, lines[2])
	// Leading-zero strings still parse as numbers and stay bare; the empty
	// column is quoted.
	assert.Equal(t, `00123,"",-42`, lines[3])
}

func TestTSV_TabDelimited(t *testing.T) {
	out := render(t, TSV, false,
		[]string{"id", "name"},
		[][]string{{"1", "alice"}, {"2", "with\ttab"}})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id\tname", lines[0])
	assert.Equal(t, "1\talice", lines[1])
	// Embedded tabs force quoting.
	assert.Equal(t, "2\t\"with\ttab\"", lines[2])
}

func TestJSON_Envelope(t *testing.T) {
	out := render(t, JSON, false,
		[]string{"id", "name"},
		[][]string{{"1", "alice"}, {"2", "bob"}})

	var doc struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Data, 2)
	assert.Equal(t, float64(1), doc.Data[0]["id"])
	assert.Equal(t, "alice", doc.Data[0]["name"])
}

func TestJSON_EmptyResultSet(t *testing.T) {
	out := render(t, JSON, false, []string{"id"}, nil)
	assert.Equal(t, `{"data":[]}`, out)
}

func TestJSON_Pretty(t *testing.T) {
	out := render(t, JSON, true, []string{"id"}, [][]string{{"1"}})
	assert.Contains(t, out, "\n")
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
}

func TestInferValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", uint64(42)},
		{"-42", int64(-42)},
		{"18446744073709551615", uint64(18446744073709551615)},
		{"3.14", 3.14},
		{"00123", uint64(123)},
		{"true", true},
		{"FALSE", false},
		{"1.23e999", "1.23e999"},
		{"", ""},
		{"hello", "hello"},
		{"12abc", "12abc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, inferValue(tt.in), "input %q", tt.in)
	}
}
