package output

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/readmegen/pkg/readme"
)

func testReport() *readme.Report {
	return &readme.Report{
		Path:        "README.md",
		Command:     "cargo run --release",
		Bytes:       512,
		BodyBytes:   300,
		BodyLines:   34,
		Duration:    "1.204s",
		GeneratedAt: time.Date(2023, 12, 11, 5, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: "table", want: FormatTable},
		{in: "", want: ""},
		{in: "wide", wantErr: true},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_Explicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestFormatReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, testReport(), FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "README.md", decoded["path"])
	assert.Equal(t, float64(34), decoded["body_lines"])
	assert.Equal(t, "2023-12-11T05:00:00Z", decoded["generated_at"])
}

func TestFormatReport_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, testReport(), FormatYAML))

	out := buf.String()
	assert.Contains(t, out, "path: README.md")
	assert.Contains(t, out, "command: cargo run --release")
	assert.Contains(t, out, "dry_run: false")
}

func TestFormatReport_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, testReport(), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "README.md")
	assert.Contains(t, out, "Body Lines")
	assert.Contains(t, out, "2023-12-11T05:00:00Z")
}

func TestFormatSettings(t *testing.T) {
	settings := []Setting{
		{Key: "path", Value: "README.md", Source: "default"},
		{Key: "command", Value: "go run .", Source: "env"},
	}

	var table bytes.Buffer
	require.NoError(t, FormatSettings(&table, settings, FormatTable))
	assert.Contains(t, table.String(), "go run .")
	assert.Contains(t, strings.ToUpper(table.String()), "SOURCE")

	var js bytes.Buffer
	require.NoError(t, FormatSettings(&js, settings, FormatJSON))
	var decoded []Setting
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, settings, decoded)
}

func TestTableFormatter_StructSlice(t *testing.T) {
	type row struct {
		Day   int    `json:"day"`
		Part1 string `json:"part_one"`
		Note  string
	}
	data := (&TableFormatter{}).convertToTableData([]row{{Day: 1, Part1: "142", Note: "x"}})
	require.NotNil(t, data)
	assert.Equal(t, []string{"Day", "Part One", "Note"}, data.Headers)
	assert.Equal(t, [][]string{{"1", "142", "x"}}, data.Rows)
}

func TestTableFormatter_FallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, map[string]int{"days": 11}))
	assert.JSONEq(t, `{"days": 11}`, buf.String())
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, "src, inputs", cellValue(reflect.ValueOf([]string{"src", "inputs"})))
	assert.Equal(t, "42", cellValue(reflect.ValueOf(42)))
}
