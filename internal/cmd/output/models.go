package output

import (
	"io"

	"github.com/agentstation/readmegen/pkg/readme"
)

// FormatReport prints a generation report. Table output is a property list.
func FormatReport(w io.Writer, report *readme.Report, format Format) error {
	return NewFormatter(format).Format(w, report)
}

// Setting is one resolved configuration value and where it came from.
type Setting struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
	// Raw is the typed value as written to a config file.
	Raw any `json:"-" yaml:"-"`
}

// FormatSettings prints resolved configuration. Table output aligns keys left.
func FormatSettings(w io.Writer, settings []Setting, format Format) error {
	switch format {
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, settings)
	default:
		data := Data{
			Headers:         []string{"Key", "Value", "Source"},
			ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft},
		}
		for _, s := range settings {
			data.Rows = append(data.Rows, []string{s.Key, s.Value, s.Source})
		}
		return NewFormatter(FormatTable).Format(w, data)
	}
}
