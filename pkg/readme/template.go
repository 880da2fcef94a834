package readme

import (
	"bytes"
	"io"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/readmegen/pkg/constants"
)

// Badge is a status image shown above the title.
type Badge struct {
	Alt string `json:"alt" yaml:"alt"`
	URL string `json:"url" yaml:"url"`
}

// Section is a level-2 heading followed by a paragraph.
type Section struct {
	Heading string `json:"heading" yaml:"heading"`
	Body    string `json:"body" yaml:"body"`
}

// Template describes the static part of the README that precedes the
// captured command output. Render turns it into Markdown ending with an
// opened code fence.
type Template struct {
	// LeadingBlank starts the preamble with an empty line.
	LeadingBlank  bool      `json:"leading_blank,omitempty" yaml:"leading_blank,omitempty"`
	Badge         *Badge    `json:"badge,omitempty" yaml:"badge,omitempty"`
	Title         string    `json:"title" yaml:"title"`
	Description   []string  `json:"description,omitempty" yaml:"description,omitempty"`
	Sections      []Section `json:"sections,omitempty" yaml:"sections,omitempty"`
	OutputHeading string    `json:"output_heading" yaml:"output_heading"`
}

// DefaultTemplate returns the preamble of the Advent of Code 2023 README.
func DefaultTemplate() Template {
	return Template{
		LeadingBlank: true,
		Badge: &Badge{
			Alt: "GitHub Workflow Status (with event)",
			URL: "https://img.shields.io/github/actions/workflow/status/callrbx/aoc23/rust.yml",
		},
		Title: "Advent of Code 2023",
		Description: []string{
			"Rust solves for Advent of Code 2023.",
			"Each day has it's own source file with builtin tests and its own input file.",
			"Hopefully this will help somebody.",
		},
		Sections: []Section{
			{Heading: "Usage", Body: "Feel free to use as you see fit."},
		},
		OutputHeading: "Output",
	}
}

// Render writes the template as Markdown to w.
// The output always ends with "```\n" so the command output that follows
// lands inside a code block.
func (t Template) Render(w io.Writer) error {
	var buf strings.Builder
	doc := md.NewMarkdown(&buf)

	blank := func() { doc.PlainText("") }

	if t.Badge != nil && t.Badge.URL != "" {
		doc.PlainText(md.Image(t.Badge.Alt, t.Badge.URL))
		blank()
	}
	if t.Title != "" {
		doc.H1(t.Title)
		blank()
	}
	for _, p := range t.Description {
		if strings.TrimSpace(p) == "" {
			continue
		}
		doc.PlainText(p)
		blank()
	}
	for _, s := range t.Sections {
		if s.Heading != "" {
			doc.H2(s.Heading)
		}
		if s.Body != "" {
			doc.PlainText(s.Body)
		}
		blank()
	}
	if t.OutputHeading != "" {
		doc.H2(t.OutputHeading)
	}

	if err := doc.Build(); err != nil {
		return err
	}

	out := buf.String()
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if t.LeadingBlank {
		out = "\n" + out
	}
	if _, err := io.WriteString(w, out); err != nil {
		return err
	}
	_, err := io.WriteString(w, constants.CodeFence+"\n")
	return err
}

// Bytes renders the template into a byte slice.
func (t Template) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
