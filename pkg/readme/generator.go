// Package readme builds a README from a static preamble and the captured
// standard output of an external command.
//
// The generated file is, byte for byte:
//
//	preamble + stdout + footer
//
// where the preamble ends by opening a Markdown code block and the footer
// closes it. When the command fails nothing is written.
package readme

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/readmegen/pkg/constants"
	"github.com/agentstation/readmegen/pkg/errors"
	"github.com/agentstation/readmegen/pkg/logging"
	"github.com/agentstation/readmegen/pkg/runner"
)

// Generator produces README files.
type Generator struct {
	path         string
	command      runner.Command
	runner       runner.Runner
	template     Template
	preamble     []byte
	preambleFile string
	footer       []byte
	dryRun       io.Writer
	logger       *zerolog.Logger
	now          func() time.Time
}

// Option is a functional option for configuring the Generator.
type Option func(*Generator)

// WithPath sets the README output path.
func WithPath(path string) Option {
	return func(g *Generator) {
		g.path = path
	}
}

// WithCommand sets the command whose stdout becomes the README body.
func WithCommand(cmd runner.Command) Option {
	return func(g *Generator) {
		g.command = cmd
	}
}

// WithRunner replaces the command runner (tests use runner.Static).
func WithRunner(r runner.Runner) Option {
	return func(g *Generator) {
		g.runner = r
	}
}

// WithTemplate sets the structured preamble.
func WithTemplate(t Template) Option {
	return func(g *Generator) {
		g.template = t
	}
}

// WithPreamble uses preamble verbatim instead of rendering the template.
func WithPreamble(preamble []byte) Option {
	return func(g *Generator) {
		g.preamble = preamble
	}
}

// WithPreambleFile reads the preamble verbatim from a file at generation time.
func WithPreambleFile(path string) Option {
	return func(g *Generator) {
		g.preambleFile = path
	}
}

// WithFooter overrides the closing fence.
func WithFooter(footer []byte) Option {
	return func(g *Generator) {
		g.footer = footer
	}
}

// WithDryRun writes the document to w instead of the output path.
func WithDryRun(w io.Writer) Option {
	return func(g *Generator) {
		g.dryRun = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithClock overrides the time source used for reports.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator with the Advent of Code 2023 defaults:
// README.md, `cargo run --release`, the Advent of Code template and "```".
func New(opts ...Option) *Generator {
	cmd, _ := runner.ParseCommand(constants.DefaultCommand)
	g := &Generator{
		path:     constants.DefaultReadmePath,
		command:  cmd,
		template: DefaultTemplate(),
		footer:   []byte(constants.DefaultFooter),
		logger:   logging.NewNopLogger(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.runner == nil {
		g.runner = runner.NewExecRunner(runner.WithLogger(g.logger))
	}

	return g
}

// Path returns the README output path.
func (g *Generator) Path() string {
	return g.path
}

// Command returns the configured command.
func (g *Generator) Command() runner.Command {
	return g.command
}

// Preamble returns the bytes written before the command output.
// Precedence: WithPreamble, then WithPreambleFile, then the template.
func (g *Generator) Preamble() ([]byte, error) {
	if g.preamble != nil {
		return g.preamble, nil
	}
	if g.preambleFile != "" {
		data, err := os.ReadFile(g.preambleFile)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Join(errors.NewNotFoundError("preamble file", g.preambleFile), err)
			}
			return nil, errors.WrapIO("read", g.preambleFile, err)
		}
		return data, nil
	}
	return g.template.Bytes()
}

// Render builds the document for body without running anything.
func (g *Generator) Render(body []byte) (*Document, error) {
	preamble, err := g.Preamble()
	if err != nil {
		return nil, err
	}
	return &Document{
		Preamble: preamble,
		Body:     body,
		Footer:   g.footer,
	}, nil
}

// Generate runs the command and writes the README.
// If the command cannot be started or exits non-zero the error is returned
// and the output path is not touched.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	logCtx := logging.FromContext(ctx, g.logger).With().
		Str("path", g.path).
		Str("command", g.command.String())
	if id := logging.RunID(ctx); id > 0 {
		logCtx = logCtx.Int("run_id", id)
	}
	log := logCtx.Logger()
	ctx = logging.WithLogger(ctx, &log)

	// Render first so a broken preamble fails before a long build.
	doc, err := g.Render(nil)
	if err != nil {
		return nil, err
	}

	log.Info().Msg("Running command")
	res, err := g.runner.Run(ctx, g.command)
	if err != nil {
		log.Error().Err(err).Int("exit_code", errors.ExitCode(err)).Msg("Command failed, README not written")
		return nil, err
	}
	doc.Body = res.Stdout

	report := &Report{
		Path:        g.path,
		Command:     g.command.String(),
		Bytes:       doc.Len(),
		BodyBytes:   len(doc.Body),
		BodyLines:   bytes.Count(doc.Body, []byte{'\n'}),
		Duration:    res.Duration.Round(time.Millisecond).String(),
		GeneratedAt: g.now().UTC(),
		DryRun:      g.dryRun != nil,
	}

	if g.dryRun != nil {
		if _, err := doc.WriteTo(g.dryRun); err != nil {
			return nil, errors.WrapIO("write", "stdout", err)
		}
		log.Debug().Int("bytes", report.Bytes).Msg("README written to stdout")
		return report, nil
	}

	if err := WriteFile(g.path, doc.Bytes()); err != nil {
		log.Error().Err(err).Msg("Failed to write README")
		return nil, err
	}

	log.Info().
		Int("bytes", report.Bytes).
		Int("body_lines", report.BodyLines).
		Str("duration", report.Duration).
		Msg("README generated")

	return report, nil
}
