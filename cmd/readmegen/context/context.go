// Package context provides the application context interface for readmegen commands.
//
// Commands accept this interface rather than the concrete App so they can be
// tested with MockContext:
//
//	mock := &context.MockContext{
//	    GeneratorFunc: func(o context.GenerateOptions) (*readme.Generator, error) {
//	        return readme.New(readme.WithRunner(runner.Static(out))), nil
//	    },
//	}
//	cmd := generate.NewCommand(mock)
package context

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/readmegen/internal/cmd/output"
	"github.com/agentstation/readmegen/pkg/readme"
)

// GenerateOptions override configured values for a single command.
// Zero values keep the configured setting.
type GenerateOptions struct {
	Path         string
	Command      []string
	Workdir      string
	Timeout      time.Duration
	PreambleFile string
	// DryRun receives the document instead of the output file when set.
	DryRun io.Writer
}

// WatchSettings configures `readmegen watch`.
type WatchSettings struct {
	Paths    []string
	Debounce time.Duration
}

// Context provides what commands need from the application.
// The App struct from cmd/readmegen/app implements this interface.
type Context interface {
	// Generator returns a README generator built from configuration and overrides.
	Generator(opts GenerateOptions) (*readme.Generator, error)

	// Settings returns the resolved configuration with the source of each value.
	Settings() []output.Setting

	// Watch returns the watch configuration.
	Watch() WatchSettings

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Quiet reports whether informational output should be suppressed.
	Quiet() bool

	// Version returns the application version string.
	Version() string
}
