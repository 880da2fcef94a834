// Package app provides the application context and dependency management
// for the readmegen CLI. It centralizes configuration, logging, and the
// construction of README generators for the commands.
package app

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	appcontext "github.com/agentstation/readmegen/cmd/readmegen/context"
	"github.com/agentstation/readmegen/internal/cmd/output"
	"github.com/agentstation/readmegen/pkg/errors"
	"github.com/agentstation/readmegen/pkg/readme"
	"github.com/agentstation/readmegen/pkg/runner"
)

// App represents the readmegen application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// stderr receives the command's standard error unless --quiet is set.
	stderr io.Writer

	// runner overrides the exec runner (tests).
	mu     sync.RWMutex
	runner runner.Runner
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Quiet reports whether --quiet was given.
func (a *App) Quiet() bool {
	return a.config.Quiet
}

// Settings returns the resolved configuration.
func (a *App) Settings() []output.Setting {
	return a.config.Settings()
}

// Watch returns the watch configuration.
func (a *App) Watch() appcontext.WatchSettings {
	return appcontext.WatchSettings{
		Paths:    a.config.WatchPaths,
		Debounce: a.config.WatchDebounce,
	}
}

// Generator builds a README generator from the configuration, with opts
// overriding individual settings.
func (a *App) Generator(opts appcontext.GenerateOptions) (*readme.Generator, error) {
	path := a.config.Path
	if opts.Path != "" {
		path = opts.Path
	}

	args := a.config.Command
	if len(opts.Command) > 0 {
		args = opts.Command
	}
	cmd, err := runner.CommandFromArgs(args)
	if err != nil {
		return nil, err
	}

	cmd.Dir = a.config.Workdir
	if opts.Workdir != "" {
		cmd.Dir = opts.Workdir
	}

	timeout := a.config.Timeout
	if opts.Timeout != 0 {
		timeout = opts.Timeout
	}
	if timeout < 0 {
		return nil, errors.NewValidationError("timeout", timeout, "cannot be negative")
	}

	preambleFile := a.config.PreambleFile
	if opts.PreambleFile != "" {
		preambleFile = opts.PreambleFile
	}

	genOpts := []readme.Option{
		readme.WithPath(path),
		readme.WithCommand(cmd),
		readme.WithRunner(a.commandRunner(timeout)),
		readme.WithTemplate(a.config.Template()),
		readme.WithFooter([]byte(a.config.Footer)),
		readme.WithLogger(a.logger),
	}
	if preambleFile != "" {
		genOpts = append(genOpts, readme.WithPreambleFile(preambleFile))
	}
	if opts.DryRun != nil {
		genOpts = append(genOpts, readme.WithDryRun(opts.DryRun))
	}

	return readme.New(genOpts...), nil
}

// commandRunner returns the runner override or a new exec runner.
func (a *App) commandRunner(timeout time.Duration) runner.Runner {
	a.mu.RLock()
	r := a.runner
	a.mu.RUnlock()
	if r != nil {
		return r
	}

	stderr := a.stderr
	if a.config.Quiet {
		stderr = nil
	}
	return runner.NewExecRunner(
		runner.WithLogger(a.logger),
		runner.WithTimeout(timeout),
		runner.WithStderr(stderr),
	)
}

// Shutdown performs graceful shutdown of the application.
// Child processes are bound to the command context, so there is nothing
// left to stop beyond flushing the log.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRunner sets the command runner used by every generator (useful for testing).
func WithRunner(r runner.Runner) Option {
	return func(a *App) error {
		a.mu.Lock()
		a.runner = r
		a.mu.Unlock()
		return nil
	}
}

// WithStderr sets where the command's standard error is mirrored.
func WithStderr(w io.Writer) Option {
	return func(a *App) error {
		a.stderr = w
		return nil
	}
}

// Ensure App implements the command context at compile time.
var _ appcontext.Context = (*App)(nil)
