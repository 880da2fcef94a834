package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/readmegen/pkg/constants"
	"github.com/agentstation/readmegen/pkg/errors"
	"github.com/agentstation/readmegen/pkg/logging"
)

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	logger    *zerolog.Logger
	timeout   time.Duration
	waitDelay time.Duration
	stderr    io.Writer
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithLogger sets the logger used for command lifecycle and stderr lines.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *ExecRunner) {
		r.logger = logger
	}
}

// WithTimeout bounds each run. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		r.timeout = d
	}
}

// WithStderr mirrors the child's stderr to w in addition to logging it.
func WithStderr(w io.Writer) Option {
	return func(r *ExecRunner) {
		r.stderr = w
	}
}

// NewExecRunner creates a runner that executes commands with os/exec.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		logger:    logging.NewNopLogger(),
		waitDelay: constants.CommandWaitDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cmd and blocks until it exits.
// A non-zero exit status is returned as *errors.ProcessError.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = r.waitDelay
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	log := logging.FromContext(ctx, r.logger)

	var stdout bytes.Buffer
	tail := newTailBuffer(constants.MaxStderrTail)
	pr, pw := io.Pipe()
	c.Stdout = &stdout
	c.Stderr = pw

	log.Debug().
		Str("command", cmd.String()).
		Str("dir", cmd.Dir).
		Msg("Starting command")

	start := time.Now()
	if err := c.Start(); err != nil {
		_ = pw.Close()
		return nil, errors.NewProcessError("start", cmd.String(), "", -1, err)
	}

	var g errgroup.Group
	g.Go(func() error {
		return r.drainStderr(pr, tail, log)
	})

	waitErr := c.Wait()
	_ = pw.Close()
	drainErr := g.Wait()
	elapsed := time.Since(start)

	if waitErr != nil {
		return nil, r.processError(ctx, log, cmd, tail.String(), waitErr, elapsed)
	}
	if drainErr != nil {
		log.Warn().Err(drainErr).Msg("Failed to read command stderr")
	}

	log.Debug().
		Str("command", cmd.String()).
		Int("stdout_bytes", stdout.Len()).
		Dur("duration", elapsed).
		Msg("Command finished")

	return &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   tail.Bytes(),
		ExitCode: 0,
		Duration: elapsed,
	}, nil
}

// drainStderr mirrors, logs and records each stderr line in tail.
// Lines longer than MaxStderrLine are split into several.
func (r *ExecRunner) drainStderr(pipe io.Reader, tail *tailBuffer, log *zerolog.Logger) error {
	reader := bufio.NewReaderSize(pipe, constants.MaxStderrLine)
	for {
		line, _, err := reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			// Keep draining so the child never blocks on a full pipe.
			_, _ = io.Copy(io.Discard, pipe)
			return err
		}
		r.stderrLine(line, tail, log)
	}
}

func (r *ExecRunner) stderrLine(line []byte, tail *tailBuffer, log *zerolog.Logger) {
	tail.Write(line)
	tail.Write([]byte{'\n'})
	if r.stderr != nil {
		fmt.Fprintf(r.stderr, "%s\n", line)
	}
	log.Debug().Str("stream", "stderr").Msg(string(line))
}

// processError converts a Wait error into a typed error.
func (r *ExecRunner) processError(ctx context.Context, log *zerolog.Logger, cmd Command, stderr string, waitErr error, elapsed time.Duration) error {
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return errors.Join(
			errors.NewTimeoutError("run command", r.timeout.String(), cmd.String()),
			errors.NewProcessError("run", cmd.String(), stderr, -1, waitErr),
		)
	case errors.Is(ctxErr, context.Canceled):
		return errors.Join(
			errors.ErrCanceled,
			errors.NewProcessError("run", cmd.String(), stderr, -1, waitErr),
		)
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	log.Debug().
		Str("command", cmd.String()).
		Int("exit_code", exitCode).
		Dur("duration", elapsed).
		Msg("Command failed")

	return errors.NewProcessError("run", cmd.String(), stderr, exitCode, waitErr)
}
