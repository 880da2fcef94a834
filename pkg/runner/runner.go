// Package runner executes the external build/run command whose standard
// output becomes the README body.
//
// Stdout is captured verbatim as opaque bytes. Stderr is streamed to the
// logger line by line and its tail is kept for error reports, so a failing
// `cargo build` shows up both live and in the returned error.
package runner

import (
	"context"
	"strings"
	"time"

	"github.com/agentstation/readmegen/pkg/errors"
)

// Command describes one invocation of an external program.
type Command struct {
	// Name is the program to execute, resolved through PATH.
	Name string
	// Args are passed to the program as-is.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
}

// String returns the command line as it would be typed in a shell.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Validate checks that the command can be executed.
func (c Command) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.NewValidationError("command", c.Name, "program name cannot be empty")
	}
	return nil
}

// Result is the outcome of a successful run.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner executes commands. ExecRunner is the production implementation.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Func adapts a function to the Runner interface.
type Func func(ctx context.Context, cmd Command) (*Result, error)

// Run implements Runner.
func (f Func) Run(ctx context.Context, cmd Command) (*Result, error) {
	return f(ctx, cmd)
}

// Static returns a Runner that always produces stdout and exits successfully.
// It is meant for tests and previews that must not spawn processes.
func Static(stdout []byte) Runner {
	return Func(func(ctx context.Context, cmd Command) (*Result, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := make([]byte, len(stdout))
		copy(out, stdout)
		return &Result{Stdout: out}, nil
	})
}

// Failing returns a Runner whose command always exits with exitCode.
func Failing(exitCode int, stderr string) Runner {
	return Func(func(_ context.Context, cmd Command) (*Result, error) {
		return nil, errors.NewProcessError("run", cmd.String(), stderr, exitCode, nil)
	})
}

// ParseCommand splits a command line on whitespace.
// Quoting is not interpreted. Commands needing arguments with spaces should
// be configured as a list instead.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errors.NewValidationError("command", line, "cannot be empty")
	}
	return Command{Name: fields[0], Args: fields[1:]}, nil
}

// CommandFromArgs builds a Command from an already split argument vector.
// A single element containing spaces is split like ParseCommand.
func CommandFromArgs(args []string) (Command, error) {
	switch len(args) {
	case 0:
		return Command{}, errors.NewValidationError("command", args, "cannot be empty")
	case 1:
		return ParseCommand(args[0])
	default:
		cmd := Command{Name: args[0], Args: append([]string(nil), args[1:]...)}
		return cmd, cmd.Validate()
	}
}
