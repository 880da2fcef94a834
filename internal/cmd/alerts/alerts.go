// Package alerts formats the one-line status shown when a command ends.
package alerts

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/agentstation/readmegen/pkg/errors"
)

// maxDetails bounds how many stderr lines a failure alert repeats.
const maxDetails = 10

// Alert is a status message with optional detail lines.
type Alert struct {
	Level   Level
	Message string
	Details []string
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns the alert line without details.
func (a *Alert) String() string {
	return a.Level.Icon() + " " + a.Message
}

// FromError describes err for a person reading the terminal.
// Command failures name the exit status and repeat the end of stderr.
func FromError(err error) *Alert {
	var pe *errors.ProcessError
	switch {
	case errors.IsTimeout(err):
		return NewError("README not written: command timed out").
			WithDetails(err.Error())
	case errors.IsCanceled(err):
		return NewWarning("README not written: interrupted")
	case errors.As(err, &pe):
		msg := fmt.Sprintf("README not written: %s", pe.Command)
		switch {
		case pe.ExitCode > 0:
			msg += fmt.Sprintf(" exited with status %d", pe.ExitCode)
		case pe.Err != nil:
			msg += fmt.Sprintf(" could not run: %v", pe.Err)
		}
		return NewError(msg).WithDetails(tail(pe.Output, maxDetails)...)
	case errors.IsValidationError(err):
		return NewError(err.Error()).WithDetails("run `readmegen config` to see the resolved settings")
	default:
		return NewError(err.Error())
	}
}

// Write prints a to w, colored when color is set.
func Write(w io.Writer, a *Alert, color bool) error {
	line := a.String()
	if color {
		line = a.Level.Color() + line + resetColor
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, detail := range a.Details {
		if _, err := fmt.Fprintf(w, "   %s\n", detail); err != nil {
			return err
		}
	}
	return nil
}

// UseColor reports whether alerts written to w should be colored:
// w is a terminal and NO_COLOR is unset.
func UseColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// tail returns the last n non-empty lines of s.
func tail(s string, n int) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
