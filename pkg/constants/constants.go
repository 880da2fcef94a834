// Package constants provides shared constants used throughout the readmegen codebase.
// This includes defaults, timeouts, limits and file permissions that should be
// consistent across the application.
package constants

import "time"

// Generation defaults reproduce the Advent of Code 2023 README.
const (
	// DefaultReadmePath is the file the generator writes to
	DefaultReadmePath = "README.md"

	// DefaultCommand is the build/run command whose stdout becomes the README body
	DefaultCommand = "cargo run --release"

	// CodeFence opens and closes the Markdown block around the captured output
	CodeFence = "```"

	// DefaultFooter closes the output block. There is no trailing newline.
	DefaultFooter = CodeFence

	// ConfigFileName is the base name of the config file (without extension)
	ConfigFileName = ".readmegen"

	// EnvPrefix is the prefix for environment variable overrides (READMEGEN_PATH, ...)
	EnvPrefix = "READMEGEN"
)

// Timeout constants define various timeout durations used in the application
const (
	// ShutdownTimeout bounds graceful shutdown after a failed command
	ShutdownTimeout = 5 * time.Second

	// CommandWaitDelay is how long a cancelled subprocess gets to exit
	// before its pipes are forcibly closed
	CommandWaitDelay = 2 * time.Second

	// DefaultWatchDebounce coalesces bursts of file events into one generation
	DefaultWatchDebounce = 500 * time.Millisecond
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxStderrTail is the number of trailing stderr bytes kept for error reports
	MaxStderrTail = 4 * 1024

	// MaxStderrLine is the longest stderr line the runner will log in one event
	MaxStderrLine = 64 * 1024
)

// DefaultWatchPaths are the directories watched by `readmegen watch`.
var DefaultWatchPaths = []string{"src", "inputs"}
