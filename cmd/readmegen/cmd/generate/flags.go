package generate

import (
	"time"

	"github.com/spf13/pflag"

	appcontext "github.com/agentstation/readmegen/cmd/readmegen/context"
)

// Flags holds the per-run overrides of the generate command.
type Flags struct {
	Path         string
	Command      string
	Workdir      string
	Timeout      time.Duration
	PreambleFile string
	Stdout       bool
}

// AddFlags registers the generate flags on fs.
// The root command shares them so `readmegen` alone generates.
func AddFlags(fs *pflag.FlagSet) *Flags {
	flags := &Flags{}
	fs.StringVarP(&flags.Path, "path", "p", "", "README output path (default README.md)")
	fs.StringVarP(&flags.Command, "command", "c", "", `command whose stdout becomes the README body (default "cargo run --release")`)
	fs.StringVarP(&flags.Workdir, "workdir", "C", "", "working directory for the command")
	fs.DurationVar(&flags.Timeout, "timeout", 0, "kill the command after this long (0 disables)")
	fs.StringVar(&flags.PreambleFile, "preamble-file", "", "read the preamble verbatim from this file")
	fs.BoolVar(&flags.Stdout, "stdout", false, "write the README to stdout instead of the file")
	return flags
}

// Options converts flags and positional arguments into generator overrides.
// Positional arguments, usually given after --, replace the command.
func (f *Flags) Options(args []string) appcontext.GenerateOptions {
	opts := appcontext.GenerateOptions{
		Path:         f.Path,
		Workdir:      f.Workdir,
		Timeout:      f.Timeout,
		PreambleFile: f.PreambleFile,
	}
	switch {
	case len(args) > 0:
		opts.Command = args
	case f.Command != "":
		opts.Command = []string{f.Command}
	}
	return opts
}
