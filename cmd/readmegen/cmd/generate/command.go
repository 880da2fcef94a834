// Package generate implements the generate command.
package generate

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/readmegen/cmd/readmegen/context"
	"github.com/agentstation/readmegen/internal/cmd/output"
)

// NewCommand creates the generate command using app context.
func NewCommand(app appcontext.Context) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "generate [-- command [args...]]",
		Aliases: []string{"gen"},
		GroupID: "core",
		Args:    cobra.ArbitraryArgs,
		Short:   "Run the build command and write README.md",
		Long: `Generate runs the configured command (default "cargo run --release"),
captures its standard output and writes README.md as:

  preamble + output + closing code fence

The preamble ends by opening a code block, so the command output is shown
verbatim. If the command cannot be started or exits with a non-zero status
the README is left untouched and readmegen exits with status 1.`,
		Example: `  readmegen generate                          # cargo run --release > README.md
  readmegen generate --stdout                 # Print instead of writing
  readmegen generate -c "go run ./cmd/aoc"    # Different command
  readmegen generate -- cargo run --release -- --day 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), app, flags, args, cmd.OutOrStdout())
		},
	}

	flags = AddFlags(cmd.Flags())

	return cmd
}

// Run performs one generation and prints the report to w.
func Run(ctx context.Context, app appcontext.Context, flags *Flags, args []string, w io.Writer) error {
	opts := flags.Options(args)
	if flags.Stdout {
		opts.DryRun = w
	}

	gen, err := app.Generator(opts)
	if err != nil {
		return err
	}

	report, err := gen.Generate(ctx)
	if err != nil {
		return err
	}

	// The document itself went to w.
	if flags.Stdout || app.Quiet() {
		return nil
	}

	return output.FormatReport(w, report, output.DetectFormat(app.OutputFormat()))
}
