// Package watch implements the watch command.
package watch

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/readmegen/cmd/readmegen/context"
	"github.com/agentstation/readmegen/cmd/readmegen/cmd/generate"
	"github.com/agentstation/readmegen/internal/watch"
)

// NewCommand creates the watch command using app context.
func NewCommand(app appcontext.Context) *cobra.Command {
	var flags *generate.Flags

	cmd := &cobra.Command{
		Use:     "watch [dir...]",
		GroupID: "core",
		Short:   "Regenerate README.md whenever sources or inputs change",
		Long: `Watch generates the README once, then again after every burst of
changes under the watched directories (default: src and inputs).

A failed build is logged and watching continues. The README itself,
dotfiles, target/ and .git/ are ignored. Stop with Ctrl-C.`,
		Example: `  readmegen watch
  readmegen watch src inputs examples
  readmegen watch --debounce 2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			debounce, err := cmd.Flags().GetDuration("debounce")
			if err != nil {
				return err
			}
			return Run(cmd.Context(), app, flags, args, debounce)
		},
	}

	flags = generate.AddFlags(cmd.Flags())
	cmd.Flags().MarkHidden("stdout") //nolint:errcheck // flag defined above
	cmd.Flags().Duration("debounce", 0, "quiet period before regenerating (default from config, 500ms)")

	return cmd
}

// Run watches paths, or the configured watch paths when none are given,
// until ctx is cancelled.
func Run(ctx context.Context, app appcontext.Context, flags *generate.Flags, paths []string, debounce time.Duration) error {
	settings := app.Watch()
	if len(paths) == 0 {
		paths = settings.Paths
	}
	if debounce <= 0 {
		debounce = settings.Debounce
	}

	opts := flags.Options(nil)

	// Resolve once to learn the output path to ignore.
	probe, err := app.Generator(opts)
	if err != nil {
		return err
	}

	gen := func(ctx context.Context) error {
		g, err := app.Generator(opts)
		if err != nil {
			return err
		}
		_, err = g.Generate(ctx)
		return err
	}

	w := watch.New(paths, gen,
		watch.WithDebounce(debounce),
		watch.WithIgnore(probe.Path()),
		watch.WithLogger(app.Logger()),
	)
	return w.Run(ctx)
}
