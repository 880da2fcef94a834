// Package preview implements the preview command.
package preview

import (
	"os"

	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/readmegen/cmd/readmegen/context"
	"github.com/agentstation/readmegen/pkg/errors"
)

// NewCommand creates the preview command using app context.
func NewCommand(app appcontext.Context) *cobra.Command {
	var (
		preambleFile string
		bodyFile     string
	)

	cmd := &cobra.Command{
		Use:     "preview",
		GroupID: "core",
		Short:   "Print the README without running the command",
		Long: `Preview prints the preamble and closing fence to stdout without running
the build command. Use --body to splice in saved output from an earlier run.`,
		Example: `  readmegen preview
  cargo run --release > out.txt && readmegen preview --body out.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := app.Generator(appcontext.GenerateOptions{PreambleFile: preambleFile})
			if err != nil {
				return err
			}

			var body []byte
			if bodyFile != "" {
				body, err = os.ReadFile(bodyFile)
				if err != nil {
					return errors.WrapIO("read", bodyFile, err)
				}
			}

			doc, err := gen.Render(body)
			if err != nil {
				return err
			}

			app.Logger().Debug().Int("bytes", doc.Len()).Msg("Rendered preview")
			_, err = doc.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&preambleFile, "preamble-file", "", "read the preamble verbatim from this file")
	cmd.Flags().StringVar(&bodyFile, "body", "", "file whose contents stand in for the command output")

	return cmd
}
