// Package config implements the config command.
package config

import (
	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/readmegen/cmd/readmegen/context"
	"github.com/agentstation/readmegen/internal/cmd/output"
)

// NewCommand creates the config command using app context.
func NewCommand(app appcontext.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		GroupID: "management",
		Short:   "Show the resolved configuration",
		Long: `Config prints every setting with its value and where it came from:
default, file (.readmegen.yaml), env (READMEGEN_*) or flag.`,
		Example: `  readmegen config
  readmegen config -o yaml
  READMEGEN_COMMAND="make run" readmegen config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := output.DetectFormat(app.OutputFormat())
			return output.FormatSettings(cmd.OutOrStdout(), app.Settings(), format)
		},
	}

	cmd.AddCommand(newInitCommand(app))

	return cmd
}
