package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/readmegen/cmd/readmegen/context"
	"github.com/agentstation/readmegen/internal/cmd/alerts"
	"github.com/agentstation/readmegen/internal/cmd/output"
	"github.com/agentstation/readmegen/pkg/constants"
	"github.com/agentstation/readmegen/pkg/errors"
)

func newInitCommand(app appcontext.Context) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write the resolved configuration to .readmegen.yaml",
		Long: `Init writes every setting to a YAML config file (default ./.readmegen.yaml)
so the preamble and command can be edited in one place.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := constants.ConfigFileName + ".yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := WriteFile(path, app.Settings(), force); err != nil {
				return err
			}
			app.Logger().Info().Str("path", path).Msg("Config written")
			if app.Quiet() {
				return nil
			}
			w := cmd.OutOrStdout()
			return alerts.Write(w, alerts.NewSuccess("Wrote "+path), alerts.UseColor(w))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}

// Marshal renders settings as YAML in their display order.
func Marshal(settings []output.Setting) ([]byte, error) {
	doc := make(yaml.MapSlice, 0, len(settings))
	for _, s := range settings {
		v := s.Raw
		if v == nil {
			v = s.Value
		}
		doc = append(doc, yaml.MapItem{Key: s.Key, Value: v})
	}
	data, err := yaml.MarshalWithOptions(doc, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return data, nil
}

// WriteFile writes settings to path. An existing file is kept unless force is set.
func WriteFile(path string, settings []output.Setting, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.NewValidationError("file", path, "already exists (use --force to overwrite)")
		}
	}

	data, err := Marshal(settings)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
