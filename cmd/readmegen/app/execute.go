package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/readmegen/cmd/readmegen/cmd/generate"
	"github.com/agentstation/readmegen/internal/cmd/alerts"
	"github.com/agentstation/readmegen/internal/cmd/output"
	"github.com/agentstation/readmegen/pkg/logging"
)

// Execute runs the readmegen CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
// Run without a subcommand, readmegen generates the README.
func (a *App) createRootCommand() *cobra.Command {
	var flags *generate.Flags

	rootCmd := &cobra.Command{
		Use:     "readmegen [-- command [args...]]",
		Short:   "Generate README.md from a program's output",
		Version: a.version,
		Long: `readmegen writes README.md as a fixed Markdown preamble, the standard
output of "cargo run --release", and a closing code fence.

If the command fails the README is left untouched and readmegen exits
with status 1. Configure the command, preamble and paths with flags,
READMEGEN_* environment variables or .readmegen.yaml.`,
		Args:              commandAfterDash,
		PersistentPreRunE: a.setupCommand,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate.Run(cmd.Context(), a, flags, args, cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default is ./.readmegen.yaml or $HOME/.readmegen.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	flags = generate.AddFlags(rootCmd.Flags())

	rootCmd.SetVersionTemplate("readmegen {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// commandAfterDash accepts positional arguments only after "--", so a
// mistyped subcommand is reported instead of being run as the build command.
func commandAfterDash(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && cmd.ArgsLenAtDash() != 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("config") {
		config, err := LoadConfig(mustGetString(cmd, "config"))
		if err != nil {
			return err
		}
		a.config = config
	}

	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	if _, err := output.ParseFormat(format); err != nil {
		return err
	}

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)
	a.markFlagSources(cmd)

	logger := NewLogger(a.config)
	a.logger = &logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	return nil
}

// flagKeys maps generate flags to the config keys they override.
var flagKeys = map[string]string{
	"path":          keyPath,
	"command":       keyCommand,
	"workdir":       keyWorkdir,
	"timeout":       keyTimeout,
	"preamble-file": keyPreambleFile,
}

// markFlagSources records flag overrides so `config` reports them.
func (a *App) markFlagSources(cmd *cobra.Command) {
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			a.config.SetSource(key, "flag")
		}
	}
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_ = alerts.Write(os.Stderr, alerts.FromError(err), alerts.UseColor(os.Stderr))
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
