package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/readmegen/internal/cmd/output"
	"github.com/agentstation/readmegen/pkg/errors"
	"github.com/agentstation/readmegen/pkg/runner"
)

func executeRoot(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	rootCmd := app.createRootCommand()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExecute_DefaultGenerates(t *testing.T) {
	dir := t.TempDir()
	config := testConfig(dir)
	app := newTestApp(t, config, WithRunner(runner.Static([]byte("Total: 1ms\n"))))

	require.NoError(t, app.Execute(context.Background(), []string{"-q"}))

	data, err := os.ReadFile(config.Path)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("```\nTotal: 1ms\n```")))
}

func TestExecute_ReportFormat(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, testConfig(dir), WithRunner(runner.Static([]byte("a\nb\n"))))

	out, err := executeRoot(t, app, "generate", "-o", "json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, float64(2), report["body_lines"])
	assert.Equal(t, "cargo run --release", report["command"])
}

func TestExecute_Stdout(t *testing.T) {
	dir := t.TempDir()
	config := testConfig(dir)
	app := newTestApp(t, config, WithRunner(runner.Static([]byte("x\n"))))

	out, err := executeRoot(t, app, "--stdout")
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Contains(t, out, "# Advent of Code 2023")
	assert.True(t, bytes.HasSuffix([]byte(out), []byte("```\nx\n```")))
	assert.NoFileExists(t, config.Path)
}

func TestExecute_CommandAfterDash(t *testing.T) {
	var got runner.Command
	r := runner.Func(func(_ context.Context, cmd runner.Command) (*runner.Result, error) {
		got = cmd
		return &runner.Result{}, nil
	})
	app := newTestApp(t, testConfig(t.TempDir()), WithRunner(r))

	_, err := executeRoot(t, app, "-q", "--", "go", "run", "./cmd/aoc")
	require.NoError(t, err)
	assert.Equal(t, "go run ./cmd/aoc", got.String())
}

func TestExecute_UnknownCommand(t *testing.T) {
	app := newTestApp(t, testConfig(t.TempDir()), WithRunner(runner.Static(nil)))

	_, err := executeRoot(t, app, "genrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestExecute_InvalidFormat(t *testing.T) {
	app := newTestApp(t, testConfig(t.TempDir()), WithRunner(runner.Static(nil)))

	_, err := executeRoot(t, app, "-o", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestExecute_NegativeTimeoutFlag(t *testing.T) {
	config := testConfig(t.TempDir())
	app := newTestApp(t, config, WithRunner(runner.Static([]byte("x\n"))))

	_, err := executeRoot(t, app, "-q", "--timeout=-1s")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.NoFileExists(t, config.Path)
}

func TestExecute_CommandFailure(t *testing.T) {
	dir := t.TempDir()
	config := testConfig(dir)
	app := newTestApp(t, config, WithRunner(runner.Failing(101, "error: could not compile")))

	err := app.Execute(context.Background(), []string{"-q"})
	require.Error(t, err)
	assert.True(t, errors.IsCommandFailed(err))
	assert.NoFileExists(t, config.Path)
}

func TestExecute_Version(t *testing.T) {
	app := newTestApp(t, testConfig(t.TempDir()))

	out, err := executeRoot(t, app, "version")
	require.NoError(t, err)
	assert.Equal(t, "readmegen 1.0.0\n", out)

	out, err = executeRoot(t, app, "version", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:   abc123")
}

func TestExecute_Man(t *testing.T) {
	app := newTestApp(t, testConfig(t.TempDir()))

	out, err := executeRoot(t, app, "man")
	require.NoError(t, err)
	assert.Contains(t, out, "READMEGEN")
	assert.Contains(t, out, "preview")
}

func TestExecute_ConfigFlagReloads(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "alt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("path: ALT.md\n"), 0o644))

	app := newTestApp(t, testConfig(dir))

	out, err := executeRoot(t, app, "config", "--config", path, "-o", "json")
	require.NoError(t, err)

	var settings []output.Setting
	require.NoError(t, json.Unmarshal([]byte(out), &settings))
	require.NotEmpty(t, settings)
	assert.Equal(t, "path", settings[0].Key)
	assert.Equal(t, "ALT.md", settings[0].Value)
	assert.Equal(t, "file", settings[0].Source)
}

func TestExecute_FlagSource(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, testConfig(dir), WithRunner(runner.Static(nil)))

	_, err := executeRoot(t, app, "-q", "--path", filepath.Join(dir, "X.md"))
	require.NoError(t, err)

	for _, s := range app.Settings() {
		if s.Key == "path" {
			assert.Equal(t, "flag", s.Source)
		}
	}
}
