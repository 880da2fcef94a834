package readme

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/readmegen/pkg/errors"
	"github.com/agentstation/readmegen/pkg/logging"
	"github.com/agentstation/readmegen/pkg/runner"
)

const testPreamble = "\n# Advent of Code 2023\n\n## Output\n```\n"

var aocOutput = []byte("Day 01 Part1: 142\nDay 01 Part2: 281\nDay 01 Time : 312us\n\nTotal Solve Time: 312us\n")

func TestGenerate_ByteForByte(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	g := New(
		WithPath(path),
		WithPreamble([]byte(testPreamble)),
		WithRunner(runner.Static(aocOutput)),
	)

	report, err := g.Generate(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	want := testPreamble + string(aocOutput) + "```"
	assert.Equal(t, want, string(got))
	assert.Equal(t, len(want), report.Bytes)
	assert.Equal(t, len(aocOutput), report.BodyBytes)
	assert.Equal(t, 5, report.BodyLines)
	assert.Equal(t, path, report.Path)
	assert.Equal(t, "cargo run --release", report.Command)
	assert.False(t, report.DryRun)
}

func TestGenerate_OpaqueBody(t *testing.T) {
	body := []byte{0x00, 0xff, '`', '`', '`', '\r', '\n', 0x1b, '[', '0', 'm'}
	path := filepath.Join(t.TempDir(), "README.md")

	_, err := New(
		WithPath(path),
		WithPreamble([]byte("P")),
		WithFooter([]byte("F")),
		WithRunner(runner.Static(body)),
	).Generate(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte("P"), body...), 'F'), got)
}

func TestGenerate_TruncatesPreviousContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 1000)), 0o644))

	_, err := New(
		WithPath(path),
		WithPreamble([]byte("# R\n```\n")),
		WithRunner(runner.Static([]byte("ok\n"))),
	).Generate(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# R\n```\nok\n```", string(got))
}

func TestGenerate_CommandFailureWritesNothing(t *testing.T) {
	t.Run("no previous file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "README.md")

		report, err := New(
			WithPath(path),
			WithRunner(runner.Failing(101, "thread 'main' panicked")),
		).Generate(context.Background())

		require.Error(t, err)
		assert.Nil(t, report)
		assert.True(t, errors.IsCommandFailed(err))
		assert.Equal(t, 101, errors.ExitCode(err))
		assert.NoFileExists(t, path)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "no temp files should be left behind")
	})

	t.Run("previous file kept", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "README.md")
		require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

		_, err := New(
			WithPath(path),
			WithRunner(runner.Failing(1, "")),
		).Generate(context.Background())
		require.Error(t, err)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "previous", string(got))
	})
}

func TestGenerate_LogsFailure(t *testing.T) {
	tl := logging.NewTestLogger(t)
	_, err := New(
		WithPath(filepath.Join(t.TempDir(), "README.md")),
		WithRunner(runner.Failing(2, "boom")),
		WithLogger(tl.Logger),
	).Generate(logging.WithRunID(context.Background(), 3))
	require.Error(t, err)

	tl.AssertContains(t, "README not written")
	tl.AssertContains(t, `"exit_code":2`)
	tl.AssertContains(t, `"run_id":3`)
	tl.AssertNotContains(t, "README generated")
}

func TestGenerate_UsesContextLogger(t *testing.T) {
	fallback := logging.NewTestLogger(t)
	attached := logging.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "README.md")

	ctx := logging.WithLogger(context.Background(), attached.Logger)
	_, err := New(
		WithPath(path),
		WithPreamble([]byte(testPreamble)),
		WithRunner(runner.Static(aocOutput)),
		WithLogger(fallback.Logger),
	).Generate(ctx)
	require.NoError(t, err)

	attached.AssertContains(t, "README generated")
	attached.AssertContains(t, `"command":"cargo run --release"`)
	fallback.AssertNotContains(t, "README generated")
}

func TestGenerate_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	var out bytes.Buffer
	clock := time.Date(2023, 12, 25, 6, 0, 0, 0, time.FixedZone("EST", -5*3600))

	report, err := New(
		WithPath(path),
		WithPreamble([]byte("pre\n")),
		WithRunner(runner.Static([]byte("body\n"))),
		WithDryRun(&out),
		WithClock(func() time.Time { return clock }),
	).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "pre\nbody\n```", out.String())
	assert.NoFileExists(t, path)
	assert.True(t, report.DryRun)
	assert.Equal(t, time.UTC, report.GeneratedAt.Location())
	assert.True(t, clock.Equal(report.GeneratedAt))
}

func TestGenerate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "README.md")
	_, err := New(WithPath(path), WithRunner(runner.Static(aocOutput))).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestGenerate_PassesCommandToRunner(t *testing.T) {
	var seen runner.Command
	rec := runner.Func(func(_ context.Context, cmd runner.Command) (*runner.Result, error) {
		seen = cmd
		return &runner.Result{Stdout: []byte("x")}, nil
	})

	want := runner.Command{Name: "go", Args: []string{"run", "."}, Dir: "solutions"}
	_, err := New(
		WithPath(filepath.Join(t.TempDir(), "README.md")),
		WithCommand(want),
		WithRunner(rec),
	).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, seen)
}

func TestGenerate_DefaultCommand(t *testing.T) {
	g := New()
	assert.Equal(t, "README.md", g.Path())
	assert.Equal(t, "cargo", g.Command().Name)
	assert.Equal(t, []string{"run", "--release"}, g.Command().Args)
}

func TestPreamble_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "header.md")
	require.NoError(t, os.WriteFile(file, []byte("from file\n```\n"), 0o644))

	t.Run("literal wins", func(t *testing.T) {
		p, err := New(WithPreamble([]byte("literal")), WithPreambleFile(file)).Preamble()
		require.NoError(t, err)
		assert.Equal(t, "literal", string(p))
	})

	t.Run("file beats template", func(t *testing.T) {
		p, err := New(WithPreambleFile(file)).Preamble()
		require.NoError(t, err)
		assert.Equal(t, "from file\n```\n", string(p))
	})

	t.Run("template by default", func(t *testing.T) {
		p, err := New().Preamble()
		require.NoError(t, err)
		assert.Contains(t, string(p), "Advent of Code 2023")
		assert.True(t, strings.HasSuffix(string(p), "```\n"))
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(dir, "README.md")
		_, err := New(
			WithPath(path),
			WithPreambleFile(filepath.Join(dir, "nope.md")),
			WithRunner(runner.Static(aocOutput)),
		).Generate(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.NoFileExists(t, path)
	})
}

func TestGenerate_ExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "README.md")
	_, err := New(
		WithPath(path),
		WithPreamble([]byte(testPreamble)),
		WithCommand(runner.Command{Name: "sh", Args: []string{"-c", `printf 'Day 01 Part1: 142\n'; echo "Finished release" >&2`}}),
	).Generate(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testPreamble+"Day 01 Part1: 142\n```", string(got))
}

func TestGenerate_ExecRunnerFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "README.md")
	_, err := New(
		WithPath(path),
		WithCommand(runner.Command{Name: "sh", Args: []string{"-c", `echo half-written; exit 101`}}),
	).Generate(context.Background())
	require.Error(t, err)
	assert.Equal(t, 101, errors.ExitCode(err))
	assert.NoFileExists(t, path)
}
