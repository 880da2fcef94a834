package runner

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/readmegen/pkg/errors"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr bool
	}{
		{
			name: "default cargo command",
			line: "cargo run --release",
			want: Command{Name: "cargo", Args: []string{"run", "--release"}},
		},
		{
			name: "repeated whitespace collapses",
			line: "  go   run  ./cmd/aoc ",
			want: Command{Name: "go", Args: []string{"run", "./cmd/aoc"}},
		},
		{
			name: "no arguments",
			line: "make",
			want: Command{Name: "make", Args: []string{}},
		},
		{
			name:    "empty",
			line:    "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseCommand() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommandFromArgs(t *testing.T) {
	cmd, err := CommandFromArgs([]string{"cargo run --release"})
	require.NoError(t, err)
	assert.Equal(t, "cargo", cmd.Name)
	assert.Equal(t, []string{"run", "--release"}, cmd.Args)

	cmd, err = CommandFromArgs([]string{"sh", "-c", "echo two words"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-c", "echo two words"}, cmd.Args)

	_, err = CommandFromArgs(nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = CommandFromArgs([]string{"", "x"})
	assert.True(t, errors.IsValidationError(err))
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "cargo run --release", Command{Name: "cargo", Args: []string{"run", "--release"}}.String())
	assert.Equal(t, "make", Command{Name: "make"}.String())
}

func TestStaticRunner(t *testing.T) {
	out := []byte("Day 01 Part1: 142\n")
	r := Static(out)

	res, err := r.Run(context.Background(), Command{Name: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, out, res.Stdout)

	// The returned slice is a copy.
	res.Stdout[0] = 'X'
	res2, err := r.Run(context.Background(), Command{Name: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, out, res2.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, Command{Name: "ignored"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFailingRunner(t *testing.T) {
	_, err := Failing(101, "panicked").Run(context.Background(), Command{Name: "cargo", Args: []string{"run"}})
	require.Error(t, err)
	assert.True(t, errors.IsCommandFailed(err))
	assert.Equal(t, 101, errors.ExitCode(err))
	assert.Contains(t, err.Error(), "cargo run")
}

func TestTailBuffer(t *testing.T) {
	tb := newTailBuffer(5)
	_, _ = tb.Write([]byte("abc"))
	assert.Equal(t, "abc", tb.String())
	_, _ = tb.Write([]byte("def"))
	assert.Equal(t, "bcdef", tb.String())
	_, _ = tb.Write([]byte("0123456789"))
	assert.Equal(t, "56789", tb.String())
	n, err := tb.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "6789x", string(tb.Bytes()))
}
