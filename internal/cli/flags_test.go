package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/karate-runner/internal/errors"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"failed run", fmt.Errorf("%w: failed", errors.ErrRunFailed), ExitError},
		{"download", errors.ErrDownload, ExitError},
		{"not found", errors.NewNotFoundError("Feature file", "a.feature"), ExitError},
		{"exit code 2 wrapper", errors.NewExitCode2Error(stderrors.New("bad")), ExitInvalidInput},
		{"invalid output", errors.ErrInvalidOutputFormat, ExitInvalidInput},
		{"invalid argument", fmt.Errorf("wrap: %w", errors.ErrInvalidArgument), ExitInvalidInput},
		{"plain message mentioning flags", stderrors.New("unknown flag: --nope"), ExitError},
		{"generic", stderrors.New("boom"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}

func TestUsageErrorsExitWithInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"history", "--nope"}},
		{"unknown shorthand", []string{"history", "-Z"}},
		{"flag missing value", []string{"history", "--limit"}},
		{"too many args", []string{"run", "a.feature", "b.feature"}},
		{"unexpected arg", []string{"history", "extra"}},
		{"unknown command", []string{"bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newWorkspace(t)
			_, err := executeCmd(t, "", append(tt.args, "-w", ws)...)
			require.Error(t, err)
			assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
		})
	}
}

func TestGlobalFlags_EnvironmentDefaults(t *testing.T) {
	ws := newWorkspace(t)
	t.Setenv("KARATE_RUNNER_OUTPUT", OutputJSON)
	t.Setenv("KARATE_RUNNER_WORKSPACE", ws)

	out, err := executeCmd(t, "", "history")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	out, err = executeCmd(t, "", "history", "-o", OutputText)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet", "an explicit flag wins over the environment")
}

func TestGlobalFlags_EnvironmentCannotCombineVerboseAndQuiet(t *testing.T) {
	ws := newWorkspace(t)
	t.Setenv("KARATE_RUNNER_VERBOSE", "true")

	_, err := executeCmd(t, "", "history", "-w", ws, "-q")
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestParseEnvFlags(t *testing.T) {
	env, err := parseEnvFlags([]string{"karate.env=qa", "TOKEN=a=b", "EMPTY="})
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"karate.env": "qa", "TOKEN": "a=b", "EMPTY": ""}, env)

	env, err = parseEnvFlags(nil)
	assert.NoError(t, err)
	assert.Nil(t, env)

	for _, bad := range []string{"NOEQUALS", "=value", " =x"} {
		_, err := parseEnvFlags([]string{bad})
		assert.ErrorIs(t, err, errors.ErrInvalidArgument, bad)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err), bad)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "a", truncate("abc", 1))
}
