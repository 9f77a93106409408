package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/karate-runner/internal/constants"
)

const usersFeature = `# users api
Feature: User API

Background:
  * url baseUrl
  * def token = 'abc'

Scenario: get user
  Given path 'users', 1
  When method get
  Then status 200
  And match response.id == 1

Scenario: list users
  Given path 'users'
  When method get
  Then status 200
`

// newWorkspace isolates the karate-runner home and returns a workspace
// holding users.feature.
func newWorkspace(t *testing.T) string {
	t.Helper()
	t.Setenv(constants.HomeEnvVar, t.TempDir())
	t.Setenv("NO_COLOR", "1")

	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "users.feature"), usersFeature)
	return ws
}

// writeProjectConfig writes <ws>/.karate-runner/config.yaml.
func writeProjectConfig(t *testing.T, ws, contents string) {
	t.Helper()
	writeFile(t, filepath.Join(ws, constants.ProjectConfigDir, constants.ConfigFileName), contents)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

// executeCmd runs the root command with args and returns stdout.
func executeCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(CloseLogFile)

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
