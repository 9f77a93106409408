package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/karate-runner/internal/domain"
	"github.com/mrz1836/karate-runner/internal/errors"
)

// newReleaseServer serves a fake engine for any version and counts hits.
func newReleaseServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/v9.9.9/karate-9.9.9.jar" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("PK fake jar"))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func artifactStatus(t *testing.T, out string) domain.Artifact {
	t.Helper()
	var status domain.Artifact
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	return status
}

func TestArtifact_Lifecycle(t *testing.T) {
	ws := newWorkspace(t)
	srv, hits := newReleaseServer(t)
	writeProjectConfig(t, ws, "artifact:\n  url_template: "+srv.URL+"/v%s/karate-%s.jar\n")

	out, err := executeCmd(t, "", "artifact", "version", "-w", ws, "-o", "json")
	require.NoError(t, err)
	assert.False(t, artifactStatus(t, out).Present)

	out, err = executeCmd(t, "", "artifact", "ensure", "-w", ws, "-o", "json")
	require.NoError(t, err)
	status := artifactStatus(t, out)
	assert.True(t, status.Present)
	assert.Equal(t, "1.4.0", status.Version)
	assert.Equal(t, filepath.Join(ws, "resources", "karate.jar"), status.Path)
	assert.Equal(t, int32(1), hits.Load())

	data, err := os.ReadFile(status.Path)
	require.NoError(t, err)
	assert.Equal(t, "PK fake jar", string(data))

	_, err = executeCmd(t, "", "artifact", "ensure", "-w", ws)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "present artifact is not downloaded again")

	out, err = executeCmd(t, "", "artifact", "cleanup", "-w", ws)
	require.NoError(t, err)
	assert.Contains(t, out, "missing")
	assert.NoFileExists(t, status.Path)
}

func TestArtifact_ForceRefreshOnVersionChange(t *testing.T) {
	ws := newWorkspace(t)
	srv, hits := newReleaseServer(t)
	writeProjectConfig(t, ws, "artifact:\n  url_template: "+srv.URL+"/v%s/karate-%s.jar\n")

	_, err := executeCmd(t, "", "artifact", "ensure", "-w", ws)
	require.NoError(t, err)

	t.Setenv("KARATE_RUNNER_ARTIFACT_VERSION", "1.5.0")
	out, err := executeCmd(t, "", "artifact", "ensure", "--force", "-w", ws, "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", artifactStatus(t, out).Version)
	assert.Equal(t, int32(2), hits.Load())
}

func TestArtifact_DownloadFailure(t *testing.T) {
	ws := newWorkspace(t)
	srv, _ := newReleaseServer(t)
	writeProjectConfig(t, ws, "artifact:\n  version: 9.9.9\n  url_template: "+srv.URL+"/v%s/karate-%s.jar\n")

	_, err := executeCmd(t, "", "artifact", "ensure", "-w", ws)
	require.ErrorIs(t, err, errors.ErrDownload)
	assert.Equal(t, ExitError, ExitCodeForError(err))
}
