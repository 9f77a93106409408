package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReports_Path(t *testing.T) {
	ws := newWorkspace(t)

	out, err := executeCmd(t, "", "reports", "path", "api/users.feature", "-w", ws)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws, "target", "karate-reports", "users.html")+"\n", out)
}

func TestReports_Archive(t *testing.T) {
	ws := newWorkspace(t)

	out, err := executeCmd(t, "", "reports", "archive", "-w", ws)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing archived")

	writeFile(t, filepath.Join(ws, "target", "karate-reports", "users.html"), "<html></html>")
	out, err = executeCmd(t, "", "reports", "archive", "run-42", "-w", ws, "-o", "json")
	require.NoError(t, err)

	var res struct {
		Archived bool   `json:"archived"`
		Path     string `json:"path"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Archived)
	assert.Equal(t, filepath.Join(ws, "karate-archives", "run-42", "reports"), res.Path)
	assert.FileExists(t, filepath.Join(res.Path, "users.html"))
}

func TestReports_Cleanup(t *testing.T) {
	ws := newWorkspace(t)
	dir := filepath.Join(ws, "target", "karate-reports")
	oldReport := filepath.Join(dir, "old.html")
	newReport := filepath.Join(dir, "new.html")
	writeFile(t, oldReport, "old")
	writeFile(t, newReport, "new")
	stale := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(oldReport, stale, stale))

	out, err := executeCmd(t, "", "reports", "cleanup", "--max-age-days", "7", "-w", ws, "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"removed":1,"max_age_days":7}`, out)
	assert.NoFileExists(t, oldReport)
	assert.FileExists(t, newReport)

	out, err = executeCmd(t, "", "reports", "cleanup", "-w", ws)
	require.NoError(t, err)
	assert.Contains(t, out, "older than 30 day(s)")
}

func TestReports_CleanupRejectsNegativeAge(t *testing.T) {
	ws := newWorkspace(t)

	_, err := executeCmd(t, "", "reports", "cleanup", "--max-age-days", "-3", "-w", ws)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
