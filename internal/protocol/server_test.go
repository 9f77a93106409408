package protocol

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/karate-runner/internal/domain"
)

const sampleFeature = `Feature: users
  Scenario: get user
    Given path 'users', 1
    When method get
    Then status 200
`

type serverHarness struct {
	workspace string
	sink      *recordingSink
	exec      *fakeExecutor
	history   *fakeHistory
	artifacts *fakeArtifacts
	server    *Server
}

func newServerHarness(t *testing.T) *serverHarness {
	t.Helper()
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(ws, "users.feature"), []byte(sampleFeature), 0o600))

	sink := &recordingSink{}
	h := &serverHarness{
		workspace: ws,
		sink:      sink,
		exec:      newFakeExecutor(sink),
		history: &fakeHistory{records: []domain.RunRecord{
			{ID: "r1", File: "users.feature", Status: domain.RunStatusPassed},
		}},
		artifacts: &fakeArtifacts{status: domain.Artifact{Path: "/tmp/karate.jar", Version: "1.4.0", Present: true}},
	}
	h.server = NewServer(ws, h.exec, h.history, h.artifacts, sink, zerolog.Nop())
	return h
}

func TestServer_ErrorReplies(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"invalid json", "{not json", "Invalid JSON command"},
		{"unknown command", `{"command":"explode"}`, "Unknown command: explode"},
		{"empty command", `{}`, "Unknown command: "},
		{"run without file", `{"command":"run_test"}`, "invalid argument: run_test requires a file"},
		{"analyze without file", `{"command":"analyze"}`, "invalid argument: analyze requires a file"},
		{"analyze missing file", `{"command":"analyze","file":"nope.feature"}`, "Feature file not found: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newServerHarness(t)
			h.server.Handle(context.Background(), tt.line)

			events := h.sink.all()
			require.Len(t, events, 1)
			assert.Equal(t, domain.EventError, events[0].Type)
			assert.True(t, strings.HasPrefix(events[0].Message, tt.want), "message %q", events[0].Message)
		})
	}
}

func TestServer_BlankLinesIgnored(t *testing.T) {
	h := newServerHarness(t)
	h.server.Handle(context.Background(), "   ")
	assert.Empty(t, h.sink.all())
}

func TestServer_Analyze(t *testing.T) {
	h := newServerHarness(t)
	h.server.Handle(context.Background(), `{"command":"analyze","file":"users.feature"}`)

	events := h.sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventAnalysis, events[0].Type)
	assert.Equal(t, "users.feature", events[0].File)

	analysis, ok := events[0].Data.(*domain.FeatureAnalysis)
	require.True(t, ok)
	assert.Equal(t, "users.feature", analysis.File)
	require.Len(t, analysis.Document.Scenarios, 1)
	assert.Equal(t, "get user", analysis.Document.Scenarios[0].Name)
}

func TestServer_HistoryAndVersion(t *testing.T) {
	h := newServerHarness(t)
	h.server.Handle(context.Background(), `{"command":"history"}`)
	h.server.Handle(context.Background(), `{"command":"version"}`)

	events := h.sink.all()
	require.Len(t, events, 2)
	assert.Equal(t, domain.RunEvent{Type: domain.EventHistory, Data: h.history.records}, events[0])
	assert.Equal(t, domain.RunEvent{Type: domain.EventVersion, Data: h.artifacts.status}, events[1])
}

func TestServer_RunTestIsAsync(t *testing.T) {
	h := newServerHarness(t)
	ctx := context.Background()

	h.server.Handle(ctx, `{"command":"run_test","file":"users.feature","scenario":"get user","env":{"BASE_URL":"http://x"}}`)
	<-h.exec.started

	h.server.Handle(ctx, `{"command":"run_test","file":"users.feature"}`)
	h.server.Handle(ctx, `{"command":"cleanup"}`)
	require.Eventually(t, func() bool { return len(h.sink.all()) == 3 }, 5*time.Second, 10*time.Millisecond)

	close(h.exec.release)
	h.server.Wait()

	require.Len(t, h.exec.seen(), 1)
	assert.Equal(t, domain.RunRequest{
		File:     "users.feature",
		Scenario: "get user",
		Env:      map[string]string{"BASE_URL": "http://x"},
	}, h.exec.seen()[0])
	assert.Zero(t, h.artifacts.cleaned)

	events := h.sink.all()
	var errs []string
	for _, e := range events {
		if e.Type == domain.EventError {
			errs = append(errs, e.Message)
		}
	}
	assert.Equal(t, []string{"a test is already running", "a test is already running"}, errs)
	assert.Equal(t, domain.EndEvent(domain.RunStatusPassed), events[len(events)-1])
}

func TestServer_RunTestAdmitsFirstArrival(t *testing.T) {
	h := newServerHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.workspace, "second.feature"), []byte(sampleFeature), 0o600))
	ctx := context.Background()

	h.server.Handle(ctx, `{"command":"run_test","file":"users.feature"}`)
	h.server.Handle(ctx, `{"command":"run_test","file":"second.feature"}`)
	h.server.Handle(ctx, `{"command":"cleanup"}`)

	assert.True(t, h.exec.Running(), "the guard is taken when the command is read")
	assert.Zero(t, h.artifacts.cleaned, "cleanup must not remove the artifact under an accepted run")

	<-h.exec.started
	close(h.exec.release)
	h.server.Wait()

	require.Len(t, h.exec.seen(), 1)
	assert.Equal(t, "users.feature", h.exec.seen()[0].File)

	var errs []string
	for _, e := range h.sink.all() {
		if e.Type == domain.EventError {
			errs = append(errs, e.Message)
		}
	}
	assert.Equal(t, []string{"a test is already running", "a test is already running"}, errs)
}

func TestServer_Cleanup(t *testing.T) {
	h := newServerHarness(t)
	h.server.Handle(context.Background(), `{"command":"cleanup"}`)

	assert.Equal(t, 1, h.artifacts.cleaned)
	assert.Equal(t, []domain.RunEvent{domain.LogEvent("Artifact cleaned up")}, h.sink.all())
}

func TestServer_ServeWaitsForRunsOnEOF(t *testing.T) {
	h := newServerHarness(t)
	r, w := io.Pipe()

	done := make(chan error, 1)
	go func() { done <- h.server.Serve(context.Background(), r) }()

	_, err := io.WriteString(w, `{"command":"run_test","file":"users.feature"}`+"\n")
	require.NoError(t, err)
	<-h.exec.started
	require.NoError(t, w.Close())

	select {
	case <-done:
		t.Fatal("Serve returned while a run was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(h.exec.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after the run finished")
	}

	events := h.sink.all()
	assert.Equal(t, domain.EndEvent(domain.RunStatusPassed), events[len(events)-1])
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	h := newServerHarness(t)
	r, w := io.Pipe()
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.server.Serve(ctx, r) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve ignored cancellation")
	}
}
