// Package artifact manages the local copy of the Karate engine jar.
//
// The jar is downloaded once per workspace into the configured resources
// directory and its version is recorded in a sibling version.json:
//
//	resources/
//	├── karate.jar
//	└── version.json   {"version": "1.4.0"}
//
// IMPORTANT: This package may import internal/config, internal/constants,
// internal/domain and internal/errors. It MUST NOT import internal/runner.
package artifact

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/mrz1836/karate-runner/internal/config"
	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/domain"
)

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DownloadRecorder observes download attempts.
type DownloadRecorder interface {
	RecordDownload(success bool)
}

// Manager ensures a versioned engine artifact exists under a workspace.
// Concurrent EnsureArtifact and Cleanup calls on the same workspace race;
// the engine serializes runs above this layer.
type Manager struct {
	workspace string
	cfg       config.ArtifactConfig
	client    HTTPClient
	recorder  DownloadRecorder
	logger    zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c HTTPClient) Option {
	return func(m *Manager) { m.client = c }
}

// WithRecorder attaches a download observer.
func WithRecorder(r DownloadRecorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a Manager for workspace. The default HTTP client
// verifies TLS certificates and is bounded by cfg.DownloadTimeout.
func NewManager(workspace string, cfg config.ArtifactConfig, opts ...Option) *Manager {
	m := &Manager{
		workspace: workspace,
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.DownloadTimeout},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With().Str("component", "artifact").Logger()
	return m
}

// Dir returns the directory holding the artifact.
func (m *Manager) Dir() string {
	return filepath.Join(m.workspace, m.cfg.Dir)
}

// Path returns where the artifact lives, whether or not it exists.
func (m *Manager) Path() string {
	return filepath.Join(m.Dir(), m.cfg.FileName)
}

// VersionFilePath returns the path of the version metadata file.
func (m *Manager) VersionFilePath() string {
	return filepath.Join(m.Dir(), constants.VersionFileName)
}

// URL returns the download URL for the configured version.
func (m *Manager) URL() string {
	return strings.ReplaceAll(m.cfg.URLTemplate, "%s", m.cfg.Version)
}

// Exists reports whether the artifact file is present.
func (m *Manager) Exists() bool {
	info, err := os.Stat(m.Path())
	return err == nil && info.Mode().IsRegular()
}

// EnsureArtifact returns the artifact path, downloading the configured
// version first when no artifact is present.
//
// Returns an error wrapping ErrDownload when the fetch fails, or
// ErrFilesystem when the directory or files cannot be written.
func (m *Manager) EnsureArtifact(ctx context.Context) (string, error) {
	if m.Exists() {
		return m.Path(), nil
	}
	if err := m.install(ctx); err != nil {
		return "", err
	}
	return m.Path(), nil
}

// Refresh downloads the configured version when the artifact is missing or
// its recorded version differs from the configured one.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	if recorded, ok := m.Version(); ok && recorded == m.cfg.Version && m.Exists() {
		return m.Path(), nil
	}
	if err := m.install(ctx); err != nil {
		return "", err
	}
	return m.Path(), nil
}

// Version reads the recorded version. The boolean is false when the metadata
// file is missing, unreadable or does not hold a semantic version.
func (m *Manager) Version() (string, bool) {
	data, err := os.ReadFile(m.VersionFilePath()) //#nosec G304 -- path is constructed internally
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Debug().Err(err).Msg("version file unreadable")
		}
		return "", false
	}

	var vf domain.VersionFile
	if err := json.Unmarshal(data, &vf); err != nil {
		m.logger.Debug().Err(err).Msg("version file is not valid JSON")
		return "", false
	}
	if _, err := semver.NewVersion(vf.Version); err != nil {
		m.logger.Debug().Str("version", vf.Version).Msg("version file holds no semantic version")
		return "", false
	}
	return vf.Version, true
}

// Status describes the artifact. Present is true only when the file exists
// and a valid version is recorded beside it.
func (m *Manager) Status() domain.Artifact {
	version, ok := m.Version()
	return domain.Artifact{
		Path:    m.Path(),
		Version: version,
		Present: ok && m.Exists(),
	}
}

// Cleanup deletes the artifact and its metadata file. Failures are logged
// and swallowed.
func (m *Manager) Cleanup() {
	for _, path := range []string{m.Path(), m.VersionFilePath()} {
		if err := os.Remove(path); err != nil && !stderrors.Is(err, os.ErrNotExist) {
			m.logger.Warn().Err(err).Str("path", path).Msg("failed to remove artifact file")
		}
	}
	m.logger.Info().Str("path", m.Path()).Msg("artifact cleaned up")
}
