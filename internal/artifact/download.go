package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/domain"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
)

// install downloads the configured version and records it.
func (m *Manager) install(ctx context.Context) error {
	if err := os.MkdirAll(m.Dir(), constants.DirPerm); err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", krerrors.ErrFilesystem, m.Dir(), err)
	}

	url := m.URL()
	m.logger.Info().Str("version", m.cfg.Version).Str("url", url).Msg("downloading engine artifact")

	err := m.download(ctx, url)
	if m.recorder != nil {
		m.recorder.RecordDownload(err == nil)
	}
	if err != nil {
		return err
	}

	data, err := json.Marshal(domain.VersionFile{Version: m.cfg.Version})
	if err != nil {
		return fmt.Errorf("%w: failed to encode version file: %w", krerrors.ErrFilesystem, err)
	}
	if err := atomicWrite(m.VersionFilePath(), data); err != nil {
		return fmt.Errorf("%w: %w", krerrors.ErrFilesystem, err)
	}

	m.logger.Info().Str("path", m.Path()).Str("version", m.cfg.Version).Msg("engine artifact ready")
	return nil
}

// download streams url into a temp file beside the artifact and renames it
// into place, so a failed transfer never leaves a partial jar at Path.
func (m *Manager) download(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", krerrors.ErrDownload, err)
	}
	req.Header.Set("User-Agent", constants.AppName)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", krerrors.ErrDownload, err)
	}
	defer resp.Body.Close() //nolint:errcheck // HTTP response body close

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: status %d", krerrors.ErrDownload, url, resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(m.Dir(), "."+m.cfg.FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %w", krerrors.ErrFilesystem, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to read body: %w", krerrors.ErrDownload, err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to sync file: %w", krerrors.ErrFilesystem, err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to close file: %w", krerrors.ErrFilesystem, err)
	}
	if err := os.Rename(tmpPath, m.Path()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to move artifact into place: %w", krerrors.ErrFilesystem, err)
	}
	return nil
}

// atomicWrite writes data to path using write-then-rename.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Clean(path)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
