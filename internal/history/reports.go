package history

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrz1836/karate-runner/internal/constants"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
)

// ReportsDir returns the directory the engine writes HTML reports to.
func (s *Store) ReportsDir() string {
	return filepath.Join(s.workspace, s.reports.Dir)
}

// ArchiveDir returns the root of per-run report archives.
func (s *Store) ArchiveDir() string {
	return filepath.Join(s.workspace, s.reports.ArchiveDir)
}

// ReportPath returns the report for featureFile: <reports>/<stem>.html.
func (s *Store) ReportPath(featureFile string) string {
	base := filepath.Base(featureFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(s.ReportsDir(), stem+constants.ReportExtension)
}

// EnsureReportsDir creates the reports directory if it is missing.
func (s *Store) EnsureReportsDir() error {
	if err := os.MkdirAll(s.ReportsDir(), constants.DirPerm); err != nil {
		return fmt.Errorf("%w: failed to create reports directory: %w", krerrors.ErrFilesystem, err)
	}
	return nil
}

// ArchiveReports copies the reports directory tree to
// <archive>/<runID>/reports and returns that path. An empty runID gets a
// fresh UUID. The boolean is false on any failure; failures are logged.
func (s *Store) ArchiveReports(runID string) (string, bool) {
	if runID == "" {
		runID = uuid.NewString()
	}
	if strings.ContainsAny(runID, `/\`) || runID == "." || runID == ".." {
		s.logger.Warn().Str("run_id", runID).Msg("refusing to archive under unsafe run id")
		return "", false
	}

	src := s.ReportsDir()
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		s.logger.Warn().Str("dir", src).Msg("no reports to archive")
		return "", false
	}

	dest := filepath.Join(s.ArchiveDir(), runID, constants.ArchiveReportsSubdir)
	if err := copyTree(src, dest); err != nil {
		s.logger.Warn().Err(err).Str("dest", dest).Msg("failed to archive reports")
		return "", false
	}

	s.logger.Info().Str("run_id", runID).Str("dest", dest).Msg("reports archived")
	return dest, true
}

// CleanupOldReports deletes report files under the reports directory whose
// modification time is more than maxAgeDays in the past. It returns how many
// files were removed. A missing reports directory or a file that vanishes
// mid-walk is not an error.
func (s *Store) CleanupOldReports(maxAgeDays int) (int, error) {
	if maxAgeDays < 1 {
		return 0, fmt.Errorf("%w: max age must be at least 1 day, got %d", krerrors.ErrInvalidArgument, maxAgeDays)
	}

	cutoff := s.clock.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
	removed := 0

	err := filepath.WalkDir(s.ReportsDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != constants.ReportExtension {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		if err := os.Remove(path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("%w: report cleanup: %w", krerrors.ErrFilesystem, err)
	}

	s.logger.Info().Int("removed", removed).Int("max_age_days", maxAgeDays).Msg("old reports cleaned up")
	return removed, nil
}

// copyTree copies the directory tree at src to dest, creating dest.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			return os.MkdirAll(target, constants.DirPerm)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

// copyFile copies one regular file.
func copyFile(src, dest string) error {
	in, err := os.Open(src) //#nosec G304 -- walking the reports directory
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only file

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePerm) //#nosec G304 -- path is inside the archive directory
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
