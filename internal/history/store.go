// Package history persists run records and manages generated reports.
//
// The history file is a JSON array of run records, newest last, capped at
// the configured number of entries. Writes take an exclusive file lock and
// replace the file atomically, so readers always see a complete array.
// A corrupt or missing file reads as an empty history.
//
// IMPORTANT: This package may import internal/clock, internal/config,
// internal/constants, internal/domain, internal/errors and internal/flock.
// It MUST NOT import internal/runner.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/karate-runner/internal/clock"
	"github.com/mrz1836/karate-runner/internal/config"
	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/domain"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
	"github.com/mrz1836/karate-runner/internal/flock"
)

// Store is the file-backed run history of one workspace.
type Store struct {
	workspace string
	cfg       config.HistoryConfig
	reports   config.ReportsConfig
	clock     clock.Clock
	logger    zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for record timestamps and report ages.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a Store rooted at workspace.
func NewStore(workspace string, hist config.HistoryConfig, reports config.ReportsConfig, opts ...Option) *Store {
	s := &Store{
		workspace: workspace,
		cfg:       hist,
		reports:   reports,
		clock:     clock.RealClock{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "history").Logger()
	return s
}

// Path returns the history file path.
func (s *Store) Path() string {
	return filepath.Join(s.workspace, s.cfg.File)
}

func (s *Store) lockPath() string {
	return s.Path() + ".lock"
}

// SaveRun stamps record with the current time (and an ID if it has none),
// appends it and truncates the history to the newest MaxEntries records.
//
// Returns an error wrapping ErrFilesystem when the file cannot be written,
// or ErrLockTimeout when another writer holds the lock too long.
func (s *Store) SaveRun(ctx context.Context, record *domain.RunRecord) error {
	lock, err := flock.Acquire(ctx, s.lockPath(), constants.LockTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			s.logger.Warn().Err(releaseErr).Msg("failed to release history lock")
		}
	}()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.Timestamp = s.clock.Now().UTC()
	if record.Output == nil {
		record.Output = []string{}
	}

	records := append(s.load(), *record)
	if excess := len(records) - s.cfg.MaxEntries; excess > 0 {
		records = records[excess:]
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode history: %w", krerrors.ErrFilesystem, err)
	}
	if err := atomicWrite(s.Path(), data); err != nil {
		return fmt.Errorf("%w: %w", krerrors.ErrFilesystem, err)
	}

	s.logger.Debug().
		Str("run_id", record.ID).
		Str("status", record.Status.String()).
		Int("entries", len(records)).
		Msg("run saved")
	return nil
}

// History returns every stored record, oldest first. A missing or corrupt
// history file yields an empty slice.
func (s *Store) History() []domain.RunRecord {
	return s.load()
}

// Latest returns up to n records, newest first. n <= 0 returns all.
func (s *Store) Latest(n int) []domain.RunRecord {
	records := s.load()
	if n <= 0 || n > len(records) {
		n = len(records)
	}
	latest := make([]domain.RunRecord, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		latest = append(latest, records[i])
	}
	return latest
}

// load reads the history file, recovering from every read or parse error
// with an empty history.
func (s *Store) load() []domain.RunRecord {
	data, err := os.ReadFile(s.Path()) //#nosec G304 -- path is constructed internally
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.Path()).Msg("history unreadable, starting fresh")
		}
		return []domain.RunRecord{}
	}

	var records []domain.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn().
			Err(fmt.Errorf("%w: %w", krerrors.ErrParse, err)).
			Str("path", s.Path()).
			Msg("history is corrupt, starting fresh")
		return []domain.RunRecord{}
	}
	if records == nil {
		return []domain.RunRecord{}
	}
	return records
}

// atomicWrite writes data to a file atomically using write-then-rename.
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

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

	// Sync to disk before rename
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
