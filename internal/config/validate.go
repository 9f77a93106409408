package config

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/robfig/cron/v3"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - artifact.version must parse as a semantic version
//   - artifact.url_template must contain %s
//   - artifact.dir and artifact.file_name must not be empty
//   - runner.command must not be empty and runner.timeout must not be negative
//   - runner.env entries must look like KEY=VALUE
//   - history.max_entries must be between 1 and 10000
//   - reports.max_age_days must be at least 1
//   - reports.cleanup_schedule must be a valid cron expression when set
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateArtifactConfig(&cfg.Artifact); err != nil {
		return err
	}

	if err := validateRunnerConfig(&cfg.Runner); err != nil {
		return err
	}

	if err := validateHistoryConfig(&cfg.History); err != nil {
		return err
	}

	return validateReportsConfig(&cfg.Reports)
}

// validateArtifactConfig checks artifact-specific configuration values.
func validateArtifactConfig(cfg *ArtifactConfig) error {
	if _, err := semver.NewVersion(cfg.Version); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalidArtifact,
			"artifact.version must be a semantic version, got %q", cfg.Version)
	}

	if !strings.Contains(cfg.URLTemplate, "%s") {
		return errors.Wrapf(errors.ErrConfigInvalidArtifact,
			"artifact.url_template must contain %%s, got %q", cfg.URLTemplate)
	}

	if cfg.Dir == "" || cfg.FileName == "" {
		return errors.Wrap(errors.ErrConfigInvalidArtifact,
			"artifact.dir and artifact.file_name must not be empty")
	}

	if cfg.DownloadTimeout < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidArtifact,
			"artifact.download_timeout cannot be negative, got %s", cfg.DownloadTimeout)
	}

	return nil
}

// validateRunnerConfig checks runner-specific configuration values.
func validateRunnerConfig(cfg *RunnerConfig) error {
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return errors.Wrap(errors.ErrConfigInvalidRunner,
			"runner.command must not be empty")
	}

	if cfg.Timeout < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidRunner,
			"runner.timeout cannot be negative, got %s", cfg.Timeout)
	}

	for _, kv := range cfg.Env {
		if key, _, ok := strings.Cut(kv, "="); !ok || key == "" {
			return errors.Wrapf(errors.ErrConfigInvalidRunner,
				"runner.env entries must be KEY=VALUE, got %q", kv)
		}
	}

	return nil
}

// validateHistoryConfig checks history-specific configuration values.
func validateHistoryConfig(cfg *HistoryConfig) error {
	if cfg.File == "" {
		return errors.Wrap(errors.ErrConfigInvalidHistory,
			"history.file must not be empty")
	}

	if cfg.MaxEntries < 1 || cfg.MaxEntries > constants.MaxHistoryEntriesLimit {
		return errors.Wrapf(errors.ErrConfigInvalidHistory,
			"history.max_entries must be between 1 and %d, got %d",
			constants.MaxHistoryEntriesLimit, cfg.MaxEntries)
	}

	return nil
}

// validateReportsConfig checks reports-specific configuration values.
func validateReportsConfig(cfg *ReportsConfig) error {
	if cfg.Dir == "" || cfg.ArchiveDir == "" {
		return errors.Wrap(errors.ErrConfigInvalidReports,
			"reports.dir and reports.archive_dir must not be empty")
	}

	if cfg.MaxAgeDays < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidReports,
			"reports.max_age_days must be at least 1, got %d", cfg.MaxAgeDays)
	}

	if cfg.CleanupSchedule != "" {
		if _, err := cron.ParseStandard(cfg.CleanupSchedule); err != nil {
			return errors.Wrapf(errors.ErrConfigInvalidReports,
				"reports.cleanup_schedule %q is not a valid cron expression: %v", cfg.CleanupSchedule, err)
		}
	}

	return nil
}
