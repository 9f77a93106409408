package config

import (
	"github.com/mrz1836/karate-runner/internal/constants"
)

// DefaultConfig returns a new Config with the built-in defaults.
// These are the values used when no config file, env var or flag sets a key.
func DefaultConfig() *Config {
	return &Config{
		Artifact: ArtifactConfig{
			Version:         constants.DefaultArtifactVersion,
			URLTemplate:     constants.DefaultArtifactURLTemplate,
			Dir:             constants.ArtifactDir,
			FileName:        constants.ArtifactFileName,
			DownloadTimeout: constants.DefaultDownloadTimeout,
		},
		Runner: RunnerConfig{
			Command:   constants.DefaultRunnerCommand(),
			ExtraArgs: []string{},
			Env:       []string{},
		},
		History: HistoryConfig{
			File:       constants.HistoryFileName,
			MaxEntries: constants.MaxHistoryEntries,
		},
		Reports: ReportsConfig{
			Dir:             constants.ReportsDir,
			ArchiveDir:      constants.ArchivesDir,
			MaxAgeDays:      constants.DefaultReportMaxAgeDays,
			CleanupSchedule: constants.DefaultReportCleanupSchedule,
		},
	}
}
