// Package config provides configuration management for karate-runner with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (KARATE_RUNNER_* prefix)
//  3. Project config (<workspace>/.karate-runner/config.yaml)
//  4. Global config (~/.karate-runner/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for karate-runner.
type Config struct {
	// Artifact controls where the engine jar comes from and where it lives.
	Artifact ArtifactConfig `yaml:"artifact" json:"artifact" mapstructure:"artifact"`

	// Runner controls how the engine process is launched.
	Runner RunnerConfig `yaml:"runner" json:"runner" mapstructure:"runner"`

	// History controls the persisted run history.
	History HistoryConfig `yaml:"history" json:"history" mapstructure:"history"`

	// Reports controls report locations, archival and cleanup.
	Reports ReportsConfig `yaml:"reports" json:"reports" mapstructure:"reports"`

	// Host contains settings for relaying events to a host application.
	Host HostConfig `yaml:"host" json:"host" mapstructure:"host"`

	// Metrics contains settings for the Prometheus endpoint in serve mode.
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
}

// ArtifactConfig contains settings for the engine artifact.
type ArtifactConfig struct {
	// Version is the pinned engine version, a semantic version string.
	// Default: "1.4.0"
	Version string `yaml:"version" json:"version" mapstructure:"version"`

	// URLTemplate is the download URL. Every %s is replaced by Version.
	URLTemplate string `yaml:"url_template" json:"url_template" mapstructure:"url_template"`

	// Dir is the workspace-relative directory holding the artifact.
	// Default: "resources"
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`

	// FileName is the artifact file name inside Dir.
	// Default: "karate.jar"
	FileName string `yaml:"file_name" json:"file_name" mapstructure:"file_name"`

	// DownloadTimeout bounds a single download.
	// Default: 5 minutes
	DownloadTimeout time.Duration `yaml:"download_timeout" json:"download_timeout" mapstructure:"download_timeout"`
}

// RunnerConfig contains settings for launching the engine.
type RunnerConfig struct {
	// Command is the launcher prefix; the artifact path follows it.
	// Default: ["java", "-jar"]
	Command []string `yaml:"command" json:"command" mapstructure:"command"`

	// ExtraArgs are appended after the feature file and scenario filter.
	ExtraArgs []string `yaml:"extra_args" json:"extra_args" mapstructure:"extra_args"`

	// Timeout kills the engine after this long. Zero means no limit.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`

	// Env holds KEY=VALUE pairs applied over the process environment and
	// under per-run overrides.
	Env []string `yaml:"env" json:"env" mapstructure:"env"`
}

// HistoryConfig contains settings for the run history file.
type HistoryConfig struct {
	// File is the workspace-relative history file.
	// Default: ".karate-history.json"
	File string `yaml:"file" json:"file" mapstructure:"file"`

	// MaxEntries caps the history; oldest entries are evicted first.
	// Default: 100, Valid range: 1-10000
	MaxEntries int `yaml:"max_entries" json:"max_entries" mapstructure:"max_entries"`
}

// ReportsConfig contains settings for generated HTML reports.
type ReportsConfig struct {
	// Dir is the workspace-relative directory the engine writes reports to.
	// Default: "target/karate-reports"
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`

	// ArchiveDir is the workspace-relative root for per-run archives.
	// Default: "karate-archives"
	ArchiveDir string `yaml:"archive_dir" json:"archive_dir" mapstructure:"archive_dir"`

	// MaxAgeDays is the age after which cleanup deletes a report.
	// Default: 30
	MaxAgeDays int `yaml:"max_age_days" json:"max_age_days" mapstructure:"max_age_days"`

	// CleanupSchedule is a cron expression for cleanup in serve mode.
	// Empty disables scheduled cleanup.
	// Default: "@daily"
	CleanupSchedule string `yaml:"cleanup_schedule" json:"cleanup_schedule" mapstructure:"cleanup_schedule"`
}

// HostConfig contains settings for the host relay.
type HostConfig struct {
	// WebSocketURL receives a copy of every event. Empty disables the relay.
	WebSocketURL string `yaml:"websocket_url" json:"websocket_url" mapstructure:"websocket_url"`
}

// MetricsConfig contains settings for the metrics endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `yaml:"addr" json:"addr" mapstructure:"addr"`
}
