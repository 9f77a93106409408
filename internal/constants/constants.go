// Package constants provides centralized constant values used throughout karate-runner.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Tool identity.
const (
	// AppName is the command name and the prefix used for environment variables.
	AppName = "karate-runner"

	// EnvPrefix is the prefix for configuration environment variables.
	EnvPrefix = "KARATE_RUNNER"

	// HomeEnvVar overrides the karate-runner home directory.
	HomeEnvVar = "KARATE_RUNNER_HOME"
)

// Karate engine artifact defaults.
const (
	// DefaultArtifactVersion is the pinned Karate release downloaded when no
	// local artifact exists.
	DefaultArtifactVersion = "1.4.0"

	// DefaultArtifactURLTemplate is formatted with the version twice
	// (release tag and asset name).
	DefaultArtifactURLTemplate = "https://github.com/karatelabs/karate/releases/download/v%s/karate-%s.jar"

	// DefaultDownloadTimeout bounds a single artifact download.
	DefaultDownloadTimeout = 5 * time.Minute
)

// DefaultRunnerCommand is the launcher placed before the artifact path.
// It is a function so callers never share the backing array.
func DefaultRunnerCommand() []string {
	return []string{"java", "-jar"}
}

// Run history defaults.
const (
	// MaxHistoryEntries is the number of most recent runs retained.
	MaxHistoryEntries = 100

	// MaxHistoryEntriesLimit is the largest configurable history size.
	MaxHistoryEntriesLimit = 10000
)

// Report defaults.
const (
	// DefaultReportMaxAgeDays is the age after which report files are removed.
	DefaultReportMaxAgeDays = 30

	// DefaultReportCleanupSchedule runs report cleanup once a day in serve mode.
	DefaultReportCleanupSchedule = "@daily"

	// ReportExtension is the extension of generated per-feature reports.
	ReportExtension = ".html"
)

// Feature analyzer thresholds.
const (
	// ComplexityThreshold is the score above which a feature is flagged as complex.
	ComplexityThreshold = 30

	// MaxBackgroundSteps is the largest background section that is not flagged.
	MaxBackgroundSteps = 5

	// MaxScenarioSteps is the largest scenario that is not flagged.
	MaxScenarioSteps = 10

	// ScenarioWeight is the complexity contributed by each scenario.
	ScenarioWeight = 2

	// ExamplesWeight is added to a scenario whose steps reference Examples:.
	ExamplesWeight = 5

	// MatchWeight is added to a scenario whose steps use match assertions.
	MatchWeight = 2
)

// Stream handling.
const (
	// MaxOutputLineSize is the largest single line read from the engine.
	MaxOutputLineSize = 1024 * 1024

	// StderrPrefix marks stderr lines inside a run's output sequence.
	StderrPrefix = "ERROR: "
)

// Lock handling.
const (
	// LockTimeout is the maximum duration to wait for acquiring a file lock.
	LockTimeout = 5 * time.Second

	// LockRetryInterval is the pause between lock attempts.
	LockRetryInterval = 50 * time.Millisecond
)

// Log file rotation settings.
const (
	// LogMaxSizeMB is the size at which the CLI log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the age after which rotated log files are removed.
	LogMaxAgeDays = 28

	// LogCompress controls gzip compression of rotated log files.
	LogCompress = true
)
