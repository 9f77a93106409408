package constants

// Directory and file names used by karate-runner.
const (
	// HomeDir is the hidden directory in the user's home holding global
	// configuration and logs.
	HomeDir = ".karate-runner"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the name of the global CLI log file.
	CLILogFileName = "karate-runner.log"

	// ConfigFileName is the name of both the global and project config files.
	ConfigFileName = "config.yaml"

	// ProjectConfigDir is the project-level config directory relative to the workspace.
	ProjectConfigDir = ".karate-runner"
)

// Workspace-relative locations mirroring the Karate project conventions.
const (
	// ArtifactDir holds the downloaded engine and its version metadata.
	ArtifactDir = "resources"

	// ArtifactFileName is the local name of the downloaded engine.
	ArtifactFileName = "karate.jar"

	// VersionFileName records the version of the downloaded engine.
	VersionFileName = "version.json"

	// HistoryFileName is the JSON array of past run records.
	HistoryFileName = ".karate-history.json"

	// ReportsDir is where the engine writes per-feature HTML reports.
	ReportsDir = "target/karate-reports"

	// ArchivesDir holds per-run copies of the reports directory.
	ArchivesDir = "karate-archives"

	// ArchiveReportsSubdir is the directory inside a run archive that holds the copy.
	ArchiveReportsSubdir = "reports"
)

// Permissions.
const (
	// DirPerm is used for every directory karate-runner creates.
	DirPerm = 0o750

	// FilePerm is used for state files.
	FilePerm = 0o600

	// ExecPerm is used for the downloaded engine artifact.
	ExecPerm = 0o755
)
