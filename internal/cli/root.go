package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/karate-runner/internal/errors"
	"github.com/mrz1836/karate-runner/internal/signal"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger is set in PersistentPreRunE and read through GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger initialized by the root command. Before
// PersistentPreRunE has run it returns a logger that discards everything.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func setLogger(l zerolog.Logger) {
	globalLoggerMu.Lock()
	globalLogger = l
	globalLoggerMu.Unlock()
}

// newRootCmd creates the root command.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "karate-runner",
		Short: "Run and analyze Karate API tests",
		Long: `karate-runner manages the Karate engine for a project, runs feature files
with live output streaming and keeps a history of past runs.

Features:
  • Downloads and versions the Karate engine on demand
  • Streams run output as line-delimited JSON events
  • Analyzes feature files for complexity and missing assertions
  • Archives and prunes HTML reports
  • Serves a JSON command protocol for editor integrations`,
		Version: formatVersion(info),
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.resolve(v, cmd); err != nil {
				return err
			}

			setLogger(InitLogger(flags.Verbose, flags.Quiet))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.register(cmd)
	cmd.SetFlagErrorFunc(usageFlagError)

	AddRunCommand(cmd, flags)
	AddAnalyzeCommand(cmd, flags)
	AddScenariosCommand(cmd, flags)
	AddResultsCommand(cmd, flags)
	AddHistoryCommand(cmd, flags)
	AddArtifactCommand(cmd, flags)
	AddReportsCommand(cmd, flags)
	AddServeCommand(cmd, flags)
	AddConfigCommand(cmd, flags)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context, which kills a running engine process. Errors other than a
// failed test run are printed to stderr with a suggested action.
func Execute(ctx context.Context, info BuildInfo) error {
	h := signal.NewHandler(ctx)
	defer h.Stop()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(h.Context())
	if err != nil && !stderrors.Is(err, errors.ErrRunFailed) {
		printError(cmd.ErrOrStderr(), err)
	}
	return err
}

func printError(w io.Writer, err error) {
	styles := newStyles()
	msg, action := errors.Actionable(err)
	_, _ = fmt.Fprintln(w, styles.errorText.Render("Error: "+msg))
	if msg != err.Error() {
		_, _ = fmt.Fprintln(w, styles.dim.Render("  "+err.Error()))
	}
	if action != "" {
		_, _ = fmt.Fprintln(w, styles.dim.Render(action))
	}
}
