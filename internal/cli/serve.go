package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/karate-runner/internal/artifact"
	"github.com/mrz1836/karate-runner/internal/config"
	"github.com/mrz1836/karate-runner/internal/metrics"
	"github.com/mrz1836/karate-runner/internal/protocol"
	"github.com/mrz1836/karate-runner/internal/runner"
	"github.com/mrz1836/karate-runner/internal/scheduler"
	"github.com/mrz1836/karate-runner/internal/signal"
)

// ServeFlags holds flags for the serve command.
type ServeFlags struct {
	// MetricsAddr overrides metrics.addr.
	MetricsAddr string
}

// AddServeCommand adds the serve command to the root command.
func AddServeCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &ServeFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON command protocol on stdin and stdout",
		Long: `Read one JSON command per line from stdin and write events as JSON lines to stdout.

Commands:
  {"command":"run_test","file":"api/users.feature","scenario":"get user","env":{"karate.env":"qa"}}
  {"command":"analyze","file":"api/users.feature"}
  {"command":"history"}
  {"command":"version"}
  {"command":"cleanup"}

Runs execute in the background; a second run_test while one is in flight is
answered with an error event. Log lines share stdout as {"type":"log",...}.
When stdin closes, in-flight runs finish before the command exits.

Examples:
  karate-runner serve
  karate-runner serve --metrics-addr 127.0.0.1:9464`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), global, flags)
		},
	}
	cmd.Flags().StringVar(&flags.MetricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address (overrides metrics.addr)")
	root.AddCommand(cmd)
}

func runServe(ctx context.Context, stdin io.Reader, stdout io.Writer, global *GlobalFlags, flags *ServeFlags) error {
	emitter := protocol.NewEmitter(stdout)
	logger := InitServeLogger(global.Verbose, global.Quiet, emitter)
	setLogger(logger)

	recorder := metrics.NewRecorder()
	a, err := newApp(ctx, global, logger,
		withOverrides(&config.Config{Metrics: config.MetricsConfig{Addr: flags.MetricsAddr}}),
		withArtifactOptions(artifact.WithRecorder(recorder)),
	)
	if err != nil {
		return err
	}

	if err := a.history.EnsureReportsDir(); err != nil {
		logger.Warn().Err(err).Msg("reports directory unavailable")
	}

	if addr := a.cfg.Metrics.Addr; addr != "" {
		if _, _, err := metrics.Serve(ctx, addr, recorder, logger); err != nil {
			return err
		}
	}

	var sink protocol.Sink = emitter
	if url := a.cfg.Host.WebSocketURL; url != "" {
		relay, dialErr := protocol.DialWebSocket(ctx, url, logger)
		if dialErr != nil {
			logger.Warn().Err(dialErr).Msg("host relay unavailable, continuing without it")
		} else {
			defer func() { _ = relay.Close() }()
			sink = protocol.MultiSink{emitter, relay}
		}
	}

	cleaner := scheduler.New(a.history, a.cfg.Reports.CleanupSchedule, a.cfg.Reports.MaxAgeDays, logger)
	if err := cleaner.Start(ctx); err != nil {
		return err
	}
	defer cleaner.Stop()
	if next := cleaner.NextRun(); !next.IsZero() {
		logger.Info().Time("next_run", next).Msg("next report cleanup")
	}

	engine := a.engine(runner.WithSink(sink), runner.WithMetrics(recorder))
	server := protocol.NewServer(a.workspace, engine, a.history, a.artifacts, sink, logger)

	err = server.Serve(ctx, stdin)
	if err != nil && signal.WasInterrupted(ctx) {
		logger.Info().Msg("interrupted, shutting down")
		return nil
	}
	return err
}
