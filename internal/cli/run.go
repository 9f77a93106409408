package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/karate-runner/internal/domain"
	"github.com/mrz1836/karate-runner/internal/errors"
	"github.com/mrz1836/karate-runner/internal/feature"
	"github.com/mrz1836/karate-runner/internal/protocol"
	"github.com/mrz1836/karate-runner/internal/runner"
)

// RunFlags holds flags for the run command.
type RunFlags struct {
	// Scenario restricts the run to scenarios with this name.
	Scenario string
	// Env holds KEY=VALUE overrides for the engine process.
	Env []string
}

// AddRunCommand adds the run command to the root command.
func AddRunCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &RunFlags{}
	cmd := &cobra.Command{
		Use:   "run <feature>",
		Short: "Run a feature file",
		Long: `Run a feature file with the Karate engine, downloading the engine first if needed.

Run events are streamed to stdout as line-delimited JSON:
  {"type":"start","file":"api/users.feature"}
  {"type":"output","line":"..."}
  {"type":"test_end","status":"passed"}

The run is recorded in the workspace history. The command exits 1 when the
run fails or cannot be carried out.

Examples:
  karate-runner run api/users.feature
  karate-runner run api/users.feature --scenario "get user"
  karate-runner run api/users.feature --env karate.env=qa --env BASE_URL=http://localhost:8080`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), cmd.OutOrStdout(), global, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.Scenario, "scenario", "s", "", "only run scenarios with this name")
	cmd.Flags().StringArrayVarP(&flags.Env, "env", "e", nil, "environment override KEY=VALUE (repeatable)")

	root.AddCommand(cmd)
}

func runRun(ctx context.Context, w io.Writer, global *GlobalFlags, flags *RunFlags, file string) error {
	env, err := parseEnvFlags(flags.Env)
	if err != nil {
		return err
	}

	logger := GetLogger()
	a, err := newApp(ctx, global, logger)
	if err != nil {
		return err
	}

	var sink runner.EventSink = protocol.NewEmitter(w)
	if url := a.cfg.Host.WebSocketURL; url != "" {
		relay, dialErr := protocol.DialWebSocket(ctx, url, logger)
		if dialErr != nil {
			logger.Warn().Err(dialErr).Msg("host relay unavailable, continuing without it")
		} else {
			defer func() { _ = relay.Close() }()
			sink = protocol.MultiSink{sink, relay}
		}
	}

	result := a.engine(runner.WithSink(sink)).Execute(ctx, domain.RunRequest{
		File:     file,
		Scenario: flags.Scenario,
		Env:      env,
	})

	if global.Output == OutputJSON {
		if err := writeJSON(w, result); err != nil {
			return err
		}
	} else {
		printRunSummary(w, result)
	}

	if result.Status != domain.RunStatusPassed {
		return fmt.Errorf("%w: %s", errors.ErrRunFailed, result.Status)
	}
	return nil
}

// parseEnvFlags turns KEY=VALUE flags into a map. Values may contain '='.
func parseEnvFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, errors.NewExitCode2Error(fmt.Errorf("%w: --env %q must be KEY=VALUE", errors.ErrInvalidArgument, pair))
		}
		env[key] = value
	}
	return env, nil
}

// printRunSummary prints a styled one-block summary after the event stream.
func printRunSummary(w io.Writer, result *domain.RunResult) {
	s := newStyles()
	_, _ = fmt.Fprintln(w)

	if result.Status == domain.RunStatusError {
		_, _ = fmt.Fprintf(w, "%s %s\n", s.status(result.Status), s.errorText.Render(result.Message))
		return
	}

	summary := feature.SummarizeOutput(strings.Join(result.Output, "\n"))
	_, _ = fmt.Fprintf(w, "%s %s\n", s.status(result.Status), result.File)
	_, _ = fmt.Fprintln(w, s.field("scenarios", fmt.Sprintf("%d passed, %d failed of %d", summary.Passed, summary.Failed, summary.Scenarios)))
	for _, line := range summary.Errors {
		_, _ = fmt.Fprintln(w, s.errorText.Render("  "+line))
	}
	if result.ID != "" {
		_, _ = fmt.Fprintln(w, s.dim.Render("run "+result.ID))
	}
}
