package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/mrz1836/karate-runner/internal/domain"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
	"github.com/mrz1836/karate-runner/internal/logging"
)

// processResult is what a finished engine process produced.
type processResult struct {
	status domain.RunStatus
	output []string
}

// run launches the engine and waits for it. Only failures to start the
// process are returned as errors; anything after a successful start
// (nonzero exit, kill, broken stream) is a failed run.
func (e *Engine) run(ctx context.Context, artifact string, req domain.RunRequest) (*processResult, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	argv := BuildArgs(e.cfg, artifact, req.File, req.Scenario)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //#nosec G204 -- launcher comes from trusted configuration
	cmd.Dir = e.workspace
	cmd.Env = MergeEnv(os.Environ(), e.cfg.Env, req.Env)
	killProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", krerrors.ErrSubprocess, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", krerrors.ErrSubprocess, err)
	}

	e.logger.Debug().
		Strs("argv", argv).
		Str("dir", cmd.Dir).
		Strs("env_overrides", logging.RedactEnv(req.Env)).
		Msg("starting engine")
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: failed to start %s: %w", krerrors.ErrSubprocess, argv[0], err)
	}

	// Both pipes are drained fully before Wait closes them.
	output, streamErr := drain(stdoutPipe, stderrPipe, e.sink)
	waitErr := cmd.Wait()

	status := domain.RunStatusPassed
	switch {
	case streamErr != nil:
		e.logger.Warn().Err(streamErr).Msg("engine output stream failed")
		status = domain.RunStatusFailed
	case waitErr != nil:
		var exitErr *exec.ExitError
		if !stderrors.As(waitErr, &exitErr) {
			e.logger.Warn().Err(waitErr).Msg("engine wait failed")
		}
		status = domain.RunStatusFailed
	}

	return &processResult{status: status, output: output}, nil
}
