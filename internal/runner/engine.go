// Package runner executes Karate feature files one at a time.
//
// An Engine owns the single-run guard. Execute resolves the engine artifact,
// launches it against a feature file, streams every output line to an
// EventSink as it arrives and persists the outcome through a HistoryRecorder.
// Failures inside a run never escape as Go errors; they come back as a
// RunResult with status "error" plus an error event.
//
// IMPORTANT: This package may import internal/config, internal/constants,
// internal/domain and internal/errors. Concrete collaborators (artifact,
// history, protocol, metrics) are injected through the interfaces below.
package runner

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/karate-runner/internal/config"
	"github.com/mrz1836/karate-runner/internal/domain"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
)

// ArtifactResolver returns the local path of a ready-to-use engine artifact.
type ArtifactResolver interface {
	EnsureArtifact(ctx context.Context) (string, error)
}

// HistoryRecorder persists finished runs.
type HistoryRecorder interface {
	SaveRun(ctx context.Context, record *domain.RunRecord) error
}

// EventSink receives run events in emission order.
type EventSink interface {
	Emit(event domain.RunEvent)
}

// MetricsRecorder observes run lifecycle transitions.
type MetricsRecorder interface {
	RunStarted()
	RunFinished(status domain.RunStatus, elapsed time.Duration)
	RunRejected()
}

// Engine runs at most one feature file at a time.
type Engine struct {
	workspace string
	cfg       config.RunnerConfig
	artifacts ArtifactResolver
	history   HistoryRecorder
	sink      EventSink
	metrics   MetricsRecorder
	logger    zerolog.Logger

	running atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets where events are delivered. Without one, events are dropped.
func WithSink(s EventSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an idle Engine. Runs execute with workspace as their
// working directory.
func NewEngine(workspace string, cfg config.RunnerConfig, artifacts ArtifactResolver, history HistoryRecorder, opts ...Option) *Engine {
	e := &Engine{
		workspace: workspace,
		cfg:       cfg,
		artifacts: artifacts,
		history:   history,
		sink:      nopSink{},
		metrics:   nopMetrics{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("component", "runner").Logger()
	return e
}

// Running reports whether a run is in progress.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Execute runs one feature file and returns its result.
//
// A call made while another run is in progress returns an error result
// immediately and leaves the in-flight run untouched. The guard is released
// on every return path, including panics in collaborators.
//
// Canceling ctx kills the engine process; the run then finishes as failed.
func (e *Engine) Execute(ctx context.Context, req domain.RunRequest) *domain.RunResult {
	run, rejected := e.Reserve(req)
	if rejected != nil {
		return rejected
	}
	return run(ctx)
}

// Reserve takes the single-run guard for req without starting the run.
// Callers that launch runs asynchronously reserve first so that requests are
// admitted in the order they arrive.
//
// On success the returned function performs the run and releases the guard;
// it must be called exactly once. When another run holds the guard, Reserve
// emits the rejection and returns the error result instead.
func (e *Engine) Reserve(req domain.RunRequest) (func(context.Context) *domain.RunResult, *domain.RunResult) {
	if !e.running.CompareAndSwap(false, true) {
		e.metrics.RunRejected()
		e.logger.Warn().Str("file", req.File).Msg("run rejected, another run is in progress")
		return nil, e.fail(krerrors.ErrAlreadyRunning)
	}

	return func(ctx context.Context) *domain.RunResult {
		defer e.running.Store(false)

		e.metrics.RunStarted()
		started := time.Now()

		result := e.execute(ctx, req)

		e.metrics.RunFinished(result.Status, time.Since(started))
		return result
	}, nil
}

// execute is the guarded body of Execute.
func (e *Engine) execute(ctx context.Context, req domain.RunRequest) (result *domain.RunResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Str("file", req.File).Msg("run panicked")
			result = e.fail(krerrors.ErrSubprocess)
		}
	}()

	if _, err := os.Stat(e.resolve(req.File)); err != nil {
		if os.IsNotExist(err) {
			return e.fail(krerrors.NewNotFoundError("Test file", req.File))
		}
		return e.fail(krerrors.Wrapf(err, "failed to stat %s", req.File))
	}

	e.sink.Emit(domain.StartEvent(req.File))
	log := e.logger.With().Str("file", req.File).Str("scenario", req.Scenario).Logger()

	jar, err := e.artifacts.EnsureArtifact(ctx)
	if err != nil {
		return e.fail(err)
	}

	started := time.Now()
	proc, err := e.run(ctx, jar, req)
	if err != nil {
		return e.fail(err)
	}
	elapsed := time.Since(started)

	record := &domain.RunRecord{
		File:       req.File,
		Scenario:   domain.StringPtr(req.Scenario),
		Status:     proc.status,
		Output:     proc.output,
		DurationMs: elapsed.Milliseconds(),
	}
	// The record is saved even when the caller gave up on the run.
	if err := e.history.SaveRun(context.WithoutCancel(ctx), record); err != nil {
		return e.fail(krerrors.Wrap(err, "failed to save run history"))
	}

	e.sink.Emit(domain.EndEvent(proc.status))
	log.Info().
		Str("status", proc.status.String()).
		Int("lines", len(proc.output)).
		Dur("elapsed", elapsed).
		Msg("run finished")

	return &domain.RunResult{
		ID:       record.ID,
		File:     record.File,
		Scenario: record.Scenario,
		Status:   record.Status,
		Output:   record.Output,
	}
}

// fail reports err as an error event and builds the matching result.
func (e *Engine) fail(err error) *domain.RunResult {
	msg := err.Error()
	e.sink.Emit(domain.ErrorEvent(msg))
	e.logger.Debug().Err(err).Msg("run failed")
	return domain.ErrorResult(msg)
}

// resolve makes a workspace-relative path absolute.
func (e *Engine) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(e.workspace, file)
}

type nopSink struct{}

func (nopSink) Emit(domain.RunEvent) {}

type nopMetrics struct{}

func (nopMetrics) RunStarted()                                 {}
func (nopMetrics) RunFinished(domain.RunStatus, time.Duration) {}
func (nopMetrics) RunRejected()                                {}
