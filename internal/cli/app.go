package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrz1836/karate-runner/internal/artifact"
	"github.com/mrz1836/karate-runner/internal/config"
	"github.com/mrz1836/karate-runner/internal/errors"
	"github.com/mrz1836/karate-runner/internal/history"
	"github.com/mrz1836/karate-runner/internal/runner"
)

// app holds the components a command works with, built from the global
// flags and the layered configuration of one workspace.
type app struct {
	workspace string
	cfg       *config.Config
	logger    zerolog.Logger
	artifacts *artifact.Manager
	history   *history.Store
}

// appOption tweaks component construction, for example to attach metrics.
type appOption func(*appDeps)

type appDeps struct {
	overrides       *config.Config
	artifactOptions []artifact.Option
}

func withOverrides(o *config.Config) appOption {
	return func(d *appDeps) { d.overrides = o }
}

func withArtifactOptions(opts ...artifact.Option) appOption {
	return func(d *appDeps) { d.artifactOptions = append(d.artifactOptions, opts...) }
}

// newApp resolves the workspace, loads its configuration and builds the
// artifact manager and history store.
func newApp(ctx context.Context, flags *GlobalFlags, logger zerolog.Logger, opts ...appOption) (*app, error) {
	deps := &appDeps{}
	for _, opt := range opts {
		opt(deps)
	}

	workspace, err := resolveWorkspace(flags.Workspace)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithOverrides(logger.WithContext(ctx), workspace, deps.overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	artifactOpts := append([]artifact.Option{artifact.WithLogger(logger)}, deps.artifactOptions...)

	return &app{
		workspace: workspace,
		cfg:       cfg,
		logger:    logger,
		artifacts: artifact.NewManager(workspace, cfg.Artifact, artifactOpts...),
		history:   history.NewStore(workspace, cfg.History, cfg.Reports, history.WithLogger(logger)),
	}, nil
}

// engine builds a run engine over the app's components.
func (a *app) engine(opts ...runner.Option) *runner.Engine {
	opts = append([]runner.Option{runner.WithLogger(a.logger)}, opts...)
	return runner.NewEngine(a.workspace, a.cfg.Runner, a.artifacts, a.history, opts...)
}

// featurePath resolves a feature argument the way the engine does.
func (a *app) featurePath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(a.workspace, file)
}

// resolveWorkspace returns an absolute, existing workspace directory.
func resolveWorkspace(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", errors.NewExitCode2Error(fmt.Errorf("%w: workspace %s is not a directory", errors.ErrInvalidArgument, dir))
	}
	return abs, nil
}
