package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/domain"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
	"github.com/mrz1836/karate-runner/internal/feature"
)

// Command names accepted on stdin.
const (
	CommandRunTest = "run_test"
	CommandAnalyze = "analyze"
	CommandHistory = "history"
	CommandVersion = "version"
	CommandCleanup = "cleanup"
)

// Command is one line of host input.
//
//	{"command":"run_test","file":"api/users.feature","scenario":"get user","env":{"BASE_URL":"http://localhost:8080"}}
type Command struct {
	Command  string            `json:"command"`
	File     string            `json:"file,omitempty"`
	Scenario string            `json:"scenario,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
}

// Executor runs feature files under a single-run guard.
//
// Reserve takes the guard synchronously and hands back the run to perform;
// a rejected request yields the error result instead.
type Executor interface {
	Reserve(req domain.RunRequest) (func(context.Context) *domain.RunResult, *domain.RunResult)
	Running() bool
}

// HistoryReader lists past runs.
type HistoryReader interface {
	History() []domain.RunRecord
}

// ArtifactController reports on and removes the engine artifact.
type ArtifactController interface {
	Status() domain.Artifact
	Cleanup()
}

// Server reads commands from the host and answers through a Sink.
type Server struct {
	workspace string
	engine    Executor
	history   HistoryReader
	artifacts ArtifactController
	sink      Sink
	logger    zerolog.Logger

	runs sync.WaitGroup
}

// NewServer creates a Server. Relative file paths in commands resolve
// against workspace.
func NewServer(workspace string, engine Executor, history HistoryReader, artifacts ArtifactController, sink Sink, logger zerolog.Logger) *Server {
	return &Server{
		workspace: workspace,
		engine:    engine,
		history:   history,
		artifacts: artifacts,
		sink:      sink,
		logger:    logger.With().Str("component", "protocol").Logger(),
	}
}

// Serve handles commands from r until EOF or ctx is canceled. run_test
// commands execute in the background so a second run_test can be rejected
// while the first is in flight. On EOF Serve waits for in-flight runs
// before returning.
func (s *Server) Serve(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), constants.MaxOutputLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	s.logger.Info().Str("workspace", s.workspace).Msg("serving commands")

	for {
		select {
		case <-ctx.Done():
			s.runs.Wait()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				s.runs.Wait()
				s.logger.Info().Msg("input closed, shutting down")
				if err := <-scanErr; err != nil {
					return fmt.Errorf("read commands: %w", err)
				}
				return nil
			}
			s.Handle(ctx, line)
		}
	}
}

// Handle processes one input line.
func (s *Server) Handle(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	var cmd Command
	if err := json.Unmarshal([]byte(line), &cmd); err != nil {
		s.logger.Debug().Err(err).Msg("rejected command line")
		s.sink.Emit(domain.ErrorEvent("Invalid JSON command"))
		return
	}

	s.logger.Debug().Str("command", cmd.Command).Str("file", cmd.File).Msg("command received")

	switch cmd.Command {
	case CommandRunTest:
		s.runTest(ctx, cmd)
	case CommandAnalyze:
		s.analyze(cmd)
	case CommandHistory:
		s.sink.Emit(domain.RunEvent{Type: domain.EventHistory, Data: s.history.History()})
	case CommandVersion:
		s.sink.Emit(domain.RunEvent{Type: domain.EventVersion, Data: s.artifacts.Status()})
	case CommandCleanup:
		s.cleanup()
	default:
		s.sink.Emit(domain.ErrorEvent("Unknown command: " + cmd.Command))
	}
}

// Wait blocks until every run started by Handle has finished.
func (s *Server) Wait() {
	s.runs.Wait()
}

func (s *Server) runTest(ctx context.Context, cmd Command) {
	if cmd.File == "" {
		s.sink.Emit(domain.ErrorEvent(fmt.Sprintf("%s: run_test requires a file", krerrors.ErrInvalidArgument)))
		return
	}

	req := domain.RunRequest{File: cmd.File, Scenario: cmd.Scenario, Env: cmd.Env}
	run, rejected := s.engine.Reserve(req)
	if rejected != nil {
		return
	}

	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		result := run(ctx)
		s.logger.Debug().Str("file", req.File).Str("status", result.Status.String()).Msg("run_test finished")
	}()
}

func (s *Server) analyze(cmd Command) {
	if cmd.File == "" {
		s.sink.Emit(domain.ErrorEvent(fmt.Sprintf("%s: analyze requires a file", krerrors.ErrInvalidArgument)))
		return
	}

	path := cmd.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.workspace, path)
	}

	analysis, err := feature.Analyze(path)
	if err != nil {
		s.sink.Emit(domain.ErrorEvent(err.Error()))
		return
	}
	analysis.File = cmd.File
	s.sink.Emit(domain.RunEvent{Type: domain.EventAnalysis, File: cmd.File, Data: analysis})
}

func (s *Server) cleanup() {
	if s.engine.Running() {
		s.sink.Emit(domain.ErrorEvent(krerrors.ErrAlreadyRunning.Error()))
		return
	}
	s.artifacts.Cleanup()
	s.sink.Emit(domain.LogEvent("Artifact cleaned up"))
}
