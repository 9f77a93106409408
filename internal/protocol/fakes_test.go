package protocol

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mrz1836/karate-runner/internal/domain"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
)

type recordingSink struct {
	mu     sync.Mutex
	events []domain.RunEvent
}

func (s *recordingSink) Emit(e domain.RunEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) all() []domain.RunEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RunEvent(nil), s.events...)
}

// fakeExecutor blocks each run until release is closed and mirrors the
// engine's single-run guard.
type fakeExecutor struct {
	sink    *recordingSink
	release chan struct{}
	started chan struct{}
	running atomic.Bool

	mu       sync.Mutex
	requests []domain.RunRequest
}

func newFakeExecutor(sink *recordingSink) *fakeExecutor {
	return &fakeExecutor{
		sink:    sink,
		release: make(chan struct{}),
		started: make(chan struct{}, 10),
	}
}

func (f *fakeExecutor) Reserve(req domain.RunRequest) (func(context.Context) *domain.RunResult, *domain.RunResult) {
	if !f.running.CompareAndSwap(false, true) {
		f.sink.Emit(domain.ErrorEvent(krerrors.ErrAlreadyRunning.Error()))
		return nil, domain.ErrorResult(krerrors.ErrAlreadyRunning.Error())
	}

	return func(context.Context) *domain.RunResult {
		defer f.running.Store(false)

		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		f.sink.Emit(domain.StartEvent(req.File))
		f.started <- struct{}{}
		<-f.release
		f.sink.Emit(domain.EndEvent(domain.RunStatusPassed))
		return &domain.RunResult{File: req.File, Status: domain.RunStatusPassed}
	}, nil
}

func (f *fakeExecutor) Running() bool { return f.running.Load() }

func (f *fakeExecutor) seen() []domain.RunRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.RunRequest(nil), f.requests...)
}

type fakeHistory struct {
	records []domain.RunRecord
}

func (f *fakeHistory) History() []domain.RunRecord { return f.records }

type fakeArtifacts struct {
	status  domain.Artifact
	cleaned int
}

func (f *fakeArtifacts) Status() domain.Artifact { return f.status }

func (f *fakeArtifacts) Cleanup() { f.cleaned++ }
