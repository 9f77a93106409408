package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mrz1836/karate-runner/internal/domain"
)

type fakeArtifacts struct {
	path  string
	err   error
	panic bool
	calls int
}

func (f *fakeArtifacts) EnsureArtifact(context.Context) (string, error) {
	f.calls++
	if f.panic {
		panic("resolver exploded")
	}
	return f.path, f.err
}

type fakeHistory struct {
	mu      sync.Mutex
	records []domain.RunRecord
	err     error
}

func (f *fakeHistory) SaveRun(_ context.Context, r *domain.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	r.ID = fmt.Sprintf("run-%d", len(f.records)+1)
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeHistory) all() []domain.RunRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.RunRecord(nil), f.records...)
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.RunEvent
}

func (s *recordingSink) Emit(e domain.RunEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) types() []domain.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]domain.EventType, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.Type)
	}
	return types
}

type countingMetrics struct {
	mu                          sync.Mutex
	started, finished, rejected int
	statuses                    []domain.RunStatus
}

func (m *countingMetrics) RunStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *countingMetrics) RunRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected++
}

func (m *countingMetrics) RunFinished(s domain.RunStatus, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished++
	m.statuses = append(m.statuses, s)
}
