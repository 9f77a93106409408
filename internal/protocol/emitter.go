// Package protocol speaks the line-delimited JSON protocol between
// karate-runner and a host application such as an editor extension.
//
// Events flow out as one JSON object per line:
//
//	{"type":"start","file":"api/users.feature"}
//	{"type":"output","line":"scenarios:  1 | passed:  1 | failed:  0"}
//	{"type":"test_end","status":"passed"}
//
// Commands flow in the same way on stdin; see Server.
package protocol

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/mrz1836/karate-runner/internal/domain"
)

// Sink receives events. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(event domain.RunEvent)
}

// Emitter writes events as JSON lines to w. It is also an io.Writer so a
// zerolog logger can share the stream; every Write and Emit lands as one
// whole line.
type Emitter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewEmitter creates an Emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit writes event as a single JSON line. Write errors are dropped; a host
// that closed its end of the stream has nobody left to tell.
func (e *Emitter) Emit(event domain.RunEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		data, _ = json.Marshal(domain.ErrorEvent("failed to encode event: " + err.Error()))
	}
	data = append(data, '\n')

	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = e.w.Write(data)
}

// Write implements io.Writer for pre-encoded lines such as zerolog output.
func (e *Emitter) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.w.Write(p)
}

// MultiSink fans every event out to each of its sinks in order.
type MultiSink []Sink

// Emit implements Sink.
func (m MultiSink) Emit(event domain.RunEvent) {
	for _, s := range m {
		if s != nil {
			s.Emit(event)
		}
	}
}

var (
	_ Sink      = (*Emitter)(nil)
	_ io.Writer = (*Emitter)(nil)
	_ Sink      = MultiSink(nil)
)
