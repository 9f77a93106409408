package domain

import (
	"time"
)

// RunRequest asks the engine to execute one feature file.
type RunRequest struct {
	// File is the feature file to execute, absolute or workspace-relative.
	File string `json:"file"`
	// Scenario optionally restricts the run to scenarios with this name.
	Scenario string `json:"scenario,omitempty"`
	// Env overrides process environment variables for the engine.
	Env map[string]string `json:"env,omitempty"`
}

// RunRecord is the persisted outcome of one execution.
//
// Example JSON representation:
//
//	{
//	    "id": "3f0c...",
//	    "file": "api/users.feature",
//	    "scenario": null,
//	    "status": "passed",
//	    "output": ["scenarios: 1 | passed: 1 | failed: 0"],
//	    "duration_ms": 5123,
//	    "timestamp": "2026-10-19T10:00:00.123456Z"
//	}
type RunRecord struct {
	ID       string    `json:"id,omitempty"`
	File     string    `json:"file"`
	Scenario *string   `json:"scenario"`
	Status   RunStatus `json:"status"`
	Output   []string  `json:"output"`
	// DurationMs is the wall time of the engine process.
	DurationMs int64 `json:"duration_ms,omitempty"`
	// Timestamp is assigned by the history store at persistence time.
	Timestamp time.Time `json:"timestamp"`
}

// RunResult is returned to the caller of an execution.
// Error results carry only Status and Message.
type RunResult struct {
	ID       string    `json:"id,omitempty"`
	File     string    `json:"file,omitempty"`
	Scenario *string   `json:"scenario,omitempty"`
	Status   RunStatus `json:"status"`
	Output   []string  `json:"output,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// ErrorResult builds the structured result for a run that could not complete.
func ErrorResult(message string) *RunResult {
	return &RunResult{Status: RunStatusError, Message: message}
}

// RunEvent is an ephemeral notification streamed to the host.
// Only the fields belonging to the event's type are set.
type RunEvent struct {
	Type    EventType `json:"type"`
	File    string    `json:"file,omitempty"`
	Line    string    `json:"line,omitempty"`
	Message string    `json:"message,omitempty"`
	Status  RunStatus `json:"status,omitempty"`
	// Data carries the payload of protocol replies (analysis, history, version).
	Data any `json:"data,omitempty"`
}

// StartEvent returns a start event for file.
func StartEvent(file string) RunEvent {
	return RunEvent{Type: EventStart, File: file}
}

// OutputEvent returns an output event for one stdout line.
func OutputEvent(line string) RunEvent {
	return RunEvent{Type: EventOutput, Line: line}
}

// LogEvent returns a log event.
func LogEvent(message string) RunEvent {
	return RunEvent{Type: EventLog, Message: message}
}

// ErrorEvent returns an error event.
func ErrorEvent(message string) RunEvent {
	return RunEvent{Type: EventError, Message: message}
}

// EndEvent returns the final event of a run.
func EndEvent(status RunStatus) RunEvent {
	return RunEvent{Type: EventEnd, Status: status}
}

// StringPtr returns a pointer to s, or nil when s is empty.
// Used for the optional scenario filter, which serializes as null when unset.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
