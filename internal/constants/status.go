package constants

// RunStatus is the outcome of a single test execution.
// Status values are lowercase for JSON compatibility with the host protocol.
type RunStatus string

// Run status values.
//
//	Idle → Running → {Passed, Failed, Error} → Idle
const (
	// RunStatusPassed indicates the engine exited with code 0.
	RunStatusPassed RunStatus = "passed"

	// RunStatusFailed indicates a nonzero exit or a broken output stream.
	RunStatusFailed RunStatus = "failed"

	// RunStatusError indicates the run could not be carried out at all.
	RunStatusError RunStatus = "error"

	// RunStatusUnknown is reported by output analysis when no summary was seen.
	RunStatusUnknown RunStatus = "unknown"
)

// String returns the string representation of the RunStatus.
func (s RunStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status is a final run outcome.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusPassed, RunStatusFailed, RunStatusError:
		return true
	case RunStatusUnknown:
		return false
	}
	return false
}

// EventType tags a RunEvent on the host protocol.
type EventType string

// Event types emitted on the line-delimited JSON stream.
const (
	// EventStart announces a run for a file.
	EventStart EventType = "start"

	// EventOutput carries one stdout line from the engine.
	EventOutput EventType = "output"

	// EventLog carries an informational message.
	EventLog EventType = "log"

	// EventError carries an error message or a stderr line.
	EventError EventType = "error"

	// EventEnd carries the final status of a run.
	EventEnd EventType = "test_end"

	// EventAnalysis answers an analyze command.
	EventAnalysis EventType = "analysis"

	// EventHistory answers a history command.
	EventHistory EventType = "history"

	// EventVersion answers a version command.
	EventVersion EventType = "version"
)

// String returns the string representation of the EventType.
func (e EventType) String() string {
	return string(e)
}
