// Package domain provides shared domain types for karate-runner.
package domain

import "github.com/mrz1836/karate-runner/internal/constants"

// Re-export RunStatus and EventType from the constants package so consumers
// can import domain types and status values together.
type (
	// RunStatus is the outcome of a single test execution.
	RunStatus = constants.RunStatus

	// EventType tags a RunEvent on the host protocol.
	EventType = constants.EventType
)

// Re-export RunStatus constants for convenience.
const (
	RunStatusPassed  = constants.RunStatusPassed
	RunStatusFailed  = constants.RunStatusFailed
	RunStatusError   = constants.RunStatusError
	RunStatusUnknown = constants.RunStatusUnknown
)

// Re-export EventType constants for convenience.
const (
	EventStart    = constants.EventStart
	EventOutput   = constants.EventOutput
	EventLog      = constants.EventLog
	EventError    = constants.EventError
	EventEnd      = constants.EventEnd
	EventAnalysis = constants.EventAnalysis
	EventHistory  = constants.EventHistory
	EventVersion  = constants.EventVersion
)
