// Package testutil provides shared helpers for karate-runner tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors used to simulate failures in tests.
var (
	// ErrMockDiskFull simulates a write failing on a full disk.
	ErrMockDiskFull = errors.New("disk full")

	// ErrMockPipeBroken simulates a broken subprocess pipe.
	ErrMockPipeBroken = errors.New("pipe broke")

	// ErrMockCleanup simulates a report cleanup failure.
	ErrMockCleanup = errors.New("cleanup failed")

	// ErrMockNetwork indicates a mock network error occurred.
	ErrMockNetwork = errors.New("network error")
)
