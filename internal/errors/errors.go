// Package errors provides centralized error handling for karate-runner.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization.
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrNotFound indicates a missing input file or execution target.
	ErrNotFound = errors.New("not found")

	// ErrDownload indicates the engine artifact could not be fetched.
	ErrDownload = errors.New("artifact download failed")

	// ErrFilesystem indicates an I/O failure while writing local state.
	ErrFilesystem = errors.New("filesystem operation failed")

	// ErrAlreadyRunning indicates a run was requested while another is in progress.
	ErrAlreadyRunning = errors.New("a test is already running")

	// ErrParse indicates malformed persisted JSON. It is always recovered
	// locally and never crosses the engine boundary.
	ErrParse = errors.New("malformed persisted data")

	// ErrSubprocess indicates the engine exited nonzero or its output stream broke.
	ErrSubprocess = errors.New("engine process failed")

	// ErrLockTimeout indicates a file lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidArtifact indicates an invalid artifact configuration value.
	ErrConfigInvalidArtifact = errors.New("invalid artifact configuration")

	// ErrConfigInvalidRunner indicates an invalid runner configuration value.
	ErrConfigInvalidRunner = errors.New("invalid runner configuration")

	// ErrConfigInvalidHistory indicates an invalid history configuration value.
	ErrConfigInvalidHistory = errors.New("invalid history configuration")

	// ErrConfigInvalidReports indicates an invalid reports configuration value.
	ErrConfigInvalidReports = errors.New("invalid reports configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrUnknownCommand indicates a protocol command that has no handler.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidCommand indicates a protocol line that is not a JSON command.
	ErrInvalidCommand = errors.New("invalid JSON command")

	// ErrRunFailed indicates a test run completed with failed or error status.
	// The CLI uses it to exit nonzero after the result has been printed.
	ErrRunFailed = errors.New("test run did not pass")
)

// NotFoundError describes a missing file. Its message is the host-visible
// text, for example "Test file not found: api/users.feature".
type NotFoundError struct {
	// What names the kind of file, for example "Test file".
	What string
	// Path is the path that was looked up.
	Path string
}

// NewNotFoundError returns a NotFoundError for the given kind and path.
func NewNotFoundError(what, path string) *NotFoundError {
	return &NotFoundError{What: what, Path: path}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage.
//
//	if err := m.download(ctx); err != nil {
//	    return errors.Wrap(err, "failed to ensure artifact")
//	}
//
// Only wrap errors at package boundaries to avoid overly nested messages.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to errors at package boundaries.
// It returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
