package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice (not a map) keeps lookup order stable for wrapped errors.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrDownload,
		info: ErrorInfo{
			Message: "Could not download the Karate engine.",
			Action:  "Check your network connection or place karate.jar in the resources directory manually.",
		},
	},
	{
		err: ErrFilesystem,
		info: ErrorInfo{
			Message: "Could not write to the workspace.",
			Action:  "Check permissions on the workspace and its resources directory.",
		},
	},
	{
		err: ErrAlreadyRunning,
		info: ErrorInfo{
			Message: "A test is already running.",
			Action:  "Wait for the current run to finish and try again.",
		},
	},
	{
		err: ErrSubprocess,
		info: ErrorInfo{
			Message: "The Karate engine exited with an error.",
			Action:  "Check that Java is installed and on PATH.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Another karate-runner process is holding the history file.",
			Action:  "Retry once the other process has finished.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrConfigInvalidArtifact,
		info: ErrorInfo{
			Message: "The artifact configuration is invalid.",
			Action:  "Run 'karate-runner config show' and fix the artifact section.",
		},
	},
	{
		err: ErrConfigInvalidRunner,
		info: ErrorInfo{
			Message: "The runner configuration is invalid.",
			Action:  "Run 'karate-runner config show' and fix the runner section.",
		},
	},
	{
		err: ErrConfigInvalidHistory,
		info: ErrorInfo{
			Message: "The history configuration is invalid.",
			Action:  "history.max_entries must be between 1 and 10000.",
		},
	},
	{
		err: ErrConfigInvalidReports,
		info: ErrorInfo{
			Message: "The reports configuration is invalid.",
			Action:  "Check reports.max_age_days and reports.cleanup_schedule.",
		},
	},
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Returns an ErrorInfo with the original error message if not found.
// NotFoundError carries its own user-ready text and is returned as is.
func getErrorInfo(err error) ErrorInfo {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return ErrorInfo{Message: nf.Error()}
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// Actionable returns a user-friendly error message along with a suggested
// action. The action is empty when there is nothing the user can do.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
