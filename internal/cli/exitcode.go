package cli

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/mrz1836/karate-runner/internal/errors"
)

// Exit codes for the CLI.
const (
	ExitSuccess = 0
	// ExitError covers runtime failures, including a run that did not pass.
	ExitError = 1
	// ExitInvalidInput covers bad flags, arguments and configuration input.
	ExitInvalidInput = 2
)

// ExitCodeForError maps err to the process exit code.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.IsExitCode2Error(err),
		stderrors.Is(err, errors.ErrInvalidOutputFormat),
		stderrors.Is(err, errors.ErrInvalidArgument):
		return ExitInvalidInput
	default:
		return ExitError
	}
}

// usageArgs marks positional argument errors from validate as invalid input.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.NewExitCode2Error(err)
		}
		return nil
	}
}

// usageFlagError marks flag parsing errors as invalid input.
func usageFlagError(_ *cobra.Command, err error) error {
	return errors.NewExitCode2Error(err)
}
