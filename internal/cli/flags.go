// Package cli provides the command-line interface for karate-runner.
package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/errors"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

//nolint:gochecknoglobals // fixed lookup table
var outputFormats = []string{OutputText, OutputJSON}

// GlobalFlags holds flags available to all commands. Each one can also be
// set through its KARATE_RUNNER_* environment variable; an explicit flag
// wins over the environment.
type GlobalFlags struct {
	Output    string
	Verbose   bool
	Quiet     bool
	Workspace string // Karate project root; empty means the current directory
}

func (f *GlobalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.Output, "output", "o", OutputText, "output format ("+strings.Join(outputFormats, "|")+")")
	pf.BoolVarP(&f.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&f.Quiet, "quiet", "q", false, "suppress non-essential output")
	pf.StringVarP(&f.Workspace, "workspace", "w", "", "Karate project directory (default: current directory)")
}

// resolve fills flags the user did not pass from KARATE_RUNNER_OUTPUT,
// KARATE_RUNNER_VERBOSE, KARATE_RUNNER_QUIET and KARATE_RUNNER_WORKSPACE,
// then validates the combination.
func (f *GlobalFlags) resolve(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	pf := cmd.Root().PersistentFlags()
	for _, name := range []string{"output", "verbose", "quiet", "workspace"} {
		if err := v.BindPFlag(name, pf.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}
	}
	f.Output = v.GetString("output")
	f.Verbose = v.GetBool("verbose")
	f.Quiet = v.GetBool("quiet")
	f.Workspace = v.GetString("workspace")

	if !slices.Contains(outputFormats, f.Output) {
		return fmt.Errorf("%w: %q must be one of %s", errors.ErrInvalidOutputFormat, f.Output, strings.Join(outputFormats, ", "))
	}
	if f.Verbose && f.Quiet {
		return errors.NewExitCode2Error(fmt.Errorf("%w: --verbose and --quiet cannot be combined", errors.ErrInvalidArgument))
	}
	return nil
}
