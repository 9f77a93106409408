package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/karate-runner/internal/domain"
	"github.com/mrz1836/karate-runner/internal/errors"
	"github.com/mrz1836/karate-runner/internal/feature"
)

// resultsReport combines both views of a run's text output.
type resultsReport struct {
	Analysis *domain.ResultAnalysis `json:"analysis"`
	Summary  *domain.OutputSummary  `json:"summary"`
}

// AddResultsCommand adds the results command to the root command.
func AddResultsCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "results <output-file|->",
		Short: "Classify the text output of a Karate run",
		Long: `Read captured Karate output from a file, or stdin when the argument is "-",
and report the run status, assertion lines, failed matches, response-time
notes and the scenario counts from the summary line.

Examples:
  karate-runner results target/karate.log
  java -jar resources/karate.jar api/users.feature | karate-runner results -`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(cmd.InOrStdin(), cmd.OutOrStdout(), global, args[0])
		},
	})
}

func runResults(stdin io.Reader, w io.Writer, global *GlobalFlags, source string) error {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(source) //#nosec G304 -- file named by the user
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("Output file", source)
		}
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", source)
	}

	output := string(data)
	report := resultsReport{
		Analysis: feature.AnalyzeTestResults(output),
		Summary:  feature.SummarizeOutput(output),
	}

	if global.Output == OutputJSON {
		return writeJSON(w, report)
	}
	printResults(w, report)
	return nil
}

func printResults(w io.Writer, r resultsReport) {
	s := newStyles()
	_, _ = fmt.Fprintln(w, s.field("status", s.status(r.Analysis.Status)))
	_, _ = fmt.Fprintln(w, s.field("scenarios", fmt.Sprintf("%d passed, %d failed of %d", r.Summary.Passed, r.Summary.Failed, r.Summary.Scenarios)))

	sections := []struct {
		title string
		lines []string
	}{
		{"Failed matches", r.Analysis.ErrorDetails},
		{"Assertions", r.Analysis.Assertions},
		{"Performance", r.Analysis.Performance},
	}
	for _, sec := range sections {
		if len(sec.lines) == 0 {
			continue
		}
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, s.header.Render(sec.title))
		for _, line := range sec.lines {
			_, _ = fmt.Fprintln(w, "  "+line)
		}
	}
}
