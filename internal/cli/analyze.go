package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/domain"
	"github.com/mrz1836/karate-runner/internal/feature"
)

// AddAnalyzeCommand adds the analyze command to the root command.
func AddAnalyzeCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "analyze <feature>",
		Short: "Analyze the structure of a feature file",
		Long: `Parse a feature file and report its scenarios, step counts, complexity score,
"* def" variables and improvement suggestions.

Examples:
  karate-runner analyze api/users.feature
  karate-runner analyze api/users.feature -o json`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), global, args[0])
		},
	})
}

func runAnalyze(ctx context.Context, w io.Writer, global *GlobalFlags, file string) error {
	a, err := newApp(ctx, global, GetLogger())
	if err != nil {
		return err
	}

	analysis, err := feature.Analyze(a.featurePath(file))
	if err != nil {
		return err
	}
	analysis.File = file

	if global.Output == OutputJSON {
		return writeJSON(w, analysis)
	}
	printAnalysis(w, analysis, global.Quiet)
	return nil
}

func printAnalysis(w io.Writer, analysis *domain.FeatureAnalysis, quiet bool) {
	s := newStyles()
	doc := analysis.Document

	if !quiet {
		title := doc.Feature
		if title == "" {
			title = analysis.File
		}
		_, _ = fmt.Fprintln(w, s.header.Render("Feature: "+title))
		_, _ = fmt.Fprintln(w, s.field("file", analysis.File))
		_, _ = fmt.Fprintln(w, s.field("background steps", strconv.Itoa(len(doc.Background))))
		_, _ = fmt.Fprintln(w, s.field("total steps", strconv.Itoa(doc.StepsCount)))
	}

	complexity := strconv.Itoa(doc.Complexity)
	if doc.Complexity > constants.ComplexityThreshold {
		complexity = s.warning.Render(complexity + " (high)")
	}
	_, _ = fmt.Fprintln(w, s.field("complexity", complexity))
	_, _ = fmt.Fprintln(w)

	scenarios := newTable(w)
	scenarios.SetTitle("Scenarios")
	scenarios.AppendHeader(table.Row{"#", "Name", "Steps", "Position"})
	scenarios.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Steps", Align: text.AlignRight},
		{Name: "Position", Align: text.AlignRight},
	})
	for i, sc := range doc.Scenarios {
		scenarios.AppendRow(table.Row{i + 1, sc.Name, len(sc.Steps), sc.LineNumber})
	}
	scenarios.Render()

	if len(analysis.Variables) > 0 {
		_, _ = fmt.Fprintln(w)
		vars := newTable(w)
		vars.SetTitle("Variables")
		vars.AppendHeader(table.Row{"Name", "Value"})
		for _, v := range analysis.Variables {
			vars.AppendRow(table.Row{v.Name, truncate(v.Value, 60)})
		}
		vars.Render()
	}

	_, _ = fmt.Fprintln(w)
	if len(analysis.Suggestions) == 0 {
		_, _ = fmt.Fprintln(w, s.success.Render("No suggestions"))
		return
	}
	_, _ = fmt.Fprintln(w, s.header.Render("Suggestions"))
	for _, suggestion := range analysis.Suggestions {
		_, _ = fmt.Fprintln(w, s.warning.Render("• "+suggestion))
	}
}
