package cli

import (
	"context"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mrz1836/karate-runner/internal/feature"
)

// scenarioLine is one scenario with its physical line in the file.
type scenarioLine struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// AddScenariosCommand adds the scenarios command to the root command.
func AddScenariosCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "scenarios <feature>",
		Short: "List the scenarios of a feature file",
		Long: `List scenario titles in file order with the line each one starts on.

Examples:
  karate-runner scenarios api/users.feature
  karate-runner scenarios api/users.feature -o json`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd.Context(), cmd.OutOrStdout(), global, args[0])
		},
	})
}

func runScenarios(ctx context.Context, w io.Writer, global *GlobalFlags, file string) error {
	a, err := newApp(ctx, global, GetLogger())
	if err != nil {
		return err
	}
	path := a.featurePath(file)

	names, err := feature.ScenarioNames(path)
	if err != nil {
		return err
	}

	rows := make([]scenarioLine, 0, len(names))
	for _, name := range names {
		line, _, err := feature.FindScenarioLine(path, name)
		if err != nil {
			return err
		}
		rows = append(rows, scenarioLine{Name: name, Line: line})
	}

	if global.Output == OutputJSON {
		return writeJSON(w, rows)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Line", "Scenario"})
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Line", Align: text.AlignRight}})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Line, r.Name})
	}
	t.Render()
	return nil
}
