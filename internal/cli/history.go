package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mrz1836/karate-runner/internal/domain"
	"github.com/mrz1836/karate-runner/internal/errors"
)

// defaultHistoryLimit is how many runs `history` shows without --limit.
const defaultHistoryLimit = 20

// HistoryFlags holds flags for the history command.
type HistoryFlags struct {
	// Limit caps the number of runs shown. Zero shows all.
	Limit int
}

// AddHistoryCommand adds the history command to the root command.
func AddHistoryCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &HistoryFlags{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd.Context(), cmd.OutOrStdout(), global, flags)
		},
	}
	cmd.Flags().IntVarP(&flags.Limit, "limit", "n", defaultHistoryLimit, "number of runs to show (0 for all)")
	root.AddCommand(cmd)
}

func runHistory(ctx context.Context, w io.Writer, global *GlobalFlags, flags *HistoryFlags) error {
	if flags.Limit < 0 {
		return errors.NewExitCode2Error(fmt.Errorf("%w: --limit must not be negative", errors.ErrInvalidArgument))
	}

	a, err := newApp(ctx, global, GetLogger())
	if err != nil {
		return err
	}

	runs := a.history.Latest(flags.Limit)

	if global.Output == OutputJSON {
		return writeJSON(w, runs)
	}
	printHistory(w, runs)
	return nil
}

func printHistory(w io.Writer, runs []domain.RunRecord) {
	s := newStyles()
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, s.dim.Render("No runs recorded yet"))
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"When", "Status", "File", "Scenario", "Duration", "ID"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "File", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
	})

	counts := map[domain.RunStatus]int{}
	for _, r := range runs {
		counts[r.Status]++
		scenario := ""
		if r.Scenario != nil {
			scenario = *r.Scenario
		}
		t.AppendRow(table.Row{
			r.Timestamp.Local().Format(time.DateTime),
			s.status(r.Status),
			r.File,
			truncate(scenario, 30),
			(time.Duration(r.DurationMs) * time.Millisecond).String(),
			truncate(r.ID, 8),
		})
	}
	t.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d passed", counts[domain.RunStatusPassed]),
		fmt.Sprintf("%d failed", counts[domain.RunStatusFailed]),
	})
	t.Render()
}
