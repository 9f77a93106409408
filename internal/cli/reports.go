package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/karate-runner/internal/errors"
)

// AddReportsCommand adds the reports command group to the root command.
func AddReportsCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Locate, archive and prune HTML reports",
		Long: `Work with the per-feature HTML reports the Karate engine writes.

Examples:
  karate-runner reports path api/users.feature
  karate-runner reports archive
  karate-runner reports cleanup --max-age-days 7`,
	}

	path := &cobra.Command{
		Use:   "path <feature>",
		Short: "Print where the report for a feature is written",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportsPath(cmd.Context(), cmd.OutOrStdout(), global, args[0])
		},
	}

	archive := &cobra.Command{
		Use:   "archive [run-id]",
		Short: "Copy the reports directory into the archive",
		Long:  "Copy the reports directory into <archive>/<run-id>/reports. A run id is generated when none is given.",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runReportsArchive(cmd.Context(), cmd.OutOrStdout(), global, runID)
		},
	}

	var maxAgeDays int
	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete reports older than the configured age",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReportsCleanup(cmd.Context(), cmd.OutOrStdout(), global, maxAgeDays)
		},
	}
	cleanup.Flags().IntVar(&maxAgeDays, "max-age-days", 0, "age in days (default: reports.max_age_days)")

	cmd.AddCommand(path, archive, cleanup)
	root.AddCommand(cmd)
}

func runReportsPath(ctx context.Context, w io.Writer, global *GlobalFlags, file string) error {
	a, err := newApp(ctx, global, GetLogger())
	if err != nil {
		return err
	}
	report := a.history.ReportPath(file)

	if global.Output == OutputJSON {
		return writeJSON(w, map[string]string{"feature": file, "report": report})
	}
	_, _ = fmt.Fprintln(w, report)
	return nil
}

func runReportsArchive(ctx context.Context, w io.Writer, global *GlobalFlags, runID string) error {
	a, err := newApp(ctx, global, GetLogger())
	if err != nil {
		return err
	}

	dest, ok := a.history.ArchiveReports(runID)
	if global.Output == OutputJSON {
		return writeJSON(w, map[string]any{"archived": ok, "path": dest})
	}

	s := newStyles()
	if !ok {
		_, _ = fmt.Fprintln(w, s.warning.Render("Nothing archived: no reports at "+a.history.ReportsDir()))
		return nil
	}
	_, _ = fmt.Fprintln(w, s.success.Render("Archived reports to "+dest))
	return nil
}

func runReportsCleanup(ctx context.Context, w io.Writer, global *GlobalFlags, maxAgeDays int) error {
	if maxAgeDays < 0 {
		return errors.NewExitCode2Error(fmt.Errorf("%w: --max-age-days must be at least 1", errors.ErrInvalidArgument))
	}

	a, err := newApp(ctx, global, GetLogger())
	if err != nil {
		return err
	}
	if maxAgeDays == 0 {
		maxAgeDays = a.cfg.Reports.MaxAgeDays
	}

	removed, err := a.history.CleanupOldReports(maxAgeDays)
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return writeJSON(w, map[string]int{"removed": removed, "max_age_days": maxAgeDays})
	}
	_, _ = fmt.Fprintf(w, "Removed %d report(s) older than %d day(s)\n", removed, maxAgeDays)
	return nil
}
