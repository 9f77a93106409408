package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/karate-runner/internal/domain"
)

// AddArtifactCommand adds the artifact command group to the root command.
func AddArtifactCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "artifact",
		Short: "Manage the local Karate engine",
		Long: `Manage the Karate engine jar kept in the workspace resources directory.

Examples:
  karate-runner artifact ensure           # download if missing
  karate-runner artifact ensure --force   # re-download if the version changed
  karate-runner artifact version
  karate-runner artifact cleanup`,
	}

	var force bool
	ensure := &cobra.Command{
		Use:   "ensure",
		Short: "Download the engine if it is missing",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runArtifactEnsure(cmd.Context(), cmd.OutOrStdout(), global, force)
		},
	}
	ensure.Flags().BoolVarP(&force, "force", "f", false, "re-download when the recorded version differs from the configured one")

	version := &cobra.Command{
		Use:   "version",
		Short: "Show the recorded engine version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runArtifactVersion(cmd.Context(), cmd.OutOrStdout(), global)
		},
	}

	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete the engine and its version file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runArtifactCleanup(cmd.Context(), cmd.OutOrStdout(), global)
		},
	}

	cmd.AddCommand(ensure, version, cleanup)
	root.AddCommand(cmd)
}

func runArtifactEnsure(ctx context.Context, w io.Writer, global *GlobalFlags, force bool) error {
	a, err := newApp(ctx, global, GetLogger())
	if err != nil {
		return err
	}

	if force {
		_, err = a.artifacts.Refresh(ctx)
	} else {
		_, err = a.artifacts.EnsureArtifact(ctx)
	}
	if err != nil {
		return err
	}
	return printArtifact(w, global, a.artifacts.Status())
}

func runArtifactVersion(ctx context.Context, w io.Writer, global *GlobalFlags) error {
	a, err := newApp(ctx, global, GetLogger())
	if err != nil {
		return err
	}
	return printArtifact(w, global, a.artifacts.Status())
}

func runArtifactCleanup(ctx context.Context, w io.Writer, global *GlobalFlags) error {
	a, err := newApp(ctx, global, GetLogger())
	if err != nil {
		return err
	}
	a.artifacts.Cleanup()
	return printArtifact(w, global, a.artifacts.Status())
}

func printArtifact(w io.Writer, global *GlobalFlags, status domain.Artifact) error {
	if global.Output == OutputJSON {
		return writeJSON(w, status)
	}

	s := newStyles()
	state := s.failure.Render("missing")
	if status.Present {
		state = s.success.Render("present")
	}
	version := status.Version
	if version == "" {
		version = s.dim.Render("none")
	}
	_, _ = fmt.Fprintln(w, s.field("path", status.Path))
	_, _ = fmt.Fprintln(w, s.field("version", version))
	_, _ = fmt.Fprintln(w, s.field("state", state))
	return nil
}
