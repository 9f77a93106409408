package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/karate-runner/internal/config"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the effective configuration after merging, in increasing precedence:
  - built-in defaults
  - global: ~/.karate-runner/config.yaml
  - project: <workspace>/.karate-runner/config.yaml
  - env: KARATE_RUNNER_* variables (for example KARATE_RUNNER_ARTIFACT_VERSION)

Examples:
  karate-runner config show
  karate-runner config show -o json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), global)
		},
	})

	root.AddCommand(cmd)
}

func runConfigShow(ctx context.Context, w io.Writer, global *GlobalFlags) error {
	a, err := newApp(ctx, global, GetLogger())
	if err != nil {
		return err
	}

	if global.Output == OutputJSON {
		return writeJSON(w, a.cfg)
	}

	if !global.Quiet {
		s := newStyles()
		_, _ = fmt.Fprintln(w, s.dim.Render("# workspace: "+a.workspace))
		if path, err := config.GlobalConfigPath(); err == nil {
			_, _ = fmt.Fprintln(w, s.dim.Render("# global:    "+path))
		}
		_, _ = fmt.Fprintln(w, s.dim.Render("# project:   "+config.ProjectConfigPath(a.workspace)))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(a.cfg); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}
