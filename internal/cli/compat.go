package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/calder/oasgen/internal/generator"
	"github.com/calder/oasgen/internal/genpipe"
	"github.com/calder/oasgen/internal/harness"
	"github.com/calder/oasgen/internal/store"
	"github.com/calder/oasgen/internal/workspace"
)

// CompatOptions holds flags for the compat command.
type CompatOptions struct {
	*RootOptions
	ScenariosDir string
	DBPath       string
}

// NewCompatCommand creates the compat command.
func NewCompatCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompatOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compat",
		Short: "Run real-world compatibility scenarios",
		Long: `Run every compatibility scenario: fetch each document over the
network, generate all modes, and require the diagnostic set to match the
scenario's expectations exactly.

The suite is opt-in. Without OASGEN_COMPAT_ENABLE every scenario is
skipped. OASGEN_COMPAT_SKIP_BUILD, OASGEN_COMPAT_PARALLEL, and
OASGEN_SCENARIO_TIMEOUT_SEC tune the run; a .env file in the working
directory is honored.

Examples:
  OASGEN_COMPAT_ENABLE=1 oasgen compat --scenarios ./scenarios/compat
  OASGEN_COMPAT_ENABLE=1 oasgen compat --scenarios ./scenarios/compat --db runs.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompat(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ScenariosDir, "scenarios", "", "directory of scenario YAML files (required)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database to record runs in")
	_ = cmd.MarkFlagRequired("scenarios")

	return cmd
}

func runCompat(ctx context.Context, opts *CompatOptions, cmd *cobra.Command) error {
	files, err := scenarioFiles(opts.ScenariosDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list scenarios", err)
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no scenario files in %s", opts.ScenariosDir))
	}

	scenarios := make([]*harness.CompatScenario, 0, len(files))
	for _, file := range files {
		sc, err := harness.LoadCompatScenario(file)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}
		scenarios = append(scenarios, sc)
	}

	cfg := harness.LoadSuiteConfig()
	var suite SuiteResult

	if !cfg.CompatEnabled {
		for _, sc := range scenarios {
			suite.Add(ScenarioResult{Name: sc.Name, Skipped: true})
		}
		if err := writeSuite(cmd.OutOrStdout(), opts.Format, suite); err != nil {
			return WrapExitError(ExitCommandError, "failed to write results", err)
		}
		return nil
	}

	recorder, err := openRecorder(opts.DBPath)
	if err != nil {
		return err
	}
	defer recorder.close()

	log := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	runner := &harness.CompatRunner{
		Invoker:    genpipe.NewInvoker(generator.New()),
		Workspaces: &workspace.Manager{},
		Parallel:   cfg.Parallel,
		SkipBuild:  cfg.SkipBuild,
		Timeout:    cfg.ScenarioTimeout,
		Logger:     log,
	}

	for _, sc := range scenarios {
		start := time.Now()
		runErr := runner.Run(ctx, *sc)
		suite.Add(verdict(sc.Name, runErr))

		if err := recorder.record(ctx, store.Run{
			Scenario: sc.Name,
			Kind:     store.KindCompat,
			Document: sc.URL,
			Modes:    sc.Modes,
			Pass:     runErr == nil,
			Failure:  errMessage(runErr),
			Duration: time.Since(start),
		}); err != nil {
			return err
		}
	}

	if err := writeSuite(cmd.OutOrStdout(), opts.Format, suite); err != nil {
		return WrapExitError(ExitCommandError, "failed to write results", err)
	}
	if suite.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d compatibility scenario(s) failed", suite.Failed))
	}
	return nil
}
