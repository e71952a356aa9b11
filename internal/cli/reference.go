package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/calder/oasgen/internal/generator"
	"github.com/calder/oasgen/internal/genpipe"
	"github.com/calder/oasgen/internal/harness"
	"github.com/calder/oasgen/internal/store"
	"github.com/calder/oasgen/internal/workspace"
)

// ReferenceOptions holds flags for the reference command.
type ReferenceOptions struct {
	*RootOptions
	ProjectsDir   string
	ReferenceRoot string
	DBPath        string
}

// NewReferenceCommand creates the reference command.
func NewReferenceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReferenceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Run golden-reference conformance projects",
		Long: `Run every reference project and compare generated artifacts
byte-for-byte against the golden reference tree.

Each YAML file in the projects directory is one project. A unified diff is
printed for every mismatching artifact.

Examples:
  oasgen reference --projects ./scenarios/reference --refs ./references
  oasgen reference --projects ./scenarios/reference --refs ./references --db runs.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReference(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ProjectsDir, "projects", "", "directory of project YAML files (required)")
	cmd.Flags().StringVar(&opts.ReferenceRoot, "refs", "", "golden reference tree root (required)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database to record runs in")
	_ = cmd.MarkFlagRequired("projects")
	_ = cmd.MarkFlagRequired("refs")

	return cmd
}

func runReference(ctx context.Context, opts *ReferenceOptions, cmd *cobra.Command) error {
	files, err := scenarioFiles(opts.ProjectsDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list projects", err)
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no project files in %s", opts.ProjectsDir))
	}

	recorder, err := openRecorder(opts.DBPath)
	if err != nil {
		return err
	}
	defer recorder.close()

	log := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	comparator := &harness.ReferenceComparator{
		Invoker:       genpipe.NewInvoker(generator.New()),
		Workspaces:    &workspace.Manager{},
		ReferenceRoot: opts.ReferenceRoot,
		Logger:        log,
	}

	var suite SuiteResult
	for _, file := range files {
		project, err := harness.LoadReferenceProject(file)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load project", err)
		}

		start := time.Now()
		runErr := comparator.Run(ctx, *project)
		suite.Add(verdict(project.Name, runErr))

		if err := recorder.record(ctx, store.Run{
			Scenario: project.Name,
			Kind:     store.KindReference,
			Document: project.Document,
			Modes:    project.Modes,
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
		return NewExitError(ExitFailure, fmt.Sprintf("%d reference project(s) failed", suite.Failed))
	}
	return nil
}

// scenarioFiles lists the YAML files in dir in name order.
func scenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func verdict(name string, err error) ScenarioResult {
	r := ScenarioResult{Name: name, Pass: err == nil}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// recorder wraps an optional run store so commands can record verdicts
// without branching on whether --db was given.
type recorder struct {
	store *store.Store
}

func openRecorder(path string) (*recorder, error) {
	if path == "" {
		return &recorder{}, nil
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open run database", err)
	}
	return &recorder{store: s}, nil
}

func (r *recorder) record(ctx context.Context, run store.Run) error {
	if r.store == nil {
		return nil
	}
	if _, err := r.store.RecordRun(ctx, run); err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	return nil
}

func (r *recorder) close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}
