package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/calder/oasgen/internal/diag"
	"github.com/calder/oasgen/internal/execrun"
	"github.com/calder/oasgen/internal/genpipe"
	"github.com/calder/oasgen/internal/workspace"
)

// ReferenceProject is one golden-corpus scenario: a fixed document, the
// modes to generate, and the reference tree subdirectory to compare
// against.
type ReferenceProject struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Document    string         `yaml:"document"`
	Modes       []genpipe.Mode `yaml:"modes"`

	// Ignore lists diagnostic messages tolerated under the strict policy.
	// Order-independent; compared by exact message.
	Ignore []string `yaml:"ignore,omitempty"`

	// Config overrides the default pipeline configuration.
	Config *ScenarioConfig `yaml:"config,omitempty"`
}

// ReferenceComparator runs the pipeline against corpus documents and
// compares each artifact byte-for-byte against the golden reference tree.
// No normalization of any kind is applied: formatting drift is exactly the
// kind of regression this oracle exists to catch.
type ReferenceComparator struct {
	Invoker    *genpipe.Invoker
	Workspaces *workspace.Manager

	// ReferenceRoot holds one subdirectory per project, with one file per
	// mode named after the mode's artifact.
	ReferenceRoot string

	// Runner invokes the external diff tool. Nil means the host runner.
	Runner execrun.Runner

	Logger *slog.Logger
}

func (rc *ReferenceComparator) logger() *slog.Logger {
	if rc.Logger != nil {
		return rc.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Run executes one reference project to completion. Modes run
// sequentially: the oracle is per-mode and a failure must be attributable
// without concurrent interleaving in the logs. The scratch workspace is
// removed on every exit path.
func (rc *ReferenceComparator) Run(ctx context.Context, project ReferenceProject) error {
	log := rc.logger().With("project", project.Name)

	doc, err := genpipe.LoadDocument(project.Document)
	if err != nil {
		return fmt.Errorf("reference project %s: %w", project.Name, err)
	}
	log.Info("document loaded", "path", doc.Path(), "bytes", doc.Size())

	modes := project.Modes
	if len(modes) == 0 {
		modes = genpipe.AllModes()
	}
	cfg := project.Config.resolve()

	return rc.Workspaces.With(func(ws *workspace.Handle) error {
		sink := diag.NewStrict(project.Ignore...)

		for _, mode := range modes {
			if err := rc.compareMode(ctx, project, doc, mode, cfg, sink, ws, log); err != nil {
				return err
			}
		}
		return nil
	})
}

func (rc *ReferenceComparator) compareMode(ctx context.Context, project ReferenceProject, doc genpipe.Document, mode genpipe.Mode, cfg genpipe.Config, sink diag.Collector, ws *workspace.Handle, log *slog.Logger) error {
	out, err := rc.Invoker.Run(ctx, doc, mode, cfg, sink)
	if err != nil {
		return err
	}

	actualPath := ws.Join(out.Name)
	if err := os.WriteFile(actualPath, out.Contents, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", out.Name, err)
	}

	refPath := filepath.Join(rc.ReferenceRoot, project.Name, out.Name)
	refBytes, err := os.ReadFile(refPath)
	if err != nil {
		return fmt.Errorf("missing golden reference for project %s mode %s: %w", project.Name, mode, err)
	}

	// Byte equality short-circuits diffing entirely.
	if bytes.Equal(refBytes, out.Contents) {
		log.Info("artifact matches reference", "mode", mode, "artifact", out.Name)
		return nil
	}

	diffText, diffErr := unifiedDiff(ctx, rc.Runner, refPath, actualPath)
	return &MismatchError{
		Project:  project.Name,
		Mode:     mode,
		Artifact: out.Name,
		Diff:     diffText,
		DiffErr:  diffErr,
	}
}
