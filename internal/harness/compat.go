package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/calder/oasgen/internal/diag"
	"github.com/calder/oasgen/internal/execrun"
	"github.com/calder/oasgen/internal/genpipe"
	"github.com/calder/oasgen/internal/workspace"
)

// CompatScenario verifies the pipeline against one real-world document:
// fetch it, generate every mode, and require the emitted diagnostic set to
// equal ExpectedDiagnostics exactly. When Build is set (and the suite does
// not skip builds) the outputs are additionally assembled into a package
// and compiled.
type CompatScenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	URL         string         `yaml:"url"`
	Modes       []genpipe.Mode `yaml:"modes,omitempty"`

	// ExpectedDiagnostics is the exact allow-list of warning and error
	// messages the run must produce. Extra and missing messages both fail.
	ExpectedDiagnostics []string `yaml:"expected_diagnostics,omitempty"`

	Build  bool            `yaml:"build,omitempty"`
	Config *ScenarioConfig `yaml:"config,omitempty"`
}

// CompatRunner executes compatibility scenarios.
type CompatRunner struct {
	Invoker    *genpipe.Invoker
	Workspaces *workspace.Manager

	// Runner invokes the build toolchain. Nil means the host runner.
	Runner execrun.Runner

	// Client performs the document fetch. Nil means http.DefaultClient.
	Client *http.Client

	// Parallel runs all modes concurrently instead of sequentially. The
	// diagnostic set produced must be identical either way; parallelism is
	// purely a throughput option.
	Parallel bool

	// SkipBuild disables the build step regardless of scenario settings.
	SkipBuild bool

	// GoTool is the build toolchain executable. Empty means "go".
	GoTool string

	// Timeout bounds one scenario end to end, including the fetch and any
	// subprocess. Zero means no timeout.
	Timeout time.Duration

	Logger *slog.Logger
}

func (cr *CompatRunner) logger() *slog.Logger {
	if cr.Logger != nil {
		return cr.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Run executes one compatibility scenario to completion. All workspaces
// are removed on every exit path; a timeout aborts the scenario, in-flight
// subprocess included, and surfaces as a scenario failure.
func (cr *CompatRunner) Run(ctx context.Context, sc CompatScenario) error {
	if cr.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cr.Timeout)
		defer cancel()
	}

	log := cr.logger().With("scenario", sc.Name)

	doc, err := genpipe.FetchDocument(ctx, cr.Client, sc.URL)
	if err != nil {
		return fmt.Errorf("compat scenario %s: %w", sc.Name, err)
	}
	log.Info("document fetched", "url", sc.URL, "bytes", doc.Size())

	modes := sc.Modes
	if len(modes) == 0 {
		modes = genpipe.AllModes()
	}
	cfg := sc.Config.resolve()

	sink := diag.NewRecording()
	outputs, err := cr.generateAll(ctx, doc, modes, cfg, sink)
	if err != nil {
		return err
	}

	actual := diag.SevereMessages(sink.All())
	if missing, unexpected := diag.SetDiff(sc.ExpectedDiagnostics, actual); len(missing) > 0 || len(unexpected) > 0 {
		return &SetMismatchError{Scenario: sc.Name, Missing: missing, Unexpected: unexpected}
	}
	log.Info("diagnostics match expected set", "count", len(actual))

	if !sc.Build || cr.SkipBuild {
		return nil
	}
	return cr.buildPackage(ctx, sc, outputs, log)
}

// generateAll runs the invoker once per mode and returns the artifacts in
// mode order. The parallel strategy still associates every result with the
// mode that produced it; a slice slot per mode makes misattribution
// impossible.
func (cr *CompatRunner) generateAll(ctx context.Context, doc genpipe.Document, modes []genpipe.Mode, cfg genpipe.Config, sink diag.Collector) ([]genpipe.Rendered, error) {
	outputs := make([]genpipe.Rendered, len(modes))

	if !cr.Parallel {
		for i, mode := range modes {
			out, err := cr.Invoker.Run(ctx, doc, mode, cfg, sink)
			if err != nil {
				return nil, err
			}
			outputs[i] = out
		}
		return outputs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, mode := range modes {
		g.Go(func() error {
			out, err := cr.Invoker.Run(gctx, doc, mode, cfg, sink)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// buildPackage materializes a minimal package from the rendered artifacts
// and compiles it. The manifest and sources live in a fresh workspace that
// is removed whether or not the build succeeds.
func (cr *CompatRunner) buildPackage(ctx context.Context, sc CompatScenario, outputs []genpipe.Rendered, log *slog.Logger) error {
	runner := cr.Runner
	if runner == nil {
		runner = execrun.OSRunner{}
	}
	goTool := cr.GoTool
	if goTool == "" {
		goTool = "go"
	}

	return cr.Workspaces.With(func(ws *workspace.Handle) error {
		manifest := fmt.Sprintf("module compatcheck/%s\n\ngo 1.25\n", moduleName(sc.Name))
		if err := os.WriteFile(ws.Join("go.mod"), []byte(manifest), 0o644); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		for _, out := range outputs {
			if err := os.WriteFile(ws.Join(out.Name), out.Contents, 0o644); err != nil {
				return fmt.Errorf("failed to write artifact %s: %w", out.Name, err)
			}
		}

		res, err := runner.Run(ctx, goTool, []string{"build", "./..."}, ws.Path)
		if err != nil {
			return fmt.Errorf("compat scenario %s: build toolchain: %w", sc.Name, err)
		}
		if !res.Success() {
			return &BuildError{Scenario: sc.Name, Dir: ws.Path, Result: res}
		}
		log.Info("generated package builds", "tool", goTool)
		return nil
	})
}

// moduleName reduces a scenario name to something legal in a module path.
// Runs of separators collapse to a single hyphen.
func moduleName(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "generated"
	}
	return out
}
