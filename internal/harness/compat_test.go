package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/oasgen/internal/diag"
	"github.com/calder/oasgen/internal/execrun"
	"github.com/calder/oasgen/internal/genpipe"
	"github.com/calder/oasgen/internal/testutil"
	"github.com/calder/oasgen/internal/workspace"
)

const requiredListWarning = `A property name only appears in the required list, but not in the properties: "huntingSkill"`

func warningPipeline() *testutil.FakePipeline {
	return &testutil.FakePipeline{
		Diagnostics: map[genpipe.Mode][]diag.Diagnostic{
			genpipe.ModeTypes:  {diag.Warning(requiredListWarning)},
			genpipe.ModeClient: {diag.Warning(requiredListWarning)},
			genpipe.ModeServer: {diag.Warning(requiredListWarning), diag.Note("progress")},
		},
	}
}

func TestCompatRunner_ExpectedDiagnosticsPass(t *testing.T) {
	url := testutil.ServeDocument(t, []byte("openapi: 3.0.0\n"))

	cr := &CompatRunner{
		Invoker:    genpipe.NewInvoker(warningPipeline()),
		Workspaces: &workspace.Manager{Root: t.TempDir()},
	}

	err := cr.Run(context.Background(), CompatScenario{
		Name:                "zoo",
		URL:                 url,
		ExpectedDiagnostics: []string{requiredListWarning},
	})
	require.NoError(t, err)
}

func TestCompatRunner_RemovedExpectationFailsNamingTheMessage(t *testing.T) {
	url := testutil.ServeDocument(t, []byte("openapi: 3.0.0\n"))

	cr := &CompatRunner{
		Invoker:    genpipe.NewInvoker(warningPipeline()),
		Workspaces: &workspace.Manager{Root: t.TempDir()},
	}

	err := cr.Run(context.Background(), CompatScenario{Name: "zoo", URL: url})
	require.Error(t, err)

	var mismatch *SetMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Empty(t, mismatch.Missing)
	assert.Equal(t, []string{requiredListWarning}, mismatch.Unexpected)
	assert.Contains(t, err.Error(), requiredListWarning)
}

func TestCompatRunner_MissingDiagnosticFails(t *testing.T) {
	url := testutil.ServeDocument(t, []byte("openapi: 3.0.0\n"))

	cr := &CompatRunner{
		Invoker:    genpipe.NewInvoker(&testutil.FakePipeline{}),
		Workspaces: &workspace.Manager{Root: t.TempDir()},
	}

	err := cr.Run(context.Background(), CompatScenario{
		Name:                "zoo",
		URL:                 url,
		ExpectedDiagnostics: []string{"never emitted"},
	})
	require.Error(t, err)

	var mismatch *SetMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"never emitted"}, mismatch.Missing)
	assert.Empty(t, mismatch.Unexpected)
}

func TestCompatRunner_ParallelAndSequentialProduceIdenticalSets(t *testing.T) {
	run := func(parallel bool) error {
		url := testutil.ServeDocument(t, []byte("openapi: 3.0.0\n"))
		pipeline := warningPipeline()
		pipeline.Delay = 5 * time.Millisecond

		cr := &CompatRunner{
			Invoker:    genpipe.NewInvoker(pipeline),
			Workspaces: &workspace.Manager{Root: t.TempDir()},
			Parallel:   parallel,
		}
		return cr.Run(context.Background(), CompatScenario{
			Name:                "zoo",
			URL:                 url,
			ExpectedDiagnostics: []string{requiredListWarning},
		})
	}

	require.NoError(t, run(false))
	require.NoError(t, run(true), "parallel strategy must reach the same verdict")
}

func TestCompatRunner_ParallelAttributesFailureToMode(t *testing.T) {
	url := testutil.ServeDocument(t, []byte("openapi: 3.0.0\n"))
	pipelineErr := errors.New("renderer exploded")

	cr := &CompatRunner{
		Invoker: genpipe.NewInvoker(&testutil.FakePipeline{
			Errors: map[genpipe.Mode]error{genpipe.ModeClient: pipelineErr},
		}),
		Workspaces: &workspace.Manager{Root: t.TempDir()},
		Parallel:   true,
	}

	err := cr.Run(context.Background(), CompatScenario{Name: "zoo", URL: url})
	require.Error(t, err)
	assert.ErrorIs(t, err, pipelineErr)
	assert.Contains(t, err.Error(), "mode client")
}

func TestCompatRunner_FetchFailureIsFatal(t *testing.T) {
	url := testutil.ServeStatus(t, 500)

	cr := &CompatRunner{
		Invoker:    genpipe.NewInvoker(&testutil.FakePipeline{}),
		Workspaces: &workspace.Manager{Root: t.TempDir()},
	}

	err := cr.Run(context.Background(), CompatScenario{Name: "zoo", URL: url})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestCompatRunner_BuildStepMaterializesPackage(t *testing.T) {
	url := testutil.ServeDocument(t, []byte("openapi: 3.0.0\n"))
	scratch := t.TempDir()

	var seenFiles []string
	runner := &scriptedRunner{}
	runner.onRun = func(call runnerCall) {
		entries, err := os.ReadDir(call.Dir)
		require.NoError(t, err)
		for _, e := range entries {
			seenFiles = append(seenFiles, e.Name())
		}
	}

	cr := &CompatRunner{
		Invoker:    genpipe.NewInvoker(&testutil.FakePipeline{}),
		Workspaces: &workspace.Manager{Root: scratch},
		Runner:     runner,
	}

	err := cr.Run(context.Background(), CompatScenario{Name: "Zoo API", URL: url, Build: true})
	require.NoError(t, err)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "go", calls[0].Name)
	assert.Equal(t, []string{"build", "./..."}, calls[0].Args)
	assert.ElementsMatch(t, []string{"go.mod", "types.go", "client.go", "server.go"}, seenFiles)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "package workspace must be torn down after the build")
}

func TestCompatRunner_BuildManifestDeclaresModule(t *testing.T) {
	url := testutil.ServeDocument(t, []byte("openapi: 3.0.0\n"))

	var manifest string
	runner := &scriptedRunner{}
	runner.onRun = func(call runnerCall) {
		data, err := os.ReadFile(filepath.Join(call.Dir, "go.mod"))
		require.NoError(t, err)
		manifest = string(data)
	}

	cr := &CompatRunner{
		Invoker:    genpipe.NewInvoker(&testutil.FakePipeline{}),
		Workspaces: &workspace.Manager{Root: t.TempDir()},
		Runner:     runner,
	}

	require.NoError(t, cr.Run(context.Background(), CompatScenario{Name: "Zoo API", URL: url, Build: true}))
	assert.Contains(t, manifest, "module compatcheck/zoo-api\n")
	assert.Contains(t, manifest, "go 1.25\n")
}

func TestCompatRunner_BuildFailureSurfacesOutput(t *testing.T) {
	url := testutil.ServeDocument(t, []byte("openapi: 3.0.0\n"))

	runner := &scriptedRunner{result: execrun.Result{
		ExitStatus: 1,
		Stderr:     "types.go:3:1: syntax error",
	}}
	cr := &CompatRunner{
		Invoker:    genpipe.NewInvoker(&testutil.FakePipeline{}),
		Workspaces: &workspace.Manager{Root: t.TempDir()},
		Runner:     runner,
	}

	err := cr.Run(context.Background(), CompatScenario{Name: "zoo", URL: url, Build: true})
	require.Error(t, err)

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Contains(t, err.Error(), "syntax error")
}

func TestCompatRunner_SkipBuildSuppressesToolchain(t *testing.T) {
	url := testutil.ServeDocument(t, []byte("openapi: 3.0.0\n"))

	runner := &scriptedRunner{}
	cr := &CompatRunner{
		Invoker:    genpipe.NewInvoker(&testutil.FakePipeline{}),
		Workspaces: &workspace.Manager{Root: t.TempDir()},
		Runner:     runner,
		SkipBuild:  true,
	}

	require.NoError(t, cr.Run(context.Background(), CompatScenario{Name: "zoo", URL: url, Build: true}))
	assert.Empty(t, runner.Calls())
}

func TestCompatRunner_TimeoutAbortsScenario(t *testing.T) {
	url := testutil.ServeDocument(t, []byte("openapi: 3.0.0\n"))

	cr := &CompatRunner{
		Invoker:    genpipe.NewInvoker(&testutil.FakePipeline{Delay: 5 * time.Second}),
		Workspaces: &workspace.Manager{Root: t.TempDir()},
		Timeout:    50 * time.Millisecond,
	}

	start := time.Now()
	err := cr.Run(context.Background(), CompatScenario{Name: "zoo", URL: url})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
