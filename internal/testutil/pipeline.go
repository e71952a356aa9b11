// Package testutil provides deterministic test doubles for the harness:
// a scripted generation pipeline and a static document server.
//
// The fakes let the harness packages be tested without the real generator
// or the network, while still exercising the concurrency and failure paths
// the real collaborators would.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/calder/oasgen/internal/diag"
	"github.com/calder/oasgen/internal/genpipe"
)

// FakePipeline is a scripted genpipe.Pipeline. Outputs, diagnostics, and
// errors are configured per mode; anything unconfigured gets a small
// deterministic default artifact. Safe for concurrent runs.
type FakePipeline struct {
	// Outputs maps a mode to the artifact it renders.
	Outputs map[genpipe.Mode]genpipe.Rendered

	// Diagnostics are emitted to the sink, in order, before returning.
	Diagnostics map[genpipe.Mode][]diag.Diagnostic

	// Errors fails the run for a mode after its diagnostics are emitted.
	Errors map[genpipe.Mode]error

	// Delay simulates pipeline latency, useful for exercising the
	// parallel execution strategy.
	Delay time.Duration

	mu    sync.Mutex
	calls []genpipe.Mode
}

// Run implements genpipe.Pipeline.
func (f *FakePipeline) Run(ctx context.Context, doc genpipe.Document, cfg genpipe.Config, sink diag.Collector) (genpipe.Rendered, error) {
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return genpipe.Rendered{}, ctx.Err()
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, cfg.Mode)
	f.mu.Unlock()

	for _, d := range f.Diagnostics[cfg.Mode] {
		if err := sink.Emit(d); err != nil {
			return genpipe.Rendered{}, err
		}
	}

	if err := f.Errors[cfg.Mode]; err != nil {
		return genpipe.Rendered{}, err
	}

	if out, ok := f.Outputs[cfg.Mode]; ok {
		return out, nil
	}
	return genpipe.Rendered{
		Name:     cfg.Mode.ArtifactName(),
		Contents: fmt.Appendf(nil, "// generated %s for %s\n", cfg.Mode, doc.Name()),
	}, nil
}

// Calls returns the modes run so far, in completion-of-record order.
func (f *FakePipeline) Calls() []genpipe.Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]genpipe.Mode, len(f.calls))
	copy(out, f.calls)
	return out
}
