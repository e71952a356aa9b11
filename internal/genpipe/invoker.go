package genpipe

import (
	"context"
	"fmt"

	"github.com/calder/oasgen/internal/diag"
)

// Rendered is the artifact one pipeline run produces: a base file name and
// its byte contents. The caller that invoked the pipeline owns it
// exclusively; the harness writes it to a workspace and then either compares
// it or persists it into a package tree.
type Rendered struct {
	Name     string
	Contents []byte
}

// Pipeline is the opaque generation capability the harness drives. One call
// turns a document into a single rendered artifact for the configured mode,
// emitting diagnostics to the supplied collector along the way.
//
// Implementations must be safe for concurrent calls: the parallel execution
// strategy runs one call per mode against the same document and collector.
type Pipeline interface {
	Run(ctx context.Context, doc Document, cfg Config, sink diag.Collector) (Rendered, error)
}

// Invoker wraps a Pipeline so every failure carries the (document, mode)
// pair that caused it. With modes running concurrently, this is what keeps
// failure attribution precise.
type Invoker struct {
	pipeline Pipeline
}

// NewInvoker binds an invoker to a pipeline capability.
func NewInvoker(p Pipeline) *Invoker {
	return &Invoker{pipeline: p}
}

// Run invokes the pipeline for one (document, mode) pair. Pipeline errors
// are never swallowed; they propagate wrapped with the document name and
// mode. A pipeline returning an empty artifact name is itself an error, as
// the artifact could not be placed in a workspace or reference tree.
func (iv *Invoker) Run(ctx context.Context, doc Document, mode Mode, cfg Config, sink diag.Collector) (Rendered, error) {
	out, err := iv.pipeline.Run(ctx, doc, cfg.WithMode(mode), sink)
	if err != nil {
		return Rendered{}, fmt.Errorf("pipeline failed for %s mode %s: %w", doc.Name(), mode, err)
	}
	if out.Name == "" {
		return Rendered{}, fmt.Errorf("pipeline returned unnamed artifact for %s mode %s", doc.Name(), mode)
	}
	return out, nil
}
