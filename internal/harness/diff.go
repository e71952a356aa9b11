package harness

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/calder/oasgen/internal/execrun"
)

// unifiedDiff renders a human-readable diff between the reference and
// actual files, with five lines of context. The external diff tool is
// preferred for its familiar output; when it cannot be run, an in-process
// diff is produced instead and the tool failure is reported alongside it.
//
// diff exits 0 for identical inputs, 1 for differing inputs, and >1 for
// trouble. Only the last is a tool failure.
func unifiedDiff(ctx context.Context, runner execrun.Runner, refPath, actualPath string) (string, error) {
	if runner == nil {
		runner = execrun.OSRunner{}
	}

	res, err := runner.Run(ctx, "diff", []string{"-U", "5", refPath, actualPath}, "")
	if err == nil && res.ExitStatus <= 1 {
		return res.Stdout, nil
	}
	if err == nil {
		err = fmt.Errorf("diff exited with status %d: %s", res.ExitStatus, strings.TrimSpace(res.Stderr))
	}

	text, fallbackErr := fallbackDiff(refPath, actualPath)
	if fallbackErr != nil {
		return "", fmt.Errorf("diff tool failed (%v) and fallback diff failed: %w", err, fallbackErr)
	}
	return text, err
}

// fallbackDiff computes a patch-format diff in process via sergi/go-diff.
func fallbackDiff(refPath, actualPath string) (string, error) {
	ref, err := os.ReadFile(refPath)
	if err != nil {
		return "", fmt.Errorf("failed to read reference: %w", err)
	}
	actual, err := os.ReadFile(actualPath)
	if err != nil {
		return "", fmt.Errorf("failed to read actual: %w", err)
	}

	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(string(ref), string(actual))
	return dmp.PatchToText(patches), nil
}
