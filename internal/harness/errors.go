package harness

import (
	"fmt"
	"strings"

	"github.com/calder/oasgen/internal/execrun"
	"github.com/calder/oasgen/internal/genpipe"
)

// MismatchError reports a byte-level difference between a generated
// artifact and its golden reference file. It carries the unified diff when
// one could be computed; diffing is best-effort and its own failure never
// hides the mismatch.
type MismatchError struct {
	Project  string
	Mode     genpipe.Mode
	Artifact string
	Diff     string
	DiffErr  error
}

func (e *MismatchError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "reference mismatch: project %s mode %s artifact %s differs from golden reference",
		e.Project, e.Mode, e.Artifact)
	if e.Diff != "" {
		fmt.Fprintf(&buf, "\n%s", strings.TrimRight(e.Diff, "\n"))
	}
	if e.DiffErr != nil {
		fmt.Fprintf(&buf, "\n(diff tool failed: %v)", e.DiffErr)
	}
	return buf.String()
}

// SetMismatchError reports that the emitted diagnostic set does not equal
// the expected set. Both directions of the symmetric difference are named.
type SetMismatchError struct {
	Scenario   string
	Missing    []string // expected but not emitted
	Unexpected []string // emitted but not expected
}

func (e *SetMismatchError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "diagnostic set mismatch in scenario %s", e.Scenario)
	for _, m := range e.Missing {
		fmt.Fprintf(&buf, "\n  missing:    %s", m)
	}
	for _, m := range e.Unexpected {
		fmt.Fprintf(&buf, "\n  unexpected: %s", m)
	}
	return buf.String()
}

// BuildError reports a non-zero exit from the build toolchain, with the
// full captured output attached for diagnosis.
type BuildError struct {
	Scenario string
	Dir      string
	Result   execrun.Result
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed for scenario %s in %s: %s", e.Scenario, e.Dir, e.Result.Detail())
}
