// Package diag defines the structured diagnostics emitted by the generation
// pipeline and the collectors the harness uses to gather them.
//
// A collector is scoped to one scenario. Multiple pipeline runs (one per
// generation mode) may write to the same collector concurrently, so all
// collectors serialize their appends behind a mutex.
//
// Two policies exist:
//
//   - Recording: accumulates everything and defers judgement to a post-hoc
//     set comparison (compatibility verification).
//   - Strict: fails the enclosing scenario the moment a warning or error
//     severity diagnostic arrives, unless its message is in the ignore set
//     (reference comparison). Notes are logged but never fail.
package diag

import (
	"fmt"
	"sort"
	"sync"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a single structured message emitted during a pipeline run.
type Diagnostic struct {
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Note constructs a note-severity diagnostic.
func Note(format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityNote, Message: fmt.Sprintf(format, args...)}
}

// Warning constructs a warning-severity diagnostic.
func Warning(format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// Error constructs an error-severity diagnostic.
func Error(format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Collector is a sink for diagnostics emitted during generation.
//
// Emit returns a non-nil error only under the strict policy, when the
// diagnostic itself constitutes a scenario failure. Callers must propagate
// that error; it aborts the run that emitted the diagnostic.
type Collector interface {
	Emit(d Diagnostic) error

	// Snapshot returns the de-duplicated, sorted set of messages seen so
	// far. Arrival order is not preserved; set semantics are what the
	// compatibility check compares.
	Snapshot() []string
}

// Recording accumulates diagnostics in arrival order and never fails.
// Safe for concurrent writers. The zero value is ready to use.
type Recording struct {
	mu   sync.Mutex
	seen []Diagnostic
}

// NewRecording returns an empty recording collector.
func NewRecording() *Recording {
	return &Recording{}
}

// Emit appends the diagnostic. Always returns nil.
func (r *Recording) Emit(d Diagnostic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, d)
	return nil
}

// Snapshot returns the sorted unique message set.
func (r *Recording) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uniqueMessages(r.seen)
}

// All returns a copy of the diagnostics in arrival order.
func (r *Recording) All() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.seen))
	copy(out, r.seen)
	return out
}

// PolicyError is returned by a strict collector when a warning or error
// severity diagnostic is emitted outside the ignore set.
type PolicyError struct {
	Diagnostic Diagnostic
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("unexpected diagnostic: %s", e.Diagnostic)
}

// Strict wraps a recording collector with a fail-fast policy: the first
// warning or error severity diagnostic whose message is not in the ignore
// set fails the run via a *PolicyError. Notes always pass through.
type Strict struct {
	rec    Recording
	ignore map[string]struct{}
}

// NewStrict returns a strict collector that tolerates the given messages.
func NewStrict(ignored ...string) *Strict {
	ig := make(map[string]struct{}, len(ignored))
	for _, m := range ignored {
		ig[m] = struct{}{}
	}
	return &Strict{ignore: ig}
}

// Emit records the diagnostic and returns a *PolicyError for any
// non-ignored warning or error.
func (s *Strict) Emit(d Diagnostic) error {
	if err := s.rec.Emit(d); err != nil {
		return err
	}
	if d.Severity == SeverityNote {
		return nil
	}
	if _, ok := s.ignore[d.Message]; ok {
		return nil
	}
	return &PolicyError{Diagnostic: d}
}

// Snapshot returns the sorted unique message set.
func (s *Strict) Snapshot() []string {
	return s.rec.Snapshot()
}

// All returns a copy of the diagnostics in arrival order.
func (s *Strict) All() []Diagnostic {
	return s.rec.All()
}

// SevereMessages returns the sorted unique messages of the warning and
// error severity diagnostics in ds. Notes are informational; compatibility
// verification compares only the severe set against the expected set.
func SevereMessages(ds []Diagnostic) []string {
	severe := make([]Diagnostic, 0, len(ds))
	for _, d := range ds {
		if d.Severity >= SeverityWarning {
			severe = append(severe, d)
		}
	}
	return uniqueMessages(severe)
}

// SetDiff compares an expected message set against an actual one.
// Both sides are treated as sets; duplicates are collapsed. The returned
// slices are sorted and name the messages missing from actual and the
// messages present in actual but absent from expected.
func SetDiff(expected, actual []string) (missing, unexpected []string) {
	want := toSet(expected)
	got := toSet(actual)
	for m := range want {
		if _, ok := got[m]; !ok {
			missing = append(missing, m)
		}
	}
	for m := range got {
		if _, ok := want[m]; !ok {
			unexpected = append(unexpected, m)
		}
	}
	sort.Strings(missing)
	sort.Strings(unexpected)
	return missing, unexpected
}

func toSet(msgs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		set[m] = struct{}{}
	}
	return set
}

func uniqueMessages(ds []Diagnostic) []string {
	set := make(map[string]struct{}, len(ds))
	for _, d := range ds {
		set[d.Message] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
