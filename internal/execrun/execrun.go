// Package execrun invokes external executables and captures their output.
//
// One abstraction serves both subprocess consumers in the harness (the diff
// tool and the build toolchain) so the failure-capture behavior is uniform:
// on a non-zero exit the full stdout and stderr are available to the caller.
package execrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result captures one finished subprocess invocation.
type Result struct {
	ExitStatus int
	Stdout     string
	Stderr     string
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.ExitStatus == 0
}

// Detail renders the captured streams for inclusion in failure messages.
func (r Result) Detail() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "exit status %d", r.ExitStatus)
	if out := strings.TrimSpace(r.Stdout); out != "" {
		fmt.Fprintf(&buf, "\nstdout:\n%s", out)
	}
	if errOut := strings.TrimSpace(r.Stderr); errOut != "" {
		fmt.Fprintf(&buf, "\nstderr:\n%s", errOut)
	}
	return buf.String()
}

// Runner executes external commands. The harness depends on this interface
// so tests can substitute a scripted runner.
type Runner interface {
	// Run executes name with args in dir (empty dir means the current
	// working directory), blocking until the process exits. A non-zero
	// exit status is not an error; it is reported through the Result.
	// The returned error covers only failures to run at all: missing
	// executable, context cancellation, and the like.
	Run(ctx context.Context, name string, args []string, dir string) (Result, error)
}

// OSRunner executes commands on the host via os/exec.
type OSRunner struct{}

// Run implements Runner.
func (OSRunner) Run(ctx context.Context, name string, args []string, dir string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Context cancellation surfaces as a killed process; report it as
		// a run failure so a scenario timeout is not mistaken for a tool
		// verdict.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("run %s %v: %w", name, args, ctxErr)
		}
		res.ExitStatus = exitErr.ExitCode()
		return res, nil
	}

	return res, fmt.Errorf("run %s %v: %w", name, args, err)
}
