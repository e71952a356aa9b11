package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failure (mismatch, diagnostic set difference, build failure)
	ExitCommandError = 2 // Command error (invalid paths, malformed scenario files, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ScenarioResult is one scenario's verdict in command output.
type ScenarioResult struct {
	Name    string `json:"name"`
	Pass    bool   `json:"pass"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuiteResult is the overall command output.
type SuiteResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Skipped   int              `json:"skipped,omitempty"`
	Total     int              `json:"total"`
}

// Add tallies one scenario result.
func (s *SuiteResult) Add(r ScenarioResult) {
	s.Scenarios = append(s.Scenarios, r)
	s.Total++
	switch {
	case r.Skipped:
		s.Skipped++
	case r.Pass:
		s.Passed++
	default:
		s.Failed++
	}
}

var (
	passMark = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	skipMark = color.New(color.FgYellow).SprintFunc()
)

// writeSuiteText renders the verdicts for terminals.
func writeSuiteText(w io.Writer, result SuiteResult) error {
	for _, r := range result.Scenarios {
		switch {
		case r.Skipped:
			fmt.Fprintf(w, "%s %s\n", skipMark("SKIP"), r.Name)
		case r.Pass:
			fmt.Fprintf(w, "%s %s\n", passMark("PASS"), r.Name)
		default:
			fmt.Fprintf(w, "%s %s\n", failMark("FAIL"), r.Name)
			if r.Error != "" {
				fmt.Fprintf(w, "    %s\n", r.Error)
			}
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed", result.Passed, result.Failed)
	if result.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", result.Skipped)
	}
	fmt.Fprintf(w, " (%d total)\n", result.Total)
	return nil
}

// writeSuiteJSON renders the verdicts for machine consumption.
func writeSuiteJSON(w io.Writer, result SuiteResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeSuite(w io.Writer, format string, result SuiteResult) error {
	if format == "json" {
		return writeSuiteJSON(w, result)
	}
	return writeSuiteText(w, result)
}
