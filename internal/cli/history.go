package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calder/oasgen/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath   string
	Scenario string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scenario runs",
		Long: `List recorded scenario runs from the run database, most recent
first.

Examples:
  oasgen history --db runs.db
  oasgen history --db runs.db --scenario petstore --limit 10`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite run database (required)")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "filter by scenario name")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	s, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open run database", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context(), opts.Scenario, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(historyJSON(runs)); err != nil {
			return WrapExitError(ExitCommandError, "failed to write runs", err)
		}
		return nil
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "no recorded runs")
		return nil
	}
	for _, run := range runs {
		mark := passMark("PASS")
		if !run.Pass {
			mark = failMark("FAIL")
		}
		fmt.Fprintf(w, "%s %-10s %-20s %s (%s)\n",
			mark, run.Kind, run.Scenario, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Duration)
		if run.Failure != "" {
			fmt.Fprintf(w, "    %s\n", firstLine(run.Failure))
		}
	}
	return nil
}

// historyRun is the JSON projection of a recorded run.
type historyRun struct {
	ID          string   `json:"id"`
	Scenario    string   `json:"scenario"`
	Kind        string   `json:"kind"`
	Document    string   `json:"document,omitempty"`
	Pass        bool     `json:"pass"`
	Failure     string   `json:"failure,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
	DurationMS  int64    `json:"duration_ms"`
	CreatedAt   string   `json:"created_at"`
}

func historyJSON(runs []store.Run) []historyRun {
	out := make([]historyRun, 0, len(runs))
	for _, run := range runs {
		out = append(out, historyRun{
			ID:          run.ID,
			Scenario:    run.Scenario,
			Kind:        string(run.Kind),
			Document:    run.Document,
			Pass:        run.Pass,
			Failure:     run.Failure,
			Diagnostics: run.Diagnostics,
			DurationMS:  run.Duration.Milliseconds(),
			CreatedAt:   run.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
