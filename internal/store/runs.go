package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calder/oasgen/internal/genpipe"
)

// Kind distinguishes the two scenario families.
type Kind string

const (
	KindReference Kind = "reference"
	KindCompat    Kind = "compat"
)

// Run is one recorded scenario execution.
type Run struct {
	ID          string
	Scenario    string
	Kind        Kind
	Document    string
	Modes       []genpipe.Mode
	Pass        bool
	Failure     string
	Diagnostics []string
	Duration    time.Duration
	CreatedAt   time.Time
}

// RecordRun persists one scenario verdict. The run's ID is assigned here.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	if run.Scenario == "" {
		return "", fmt.Errorf("scenario name is required")
	}
	if run.Kind != KindReference && run.Kind != KindCompat {
		return "", fmt.Errorf("unknown run kind %q", run.Kind)
	}

	id := uuid.NewString()
	diagJSON, err := json.Marshal(orEmpty(run.Diagnostics))
	if err != nil {
		return "", fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, kind, document, modes, pass, failure, diagnostics, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, run.Scenario, string(run.Kind), run.Document, joinModes(run.Modes),
		boolToInt(run.Pass), run.Failure, string(diagJSON), run.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// ListRuns returns the recorded runs for a scenario, most recent first.
// An empty scenario name lists every run. Limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, scenario string, limit int) ([]Run, error) {
	query := `
		SELECT id, scenario, kind, document, modes, pass, failure, diagnostics, duration_ms, created_at
		FROM runs`
	args := []any{}
	if scenario != "" {
		query += " WHERE scenario = ?"
		args = append(args, scenario)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			kind       string
			modes      string
			pass       int
			diagJSON   string
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(&run.ID, &run.Scenario, &kind, &run.Document, &modes,
			&pass, &run.Failure, &diagJSON, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Kind = Kind(kind)
		run.Modes = splitModes(modes)
		run.Pass = pass != 0
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(diagJSON), &run.Diagnostics); err != nil {
			return nil, fmt.Errorf("failed to decode diagnostics for run %s: %w", run.ID, err)
		}
		if ts, err := time.Parse("2006-01-02T15:04:05.999Z", createdAt); err == nil {
			run.CreatedAt = ts
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func joinModes(modes []genpipe.Mode) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}

func splitModes(s string) []genpipe.Mode {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	modes := make([]genpipe.Mode, len(parts))
	for i, p := range parts {
		modes[i] = genpipe.Mode(p)
	}
	return modes
}

func orEmpty(msgs []string) []string {
	if msgs == nil {
		return []string{}
	}
	return msgs
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
