package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/oasgen/internal/genpipe"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestRecordRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.RecordRun(ctx, Run{
		Scenario:    "petstore",
		Kind:        KindReference,
		Document:    "testdata/documents/petstore.yaml",
		Modes:       genpipe.AllModes(),
		Pass:        true,
		Diagnostics: []string{"some warning"},
		Duration:    1500 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := s.ListRuns(ctx, "petstore", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "petstore", got.Scenario)
	assert.Equal(t, KindReference, got.Kind)
	assert.Equal(t, genpipe.AllModes(), got.Modes)
	assert.True(t, got.Pass)
	assert.Empty(t, got.Failure)
	assert.Equal(t, []string{"some warning"}, got.Diagnostics)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
}

func TestRecordRun_FailureCarriesMessage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.RecordRun(ctx, Run{
		Scenario: "zoo",
		Kind:     KindCompat,
		Document: "https://example.com/zoo.yaml",
		Modes:    []genpipe.Mode{genpipe.ModeTypes},
		Pass:     false,
		Failure:  "diagnostic set mismatch in scenario zoo",
	})
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, "zoo", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Pass)
	assert.Contains(t, runs[0].Failure, "set mismatch")
	assert.Empty(t, runs[0].Diagnostics)
}

func TestRecordRun_ValidatesInput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.RecordRun(ctx, Run{Kind: KindCompat})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario name is required")

	_, err = s.RecordRun(ctx, Run{Scenario: "x", Kind: "mystery"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown run kind "mystery"`)
}

func TestListRuns_FiltersAndLimits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.RecordRun(ctx, Run{
			Scenario: "petstore", Kind: KindReference, Document: "d", Pass: true,
		})
		require.NoError(t, err)
	}
	_, err := s.RecordRun(ctx, Run{Scenario: "zoo", Kind: KindCompat, Document: "d", Pass: false})
	require.NoError(t, err)

	all, err := s.ListRuns(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	petstore, err := s.ListRuns(ctx, "petstore", 2)
	require.NoError(t, err)
	assert.Len(t, petstore, 2)
	for _, r := range petstore {
		assert.Equal(t, "petstore", r.Scenario)
	}
}
