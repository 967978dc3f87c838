package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(id string, started time.Time) Run {
	return Run{
		ID:          id,
		StartedAt:   started,
		FinishedAt:  started.Add(30 * time.Second),
		InputSHA256: "deadbeef",
		Language:    "python",
		Status:      "completed",
		Libraries:   2,
		Issues:      1,
		Tests:       3,
	}
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := sampleRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Record(ctx, run))
	}

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// Newest first.
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-0", runs[2].ID)

	got := runs[0]
	assert.Equal(t, "deadbeef", got.InputSHA256)
	assert.Equal(t, "python", got.Language)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, 2, got.Libraries)
	assert.Equal(t, 1, got.Issues)
	assert.Equal(t, 3, got.Tests)
	assert.True(t, got.StartedAt.Equal(base.Add(2*time.Minute)))
}

func TestStore_RecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, sampleRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Second))))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	// Non-positive limit falls back to the default.
	runs, err = store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := sampleRun("run-1", time.Now())
	require.NoError(t, store.Record(ctx, run))
	assert.Error(t, store.Record(ctx, run))
}

func TestStore_EmptyJournal(t *testing.T) {
	store := openTestStore(t)

	runs, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStore_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), sampleRun("run-1", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
}
