package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mbeckers/fabplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scheduleBase = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

// newScheduleTestRepo creates a schedule repo whose database has the
// given workers seeded, satisfying the worker_id foreign key.
func newScheduleTestRepo(t *testing.T, workerIDs ...string) *SQLiteScheduleRepo {
	t.Helper()
	database := testutil.NewTestDB(t)
	workers := NewSQLiteWorkerRepo(database)
	for _, id := range workerIDs {
		require.NoError(t, workers.Create(context.Background(), testutil.NewTestWorker(id, id)))
	}
	return NewSQLiteScheduleRepo(database)
}

func TestScheduleRepo_ListOverlapping(t *testing.T) {
	repo := newScheduleTestRepo(t, "w1", "w2")
	ctx := context.Background()

	// w1: 08:00-09:00 and 11:00-12:00. w2: 08:00-09:00.
	require.NoError(t, repo.Create(ctx, testutil.NewTestEntry("e1", "w1", scheduleBase, scheduleBase.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestEntry("e2", "w1", scheduleBase.Add(3*time.Hour), scheduleBase.Add(4*time.Hour))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestEntry("e3", "w2", scheduleBase, scheduleBase.Add(time.Hour))))

	// 08:30-09:30 overlaps only e1 for w1.
	got, err := repo.ListOverlapping(ctx, "w1", scheduleBase.Add(30*time.Minute), scheduleBase.Add(90*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)

	// A window covering the whole day returns both of w1's entries,
	// ordered by start.
	got, err = repo.ListOverlapping(ctx, "w1", scheduleBase, scheduleBase.Add(9*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e2", got[1].ID)
}

func TestScheduleRepo_HalfOpenWindowBoundaries(t *testing.T) {
	repo := newScheduleTestRepo(t, "w1")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestEntry("e1", "w1", scheduleBase, scheduleBase.Add(time.Hour))))

	// A window starting exactly at the entry's end does not overlap.
	got, err := repo.ListOverlapping(ctx, "w1", scheduleBase.Add(time.Hour), scheduleBase.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)

	// A window ending exactly at the entry's start does not overlap.
	got, err = repo.ListOverlapping(ctx, "w1", scheduleBase.Add(-time.Hour), scheduleBase)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScheduleRepo_ListByWorker(t *testing.T) {
	repo := newScheduleTestRepo(t, "w1")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestEntry("e2", "w1", scheduleBase.Add(time.Hour), scheduleBase.Add(2*time.Hour))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestEntry("e1", "w1", scheduleBase, scheduleBase.Add(time.Hour))))

	got, err := repo.ListByWorker(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.True(t, got[0].StartAt.Equal(scheduleBase))
}

func TestScheduleRepo_DeleteByPlan(t *testing.T) {
	repo := newScheduleTestRepo(t, "w1")
	ctx := context.Background()

	e := testutil.NewTestEntry("e1", "w1", scheduleBase, scheduleBase.Add(time.Hour))
	e.PlanID = "p1"
	require.NoError(t, repo.Create(ctx, e))

	other := testutil.NewTestEntry("e2", "w1", scheduleBase.Add(time.Hour), scheduleBase.Add(2*time.Hour))
	other.PlanID = "p2"
	require.NoError(t, repo.Create(ctx, other))

	require.NoError(t, repo.DeleteByPlan(ctx, "p1"))

	got, err := repo.ListByWorker(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e2", got[0].ID)
}
