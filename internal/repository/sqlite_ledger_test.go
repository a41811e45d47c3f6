package repository

import (
	"context"
	"testing"

	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/mbeckers/fabplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepo_UpsertIsIdempotentPerCode(t *testing.T) {
	repo := NewSQLiteLedgerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.LedgerEntry{
		SemiCode: "GW-001", Name: "Welded frame", Quantity: 4, Unit: "pcs",
		PlanID: "p1", NodeID: "n1",
	}))
	require.NoError(t, repo.Upsert(ctx, &domain.LedgerEntry{
		SemiCode: "GW-001", Name: "Welded frame", Quantity: 6, Unit: "pcs",
		PlanID: "p1", NodeID: "n1",
	}))

	got, err := repo.Get(ctx, "GW-001")
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.Quantity, "later upsert wins")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLedgerRepo_GetNotFound(t *testing.T) {
	repo := NewSQLiteLedgerRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "GW-999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedgerRepo_ListOrderedByCode(t *testing.T) {
	repo := NewSQLiteLedgerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.LedgerEntry{SemiCode: "M-002", Name: "B", Quantity: 1, Unit: "pcs"}))
	require.NoError(t, repo.Upsert(ctx, &domain.LedgerEntry{SemiCode: "GW-001", Name: "A", Quantity: 1, Unit: "pcs"}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "GW-001", all[0].SemiCode)
	assert.Equal(t, "M-002", all[1].SemiCode)
}

func TestOperationRepo_RoundTripAndListByIDs(t *testing.T) {
	repo := NewSQLiteOperationRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	op := testutil.NewTestOperation("op-weld", "Weld",
		testutil.WithOperationSkills("Welding", "Safety"),
		testutil.WithOutputCode("W"))
	require.NoError(t, repo.Create(ctx, op))

	got, err := repo.GetByID(ctx, "op-weld")
	require.NoError(t, err)
	assert.Equal(t, "Weld", got.Name)
	assert.Equal(t, []string{"Welding", "Safety"}, got.Skills)
	assert.Equal(t, "W", got.OutputCode)

	none, err := repo.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkerRepo_RoundTrip(t *testing.T) {
	repo := NewSQLiteWorkerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	w := testutil.NewTestWorker("w1", "Dana", testutil.WithWorkerSkills("Welding"))
	require.NoError(t, repo.Create(ctx, w))

	got, err := repo.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "Dana", got.Name)
	assert.Equal(t, []string{"Welding"}, got.Skills)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
