package service

import (
	"context"
	"testing"

	"github.com/mbeckers/fabplan/internal/repository"
	"github.com/mbeckers/fabplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogTestService(t *testing.T) CatalogService {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewCatalogService(
		repository.NewSQLiteOperationRepo(database),
		repository.NewSQLiteStationRepo(database),
		repository.NewSQLiteWorkerRepo(database),
	)
}

func TestCatalogService_CreateStationValidatesOperationRefs(t *testing.T) {
	svc := newCatalogTestService(t)
	ctx := context.Background()

	st := testutil.NewTestStation("st1", "Welding Bay",
		testutil.WithStationOperations("op-ghost"))
	err := svc.CreateStation(ctx, st)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, svc.CreateOperation(ctx, testutil.NewTestOperation("op-weld", "Weld")))
	st.OperationIDs = []string{"op-weld"}
	assert.NoError(t, svc.CreateStation(ctx, st))
}

func TestCatalogService_RejectsMissingIdentity(t *testing.T) {
	svc := newCatalogTestService(t)
	ctx := context.Background()

	assert.Error(t, svc.CreateOperation(ctx, testutil.NewTestOperation("", "Weld")))
	assert.Error(t, svc.CreateOperation(ctx, testutil.NewTestOperation("op-weld", "")))
	assert.Error(t, svc.CreateWorker(ctx, testutil.NewTestWorker("", "Dana")))
	assert.Error(t, svc.CreateStation(ctx, testutil.NewTestStation("st1", "")))
}
