package repository

import (
	"context"
	"testing"

	"github.com/mbeckers/fabplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationRepo_CreateAndGetByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	stations := NewSQLiteStationRepo(database)
	ctx := context.Background()

	s := testutil.NewTestStation("st1", "Welding Bay", testutil.WithSubSkills("Safety"))
	require.NoError(t, stations.Create(ctx, s))

	fetched, err := stations.GetByID(ctx, "st1")
	require.NoError(t, err)
	assert.Equal(t, "Welding Bay", fetched.Name)
	assert.Equal(t, []string{"Safety"}, fetched.SubSkills)
}

func TestStationRepo_GetByID_NotFound(t *testing.T) {
	stations := NewSQLiteStationRepo(testutil.NewTestDB(t))

	_, err := stations.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStationRepo_EffectiveSkillsUnionOpsAndSubSkills(t *testing.T) {
	database := testutil.NewTestDB(t)
	ops := NewSQLiteOperationRepo(database)
	stations := NewSQLiteStationRepo(database)
	ctx := context.Background()

	require.NoError(t, ops.Create(ctx, testutil.NewTestOperation("op-weld", "Weld",
		testutil.WithOperationSkills("Welding"))))
	require.NoError(t, ops.Create(ctx, testutil.NewTestOperation("op-grind", "Grind",
		testutil.WithOperationSkills("Grinding", "Welding"))))

	s := testutil.NewTestStation("st1", "Welding Bay",
		testutil.WithStationOperations("op-weld", "op-grind"),
		testutil.WithSubSkills("Safety"))
	require.NoError(t, stations.Create(ctx, s))

	fetched, err := stations.GetByID(ctx, "st1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Grinding", "Safety", "Welding"}, fetched.EffectiveSkills)
}

func TestStationRepo_SupportedOperations(t *testing.T) {
	database := testutil.NewTestDB(t)
	ops := NewSQLiteOperationRepo(database)
	stations := NewSQLiteStationRepo(database)
	ctx := context.Background()

	require.NoError(t, ops.Create(ctx, testutil.NewTestOperation("op-weld", "Weld", testutil.WithOutputCode("W"))))
	require.NoError(t, ops.Create(ctx, testutil.NewTestOperation("op-grind", "Grind", testutil.WithOutputCode("G"))))
	require.NoError(t, ops.Create(ctx, testutil.NewTestOperation("op-paint", "Paint", testutil.WithOutputCode("P"))))

	s := testutil.NewTestStation("st1", "Welding Bay",
		testutil.WithStationOperations("op-weld", "op-grind"))
	require.NoError(t, stations.Create(ctx, s))

	supported, err := stations.SupportedOperations(ctx, "st1")
	require.NoError(t, err)
	require.Len(t, supported, 2)
	assert.Equal(t, "op-grind", supported[0].ID)
	assert.Equal(t, "op-weld", supported[1].ID)
}

func TestStationRepo_ListOrderedByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	stations := NewSQLiteStationRepo(database)
	ctx := context.Background()

	require.NoError(t, stations.Create(ctx, testutil.NewTestStation("st2", "Paint Booth")))
	require.NoError(t, stations.Create(ctx, testutil.NewTestStation("st1", "Welding Bay")))

	list, err := stations.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "st1", list[0].ID)
	assert.Equal(t, "st2", list[1].ID)
}
