package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mbeckers/fabplan/internal/db"
	"github.com/mbeckers/fabplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeRepo_LookupMiss(t *testing.T) {
	repo := NewSQLiteCodeRepo(testutil.NewTestDB(t))

	_, ok, err := repo.Lookup(context.Background(), "no-such-signature")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCodeRepo_NextSeqStartsAtOneAndIncrements(t *testing.T) {
	repo := NewSQLiteCodeRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := repo.NextSeq(ctx, "GW")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Counters are independent per prefix.
	got, err := repo.NextSeq(ctx, "M")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestCodeRepo_PeekSeqDoesNotAdvance(t *testing.T) {
	repo := NewSQLiteCodeRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	peek, err := repo.PeekSeq(ctx, "GW")
	require.NoError(t, err)
	assert.Equal(t, 1, peek, "unseeded counter peeks as 1")

	peek, err = repo.PeekSeq(ctx, "GW")
	require.NoError(t, err)
	assert.Equal(t, 1, peek)

	_, err = repo.NextSeq(ctx, "GW")
	require.NoError(t, err)

	peek, err = repo.PeekSeq(ctx, "GW")
	require.NoError(t, err)
	assert.Equal(t, 2, peek)
}

func TestCodeRepo_StoreAndLookup(t *testing.T) {
	repo := NewSQLiteCodeRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	code, err := repo.Store(ctx, "sig-1", "GW", "GW-001")
	require.NoError(t, err)
	assert.Equal(t, "GW-001", code)

	got, ok, err := repo.Lookup(ctx, "sig-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "GW-001", got)
}

func TestCodeRepo_StoreFirstWriterWins(t *testing.T) {
	repo := NewSQLiteCodeRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	first, err := repo.Store(ctx, "sig-1", "GW", "GW-001")
	require.NoError(t, err)
	assert.Equal(t, "GW-001", first)

	// A losing concurrent commit gets the winner's code back.
	second, err := repo.Store(ctx, "sig-1", "GW", "GW-002")
	require.NoError(t, err)
	assert.Equal(t, "GW-001", second)
}

// newCodeTestDB creates a file-backed SQLite database: unlike :memory:,
// it shares state across the connection pool, which concurrent
// allocation needs.
func newCodeTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "codes_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestCodeRepo_ConcurrentNextSeqNeverDuplicates(t *testing.T) {
	repo := NewSQLiteCodeRepo(newCodeTestDB(t))
	ctx := context.Background()

	const n = 20
	results := make(chan int, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := repo.NextSeq(ctx, "GW")
			assert.NoError(t, err)
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool, n)
	for seq := range results {
		assert.False(t, seen[seq], "sequence %d allocated twice", seq)
		seen[seq] = true
	}
	assert.Len(t, seen, n)
}
