package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/graham-screener/internal/database"
	"github.com/ndewijer/graham-screener/internal/repository"
	"github.com/ndewijer/graham-screener/internal/testutil"
)

func openFileDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "data", "screener.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func TestOpen_PragmasOnEveryConnection(t *testing.T) {
	db := openFileDB(t)
	ctx := context.Background()

	// Hold several connections at once so the pool has to open new ones.
	conns := make([]*sql.Conn, 4)
	for i := range conns {
		c, err := db.Conn(ctx)
		require.NoError(t, err)
		conns[i] = c
	}
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()

	for i, c := range conns {
		var timeout, foreignKeys int
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))

		assert.Equal(t, 5000, timeout, "connection %d", i)
		assert.Equal(t, 1, foreignKeys, "connection %d", i)
	}
}

func TestOpen_ConcurrentSaves(t *testing.T) {
	db := openFileDB(t)
	repo := repository.NewFundamentalsRepository(db)

	const writers = 16
	g, ctx := errgroup.WithContext(context.Background())
	for i := range writers {
		g.Go(func() error {
			return repo.Save(ctx, testutil.NewFundamentals(fmt.Sprintf("SYM%02d", i)).Record())
		})
	}
	require.NoError(t, g.Wait())

	testutil.AssertRowCount(t, db, "fundamentals", writers)
}

func TestOpen_Memory(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, database.Migrate(context.Background(), db))

	version, pending, err := database.SchemaVersion(context.Background(), db)
	require.NoError(t, err)
	assert.Positive(t, version)
	assert.False(t, pending)
}
