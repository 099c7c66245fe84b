package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/FriggD/controle-gastos-residenciais/internal/storage"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *storage.SQLRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "ledger.db")
	repo, err := storage.NewSQLiteRepository(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store { return newSQLite(t) })
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, storage.RunMigrations(storage.DialectSQLite, path))
	require.NoError(t, storage.RunMigrations(storage.DialectSQLite, path))

	v, dirty, err := storage.MigrationVersion(storage.DialectSQLite, path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	_, err := storage.Open(context.Background(), storage.Dialect("postgres"), "x")
	assert.Error(t, err)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	repo, err := storage.NewSQLiteRepository(ctx, path)
	require.NoError(t, err)
	p := storetest.MustPerson(t, repo, "Maria Santos", 25)
	require.NoError(t, repo.Close())

	repo, err = storage.NewSQLiteRepository(ctx, path)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.GetPerson(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", got.Name)
}
