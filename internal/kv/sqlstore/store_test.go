package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financia/internal/database"
	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/kv/sqlstore"
)

func newSQLiteStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "financia.db")
	require.NoError(t, database.Migrate(database.SQLite, path))

	db, err := database.NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlstore.New(db, database.SQLite)
}

func TestStore_SQLite(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	key := kv.Key{User: "ana@example.com", Kind: kv.KindTaxes}

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set(ctx, key, []byte(`[{"id":"1"}]`)))
	require.NoError(t, s.Set(ctx, key, []byte(`[]`)))

	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	other, err := s.Get(ctx, kv.Key{User: "ana@example.com", Kind: kv.KindInvestments})
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "financia.db")

	require.NoError(t, database.Migrate(database.SQLite, path))
	require.NoError(t, database.Migrate(database.SQLite, path))
}
