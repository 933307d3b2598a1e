package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financia/internal/backend"
	"github.com/MrJamesThe3rd/financia/internal/config"
	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/logging"
)

func TestOpen(t *testing.T) {
	type testCase struct {
		name    string
		backend string
		cache   bool
	}

	tests := []testCase{
		{name: "Memory", backend: config.BackendMemory},
		{name: "MemoryCached", backend: config.BackendMemory, cache: true},
		{name: "SQLite", backend: config.BackendSQLite},
		{name: "SQLiteCached", backend: config.BackendSQLite, cache: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Config
			cfg.Storage.Backend = tt.backend
			cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "nested", "financia.db")
			cfg.Cache.Enabled = tt.cache
			cfg.Cache.MaxCost = 1 << 20

			res, err := backend.Open(&cfg, logging.Discard())
			require.NoError(t, err)

			t.Cleanup(func() { assert.NoError(t, res.Cleanup()) })

			ctx := context.Background()
			key := kv.Key{User: "ana@example.com", Kind: kv.KindTaxes}

			require.NoError(t, res.Store.Set(ctx, key, []byte(`[]`)))

			got, err := res.Store.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []byte(`[]`), got)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	var cfg config.Config
	cfg.Storage.Backend = "sheets"

	_, err := backend.Open(&cfg, logging.Discard())
	require.Error(t, err)
}
