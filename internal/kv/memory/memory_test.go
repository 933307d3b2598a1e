package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/kv/memory"
)

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	key := kv.Key{User: "ana@example.com", Kind: kv.KindTransactions}

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	value := []byte(`[]`)
	require.NoError(t, s.Set(ctx, key, value))

	value[0] = 'x'

	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	other, err := s.Get(ctx, kv.Key{User: "bob@example.com", Kind: kv.KindTransactions})
	require.NoError(t, err)
	assert.Nil(t, other)
}
