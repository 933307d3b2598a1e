package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/kv/memory"
	"github.com/MrJamesThe3rd/financia/internal/matching"
	"github.com/MrJamesThe3rd/financia/internal/matching/store"
)

func TestStore_FindMatch(t *testing.T) {
	ctx := context.Background()
	s := store.New(memory.New())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, r := range []matching.Rule{
		{Pattern: "uber", Description: "Uber ride", Category: "transport", CreatedAt: base},
		{Pattern: "uber eats", Description: "Uber Eats", Category: "food", CreatedAt: base},
		{Pattern: "ifood", Description: "iFood (old)", CreatedAt: base},
		{Pattern: "IFOOD", Description: "iFood", Category: "food", CreatedAt: base.Add(time.Hour)},
	} {
		require.NoError(t, s.CreateRule(ctx, "ana@example.com", r))
	}

	type testCase struct {
		name    string
		user    string
		raw     string
		want    string
		wantHit bool
	}

	tests := []testCase{
		{name: "LongestPatternWins", user: "ana@example.com", raw: "COMPRA UBER EATS 123", want: "Uber Eats", wantHit: true},
		{name: "ShortPattern", user: "ana@example.com", raw: "uber *trip", want: "Uber ride", wantHit: true},
		{name: "NewestWinsOnTie", user: "ana@example.com", raw: "pag ifood sp", want: "iFood", wantHit: true},
		{name: "NoMatch", user: "ana@example.com", raw: "PADARIA"},
		{name: "OtherUser", user: "bob@example.com", raw: "uber eats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := s.FindMatch(ctx, tt.user, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHit, ok)
			assert.Equal(t, tt.want, got.Description)
		})
	}
}

func TestStore_MalformedRules(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()
	require.NoError(t, backing.Set(ctx, kv.Key{User: "ana@example.com", Kind: kv.KindRules}, []byte("{")))

	_, _, err := store.New(backing).FindMatch(ctx, "ana@example.com", "uber")
	require.Error(t, err)
}
