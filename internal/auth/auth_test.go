package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financia/internal/auth"
	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/kv/memory"
	"github.com/MrJamesThe3rd/financia/internal/logging"
)

func newDirectory(store kv.Store) *auth.Directory {
	d := auth.NewDirectory(store, logging.Discard())
	d.UseMinCost()

	return d
}

func TestDirectory_Register(t *testing.T) {
	type args struct {
		name     string
		email    string
		password string
	}

	type testCase struct {
		name    string
		args    args
		wantErr error
	}

	tests := []testCase{
		{name: "Valid", args: args{name: "Ana", email: " Ana@Example.com ", password: "s3cretpass"}},
		{name: "MissingName", args: args{name: " ", email: "ana@example.com", password: "s3cretpass"}, wantErr: auth.ErrMissingName},
		{name: "InvalidEmail", args: args{name: "Ana", email: "ana-at-example", password: "s3cretpass"}, wantErr: auth.ErrInvalidEmail},
		{name: "ShortPassword", args: args{name: "Ana", email: "ana@example.com", password: "short"}, wantErr: auth.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDirectory(memory.New())

			got, err := d.Register(context.Background(), tt.args.name, tt.args.email, tt.args.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "ana@example.com", got.Email)
			assert.NotEmpty(t, got.ID)
			assert.NotEqual(t, tt.args.password, got.PasswordHash)
		})
	}
}

func TestDirectory_RegisterTwice(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(memory.New())

	_, err := d.Register(ctx, "Ana", "ana@example.com", "s3cretpass")
	require.NoError(t, err)

	_, err = d.Register(ctx, "Other Ana", "ANA@example.com", "anotherpass")
	require.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestDirectory_Verify(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := newDirectory(store).Register(ctx, "Ana", "ana@example.com", "s3cretpass")
	require.NoError(t, err)

	d := newDirectory(store)

	user, err := d.Verify(ctx, "ANA@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	_, err = d.Verify(ctx, "ana@example.com", "wrong-password")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = d.Verify(ctx, "nobody@example.com", "s3cretpass")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, found, err := d.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDirectory_UpdateName(t *testing.T) {
	type testCase struct {
		name    string
		email   string
		newName string
		wantErr error
	}

	tests := []testCase{
		{name: "Valid", email: "ANA@example.com", newName: "  Ana Souza "},
		{name: "BlankName", email: "ana@example.com", newName: "  ", wantErr: auth.ErrMissingName},
		{name: "UnknownUser", email: "bob@example.com", newName: "Bob", wantErr: auth.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.New()

			_, err := newDirectory(store).Register(ctx, "Ana", "ana@example.com", "s3cretpass")
			require.NoError(t, err)

			got, err := newDirectory(store).UpdateName(ctx, tt.email, tt.newName)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Ana Souza", got.Name)

			user, err := newDirectory(store).Verify(ctx, "ana@example.com", "s3cretpass")
			require.NoError(t, err)
			assert.Equal(t, "Ana Souza", user.Name)
		})
	}
}

func TestDirectory_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := kv.NewMockStore(ctrl)
	boom := errors.New("boom")

	store.EXPECT().Get(gomock.Any(), kv.Key{Kind: kv.KindUsers}).Return(nil, boom)

	_, err := newDirectory(store).Verify(context.Background(), "ana@example.com", "s3cretpass")
	require.ErrorIs(t, err, boom)
}

func TestTokens(t *testing.T) {
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	tokens.SetClock(func() time.Time { return now })

	raw, err := tokens.Issue("Ana@Example.com")
	require.NoError(t, err)

	email, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	t.Run("Expired", func(t *testing.T) {
		tokens.SetClock(func() time.Time { return now.Add(2 * time.Hour) })
		defer tokens.SetClock(func() time.Time { return now })

		_, err := tokens.Parse(raw)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("OtherSecret", func(t *testing.T) {
		other, err := auth.NewTokens("other-secret", time.Hour)
		require.NoError(t, err)

		_, err = other.Parse(raw)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tokens.Parse("not-a-token")
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	_, err = auth.NewTokens("", time.Hour)
	require.ErrorIs(t, err, auth.ErrMissingSecret)
}
