package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryProviderCreateUser(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider()

	user, err := provider.CreateUser(ctx, CreateUserParams{
		Email:          "a@x.com",
		Password:       "Xy7mKp2nQr4s",
		EmailConfirmed: true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "", user.ID.String())
	assert.Equal(t, "a@x.com", user.Email)
	assert.True(t, user.EmailConfirmed)

	// Same email again is a duplicate
	_, err = provider.CreateUser(ctx, CreateUserParams{Email: "a@x.com", Password: "other"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestInMemoryProviderDeleteUser(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider()

	user, err := provider.CreateUser(ctx, CreateUserParams{Email: "a@x.com", Password: "pwd"})
	require.NoError(t, err)

	require.NoError(t, provider.DeleteUser(ctx, user.ID))

	users, err := provider.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	// Delete is idempotent
	require.NoError(t, provider.DeleteUser(ctx, user.ID))
}

func TestResolveByEmail(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider()

	created, err := provider.CreateUser(ctx, CreateUserParams{Email: "a@x.com", Password: "pwd"})
	require.NoError(t, err)

	found, ok, err := ResolveByEmail(ctx, provider, "a@x.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, found.ID)

	// Exact match only, as stored by the provider
	_, ok, err = ResolveByEmail(ctx, provider, "A@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = ResolveByEmail(ctx, provider, "missing@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
