package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florascan-inc/florascan/internal/domain/user"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	u, err := user.NewUser("Seven@Example.com", "Seven")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID())

	found, err := repo.GetByID(ctx, u.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "seven@example.com", found.Email())

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_GetByIDs(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	first, err := user.NewUser("one@example.com", "One")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := user.NewUser("two@example.com", "Two")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, second))

	users, err := repo.GetByIDs(ctx, []uint{first.ID(), second.ID(), 999})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
