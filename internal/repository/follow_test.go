package repository

import (
	"context"
	"testing"

	"warble/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	t.Run("Create and Exists", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, alice.ID, bob.ID))

		exists, err := repo.Exists(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		// The edge is directional.
		exists, err = repo.Exists(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate edge is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, alice.ID, bob.ID)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
		assert.Equal(t, "Already following this user", appErr.Message)

		var count int64
		db.Model(&models.Follow{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("GetFollowing and GetFollowers", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, carol.ID, bob.ID))

		following, err := repo.GetFollowing(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, following, 1)
		assert.Equal(t, "bob", following[0].Username)

		followers, err := repo.GetFollowers(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, followers, 2)

		followers, err = repo.GetFollowers(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, followers)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, alice.ID, bob.ID))

		exists, err := repo.Exists(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete absent edge is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.Delete(ctx, alice.ID, bob.ID))
	})
}
