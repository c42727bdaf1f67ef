package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/testutil"
)

func TestUserRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := t.Context()

	user := &models.User{Name: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byName, err := repo.FindByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	err = repo.Create(ctx, &models.User{Name: "alice", Email: "other@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	err = repo.Create(ctx, &models.User{Name: "other", Email: "alice@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	user.Name = "alice2"
	require.NoError(t, repo.Update(ctx, user))
	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", stored.Name)
}

func TestRefreshTokenRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewRefreshTokenRepository(db)
	ctx := t.Context()
	user := testutil.CreateUser(t, db, "alice", "alice@example.com")
	now := testutil.Now

	require.NoError(t, repo.Create(ctx, &models.RefreshToken{UserID: user.ID, Token: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.RefreshToken{UserID: user.ID, Token: "old", ExpiresAt: now.Add(-time.Hour)}))

	t.Run("find active", func(t *testing.T) {
		token, err := repo.FindActive(ctx, "live", now)
		require.NoError(t, err)
		assert.Equal(t, user.ID, token.UserID)

		_, err = repo.FindActive(ctx, "old", now)
		assert.ErrorIs(t, err, repository.ErrTokenExpired)

		_, err = repo.FindActive(ctx, "missing", now)
		assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	})

	t.Run("delete expired", func(t *testing.T) {
		deleted, err := repo.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
	})

	t.Run("revoke", func(t *testing.T) {
		require.NoError(t, repo.Revoke(ctx, "live"))
		assert.ErrorIs(t, repo.Revoke(ctx, "live"), repository.ErrTokenNotFound)

		_, err := repo.FindActive(ctx, "live", now)
		assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	})

	t.Run("revoke all for user", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.RefreshToken{UserID: user.ID, Token: "a", ExpiresAt: now.Add(time.Hour)}))
		require.NoError(t, repo.Create(ctx, &models.RefreshToken{UserID: user.ID, Token: "b", ExpiresAt: now.Add(time.Hour)}))

		require.NoError(t, repo.RevokeAllForUser(ctx, user.ID))

		_, err := repo.FindActive(ctx, "a", now)
		assert.ErrorIs(t, err, repository.ErrTokenNotFound)
		_, err = repo.FindActive(ctx, "b", now)
		assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	})
}

func TestFileRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFileRepository(db)
	ctx := t.Context()

	file := &models.File{Name: "cover.png", Path: "files/2030/01/01/a.png"}
	require.NoError(t, repo.Create(ctx, file))

	found, err := repo.FindByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "files/2030/01/01/a.png", found.Path)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrFileNotFound)

	err = repo.Create(ctx, &models.File{Name: "again.png", Path: "files/2030/01/01/a.png"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
}
