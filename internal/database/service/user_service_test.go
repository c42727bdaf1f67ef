package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/testutil"
)

func TestUserService_UpdateProfile(t *testing.T) {
	setup := func(t *testing.T) (service.UserService, repository.RefreshTokenRepository, *models.User) {
		t.Helper()

		db := testutil.NewTestDB(t)
		hash, err := service.HashPassword("secret123")
		require.NoError(t, err)

		user := &models.User{Name: "alice", Email: "alice@example.com", PasswordHash: hash}
		require.NoError(t, db.Create(user).Error)
		testutil.CreateUser(t, db, "bob", "bob@example.com")

		tokens := repository.NewRefreshTokenRepository(db)
		users := service.NewUserService(repository.NewUserRepository(db), tokens, testutil.TestLogger())
		return users, tokens, user
	}

	tests := []struct {
		name    string
		input   service.UpdateProfileInput
		wantErr error
	}{
		{
			name:    "name taken",
			input:   service.UpdateProfileInput{Name: ptr("bob")},
			wantErr: service.ErrNameTaken,
		},
		{
			name:    "email taken",
			input:   service.UpdateProfileInput{Email: ptr("bob@example.com")},
			wantErr: service.ErrEmailTaken,
		},
		{
			name:    "password without confirmation",
			input:   service.UpdateProfileInput{OldPassword: ptr("secret123"), Password: ptr("newpass1")},
			wantErr: service.ErrPasswordConfirmation,
		},
		{
			name: "confirmation differs",
			input: service.UpdateProfileInput{
				OldPassword: ptr("secret123"), Password: ptr("newpass1"), ConfirmPassword: ptr("newpass2"),
			},
			wantErr: service.ErrPasswordConfirmation,
		},
		{
			name:    "missing old password",
			input:   service.UpdateProfileInput{Password: ptr("newpass1"), ConfirmPassword: ptr("newpass1")},
			wantErr: service.ErrPasswordMismatch,
		},
		{
			name: "wrong old password",
			input: service.UpdateProfileInput{
				OldPassword: ptr("nope"), Password: ptr("newpass1"), ConfirmPassword: ptr("newpass1"),
			},
			wantErr: service.ErrPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _, user := setup(t)

			updated, err := users.UpdateProfile(t.Context(), user.ID, tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, updated)
		})
	}

	t.Run("unchanged name and email are not re-checked", func(t *testing.T) {
		users, _, user := setup(t)

		updated, err := users.UpdateProfile(t.Context(), user.ID, service.UpdateProfileInput{
			Name:  ptr("alice"),
			Email: ptr("alice@example.com"),
		})

		require.NoError(t, err)
		assert.Equal(t, "alice", updated.Name)
	})

	t.Run("password change revokes sessions", func(t *testing.T) {
		users, tokens, user := setup(t)
		require.NoError(t, tokens.Create(t.Context(), &models.RefreshToken{
			UserID:    user.ID,
			Token:     "session",
			ExpiresAt: time.Now().Add(time.Hour),
		}))

		updated, err := users.UpdateProfile(t.Context(), user.ID, service.UpdateProfileInput{
			Name:            ptr("alice2"),
			OldPassword:     ptr("secret123"),
			Password:        ptr("newpass1"),
			ConfirmPassword: ptr("newpass1"),
		})

		require.NoError(t, err)
		assert.Equal(t, "alice2", updated.Name)
		assert.True(t, service.CheckPassword(updated.PasswordHash, "newpass1"))

		_, err = tokens.FindActive(t.Context(), "session", time.Now())
		assert.Error(t, err)

		stored, err := users.GetProfile(t.Context(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice2", stored.Name)
	})

	t.Run("unknown user", func(t *testing.T) {
		users, _, _ := setup(t)

		_, err := users.UpdateProfile(t.Context(), 999, service.UpdateProfileInput{Name: ptr("x")})

		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
