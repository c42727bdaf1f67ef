package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
)

// UpdateProfileInput carries the optional fields of a profile update.
// A nil field is left unchanged.
type UpdateProfileInput struct {
	Name            *string
	Email           *string
	OldPassword     *string
	Password        *string
	ConfirmPassword *string
}

// UserService handles profile operations for an authenticated user
type UserService interface {
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error)
}

type userService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		logger:           logger,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	s.logger.Info("✏️ [UserService] Updating profile", "user_id", userID)

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != user.Name {
		if err := ensureNameFree(ctx, s.userRepo, *input.Name); err != nil {
			return nil, err
		}
		user.Name = *input.Name
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := ensureEmailFree(ctx, s.userRepo, *input.Email); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}

	passwordChanged := false
	if input.Password != nil || input.ConfirmPassword != nil {
		if input.Password == nil || input.ConfirmPassword == nil || *input.Password != *input.ConfirmPassword {
			return nil, ErrPasswordConfirmation
		}
		if input.OldPassword == nil || !CheckPassword(user.PasswordHash, *input.OldPassword) {
			s.logger.Warn("⚠️ [UserService] Old password mismatch", "user_id", userID)
			return nil, ErrPasswordMismatch
		}

		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		passwordChanged = true
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("❌ [UserService] Failed to update user", "user_id", userID, "error", err)
		return nil, err
	}

	// Existing sessions end with the old password
	if passwordChanged {
		if err := s.refreshTokenRepo.RevokeAllForUser(ctx, userID); err != nil {
			s.logger.Error("❌ [UserService] Failed to revoke sessions", "user_id", userID, "error", err)
		}
	}

	s.logger.Info("✅ [UserService] Profile updated", "user_id", userID)
	return user, nil
}
