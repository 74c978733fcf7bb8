package service

import (
	"context"

	"warble/internal/credentials"
	"warble/internal/models"
	"warble/internal/repository"
	"warble/internal/validation"
)

// UserService provides profile and account management.
type UserService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
}

// UpdateProfileInput carries the editable profile fields. ConfirmPassword
// must match the stored credential before any field is mutated.
type UpdateProfileInput struct {
	UserID          uint
	Username        string
	Email           string
	ImageURL        string
	HeaderImageURL  string
	Bio             string
	Location        string
	ConfirmPassword string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, messageRepo repository.MessageRepository) *UserService {
	return &UserService{userRepo: userRepo, messageRepo: messageRepo}
}

// GetProfile returns the user together with the number of likes they have given.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, int64, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	likeCount, err := s.messageRepo.CountLikesByUser(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return user, likeCount, nil
}

// SearchUsers lists users, optionally filtered by a username substring.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	return s.userRepo.Search(ctx, query, limit, offset)
}

// UpdateProfile re-verifies the confirm password against the stored
// credential before applying any change. On re-authentication failure no
// fields are mutated.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if !credentials.Verify(user.Password, in.ConfirmPassword) {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}

	// Cleared image fields fall back to the defaults.
	user.ImageURL = in.ImageURL
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultImageURL
	}
	user.HeaderImageURL = in.HeaderImageURL
	if user.HeaderImageURL == "" {
		user.HeaderImageURL = models.DefaultHeaderImageURL
	}
	user.Bio = in.Bio
	user.Location = in.Location

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user and everything they own. The repository
// performs the cascade in a single transaction.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
