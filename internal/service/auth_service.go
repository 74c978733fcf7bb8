// Package service implements business rules and authorization checks on
// top of the repository layer.
package service

import (
	"context"

	"warble/internal/credentials"
	"warble/internal/models"
	"warble/internal/repository"
	"warble/internal/validation"
)

// AuthService handles signup and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
}

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Signup validates the input and creates the user with a freshly hashed
// credential. A duplicate username or email surfaces as a CONFLICT error
// from the repository; nothing is persisted in that case.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := credentials.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       hashed,
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate looks up the user by username and verifies the password
// against the stored hash. Unknown username and wrong password are
// indistinguishable: both return (nil, nil). This anti-enumeration
// property is deliberate.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if !credentials.Verify(user.Password, password) {
		return nil, nil
	}
	return user, nil
}
