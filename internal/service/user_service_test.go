package service

import (
	"context"
	"testing"

	"warble/internal/credentials"
	"warble/internal/models"
)

func storedUserWithPassword(t *testing.T, plaintext string) *models.User {
	t.Helper()
	hashed, err := credentials.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &models.User{
		ID:             1,
		Username:       "alice",
		Email:          "alice@example.com",
		Password:       hashed,
		ImageURL:       models.DefaultImageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
}

func TestUserServiceGetProfile(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return &models.User{ID: 1, Username: "alice"}, nil
	}
	messages := noopMessageRepo()
	messages.countLikesByUserFn = func(context.Context, uint) (int64, error) { return 4, nil }

	svc := NewUserService(users, messages)
	user, likes, err := svc.GetProfile(context.Background(), 1)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if user.Username != "alice" || likes != 4 {
		t.Fatalf("unexpected profile: %v likes=%d", user, likes)
	}
}

func TestUserServiceUpdateProfileWrongPassword(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return storedUserWithPassword(t, "password123"), nil
	}
	users.updateFn = func(context.Context, *models.User) error {
		t.Fatal("update must not run when re-authentication fails")
		return nil
	}

	svc := NewUserService(users, noopMessageRepo())
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:          1,
		Username:        "newname",
		ConfirmPassword: "wrong-password",
	})
	assertAppError(t, err, "UNAUTHORIZED")
}

func TestUserServiceUpdateProfile(t *testing.T) {
	var updated *models.User
	users := noopUserRepo()
	users.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return storedUserWithPassword(t, "password123"), nil
	}
	users.updateFn = func(_ context.Context, user *models.User) error {
		updated = user
		return nil
	}

	svc := NewUserService(users, noopMessageRepo())
	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:          1,
		Username:        "newname",
		Email:           "new@example.com",
		Bio:             "Updated bio",
		Location:        "Somewhere",
		ConfirmPassword: "password123",
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated == nil {
		t.Fatal("update never reached the repository")
	}
	if user.Username != "newname" || user.Email != "new@example.com" {
		t.Fatalf("fields not applied: %v", user)
	}
	if user.Bio != "Updated bio" || user.Location != "Somewhere" {
		t.Fatalf("bio/location not applied: %v", user)
	}
	// Cleared image fields fall back to the defaults.
	if user.ImageURL != models.DefaultImageURL || user.HeaderImageURL != models.DefaultHeaderImageURL {
		t.Fatalf("expected default images, got %q %q", user.ImageURL, user.HeaderImageURL)
	}
}

func TestUserServiceUpdateProfileInvalidUsername(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return storedUserWithPassword(t, "password123"), nil
	}
	users.updateFn = func(context.Context, *models.User) error {
		t.Fatal("update must not run on invalid input")
		return nil
	}

	svc := NewUserService(users, noopMessageRepo())
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:          1,
		Username:        "x",
		ConfirmPassword: "password123",
	})
	assertAppError(t, err, "VALIDATION_ERROR")
}

func TestUserServiceDeleteAccountUnknownUser(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	users.deleteFn = func(context.Context, uint) error {
		t.Fatal("delete must not run for an unknown user")
		return nil
	}

	svc := NewUserService(users, noopMessageRepo())
	assertAppError(t, svc.DeleteAccount(context.Background(), 99), "NOT_FOUND")
}
