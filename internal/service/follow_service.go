package service

import (
	"context"

	"warble/internal/models"
	"warble/internal/repository"
)

// FollowService provides follow-graph business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow creates a follow edge from the actor to the target. Self-follow
// is rejected. Following a user twice is surfaced as a conflict: the
// handler-level existence check catches the common case and the unique
// index on (follower_id, followee_id) backstops concurrent requests.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return models.NewValidationError("Cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	exists, err := s.followRepo.Exists(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return models.NewConflictError("Already following this user")
	}

	return s.followRepo.Create(ctx, actorID, targetID)
}

// Unfollow removes the follow edge from the actor to the target.
// Unfollowing a user who is not followed is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID uint) error {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, actorID, targetID)
}

// IsFollowing reports whether a follows b.
func (s *FollowService) IsFollowing(ctx context.Context, a, b uint) (bool, error) {
	return s.followRepo.Exists(ctx, a, b)
}

// IsFollowedBy reports whether a is followed by b.
func (s *FollowService) IsFollowedBy(ctx context.Context, a, b uint) (bool, error) {
	return s.followRepo.Exists(ctx, b, a)
}

// Following returns the users the given user follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowing(ctx, userID)
}

// Followers returns the users following the given user.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowers(ctx, userID)
}
