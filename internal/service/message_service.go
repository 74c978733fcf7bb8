package service

import (
	"context"

	"warble/internal/models"
	"warble/internal/repository"
	"warble/internal/validation"
)

// HomeFeedLimit caps the number of messages returned by the home feed.
const HomeFeedLimit = 100

// MessageService provides message posting, deletion, likes, and feeds.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// Post creates a message owned by the actor with a server-assigned timestamp.
func (s *MessageService) Post(ctx context.Context, actorID uint, text string) (*models.Message, error) {
	if err := validation.ValidateMessageText(text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	message := &models.Message{
		Text:   text,
		UserID: actorID,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// Get returns a single message with like details for the current user.
func (s *MessageService) Get(ctx context.Context, id uint, currentUserID uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id, currentUserID)
}

// MessagesByUser returns a user's messages, newest first.
func (s *MessageService) MessagesByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// Delete removes a message. Only the owner may delete it.
func (s *MessageService) Delete(ctx context.Context, actorID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID, 0)
	if err != nil {
		return err
	}
	if message.UserID != actorID {
		return models.NewUnauthorizedError("You can only delete your own messages")
	}
	return s.messageRepo.Delete(ctx, messageID)
}

// Like adds the message to the actor's liked set. Liking one's own message
// is unauthorized, never a silent no-op.
func (s *MessageService) Like(ctx context.Context, actorID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID, 0)
	if err != nil {
		return err
	}
	if message.UserID == actorID {
		return models.NewUnauthorizedError("You cannot like your own message")
	}
	return s.messageRepo.Like(ctx, actorID, messageID)
}

// Unlike removes the message from the actor's liked set. Unliking a message
// that is not liked is a no-op.
func (s *MessageService) Unlike(ctx context.Context, actorID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID, 0)
	if err != nil {
		return err
	}
	if message.UserID == actorID {
		return models.NewUnauthorizedError("You cannot unlike your own message")
	}
	return s.messageRepo.Unlike(ctx, actorID, messageID)
}

// LikedMessages returns the messages a user has liked, most recent like first.
func (s *MessageService) LikedMessages(ctx context.Context, userID uint, currentUserID uint) ([]*models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetLikedMessages(ctx, userID, currentUserID)
}

// HomeFeed returns the most recent messages from the actor and everyone
// they follow. An anonymous actor (ID zero) gets an empty feed.
func (s *MessageService) HomeFeed(ctx context.Context, actorID uint) ([]*models.Message, error) {
	if actorID == 0 {
		return []*models.Message{}, nil
	}
	return s.messageRepo.HomeFeed(ctx, actorID, HomeFeedLimit)
}
