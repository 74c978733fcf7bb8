package repository

import (
	"context"
	"errors"

	"warble/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for messages and likes.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Message, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error)
	HomeFeed(ctx context.Context, userID uint, limit int) ([]*models.Message, error)
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, messageID uint) error
	Unlike(ctx context.Context, userID, messageID uint) error
	IsLiked(ctx context.Context, userID, messageID uint) (bool, error)
	GetLikedMessages(ctx context.Context, userID uint, currentUserID uint) ([]*models.Message, error)
	CountLikesByUser(ctx context.Context, userID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyMessageDetails adds subqueries to fetch the like count and liked
// status in a single query.
func (r *messageRepository) applyMessageDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "messages.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.message_id = messages.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.message_id = messages.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", 0 as liked")
}

func (r *messageRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Message, error) {
	var message models.Message
	err := r.applyMessageDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &message, nil
}

func (r *messageRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.applyMessageDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// HomeFeed selects the most recent messages authored by the user or anyone
// the user follows, newest first with identifier as the tie-breaker.
func (r *messageRepository) HomeFeed(ctx context.Context, userID uint, limit int) ([]*models.Message, error) {
	var messages []*models.Message
	followees := r.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Follow{}).
		Select("followee_id").
		Where("follower_id = ?", userID)

	err := r.applyMessageDetails(r.db.WithContext(ctx), userID).
		Preload("User").
		Where("messages.user_id = ? OR messages.user_id IN (?)", userID, followees).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// Delete removes the message and its like edges in one transaction.
func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) Like(ctx context.Context, userID, messageID uint) error {
	like := &models.Like{UserID: userID, MessageID: messageID}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Message already liked")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Unlike removes the like edge if present. Removing a non-existent edge is
// a no-op.
func (r *messageRepository) Unlike(ctx context.Context, userID, messageID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *messageRepository) GetLikedMessages(ctx context.Context, userID uint, currentUserID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.applyMessageDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) CountLikesByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
