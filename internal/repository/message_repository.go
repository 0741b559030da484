package repository

import (
	"context"
	"time"

	"slack-service/internal/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByID(ctx context.Context, id uint) (*models.Message, error)
	// FindFeed fetches one page of the feed identified by the composite
	// (channelID, parentMessageID, conversationID) key, newest-first.
	// before is a unix-millisecond cursor from the previous page.
	FindFeed(ctx context.Context, channelID, parentMessageID, conversationID *uint, limit int, before *int64) ([]*models.Message, error)
	// FindReplies returns the direct replies of a message in insertion order.
	FindReplies(ctx context.Context, parentMessageID uint) ([]*models.Message, error)
	UpdateBody(ctx context.Context, id uint, body string, editedAt time.Time) error
	// Delete removes the message together with its reactions.
	Delete(ctx context.Context, id uint) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) FindByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) FindFeed(ctx context.Context, channelID, parentMessageID, conversationID *uint, limit int, before *int64) ([]*models.Message, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{})

	// NULL keys must match as NULL so each feed only sees its own rows.
	if channelID != nil {
		q = q.Where("channel_id = ?", *channelID)
	} else {
		q = q.Where("channel_id IS NULL")
	}
	if parentMessageID != nil {
		q = q.Where("parent_message_id = ?", *parentMessageID)
	} else {
		q = q.Where("parent_message_id IS NULL")
	}
	if conversationID != nil {
		q = q.Where("conversation_id = ?", *conversationID)
	} else {
		q = q.Where("conversation_id IS NULL")
	}

	if before != nil {
		q = q.Where("created_at < ?", time.UnixMilli(*before))
	}

	var messages []*models.Message
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *messageRepository) FindReplies(ctx context.Context, parentMessageID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("parent_message_id = ?", parentMessageID).
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) UpdateBody(ctx context.Context, id uint, body string, editedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"body": body, "edited_at": editedAt}).Error
}

func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&models.Reaction{}, "message_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, "id = ?", id).Error
	})
}
