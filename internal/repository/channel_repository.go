package repository

import (
	"context"

	"slack-service/internal/models"

	"gorm.io/gorm"
)

type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	FindByID(ctx context.Context, id uint) (*models.Channel, error)
	FindByWorkspaceID(ctx context.Context, workspaceID uint) ([]*models.Channel, error)
	UpdateName(ctx context.Context, id uint, name string) error
	// Delete removes the channel together with its messages and their
	// reactions.
	Delete(ctx context.Context, id uint) error
}

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) Create(ctx context.Context, channel *models.Channel) error {
	return r.db.WithContext(ctx).Create(channel).Error
}

func (r *channelRepository) FindByID(ctx context.Context, id uint) (*models.Channel, error) {
	var channel models.Channel
	if err := r.db.WithContext(ctx).First(&channel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) FindByWorkspaceID(ctx context.Context, workspaceID uint) ([]*models.Channel, error) {
	var channels []*models.Channel
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("id ASC").
		Find(&channels).Error
	return channels, err
}

func (r *channelRepository) UpdateName(ctx context.Context, id uint, name string) error {
	return r.db.WithContext(ctx).Model(&models.Channel{}).Where("id = ?", id).Update("name", name).Error
}

func (r *channelRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			"DELETE FROM reactions WHERE message_id IN (SELECT id FROM messages WHERE channel_id = ?)", id,
		).Error
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Message{}, "channel_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Channel{}, "id = ?", id).Error
	})
}
