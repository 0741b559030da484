package repository

import (
	"context"
	"errors"

	"slack-service/internal/models"

	"gorm.io/gorm"
)

type ReactionRepository interface {
	FindByMessageID(ctx context.Context, messageID uint) ([]*models.Reaction, error)
	// Toggle removes the (message, member, value) reaction when present and
	// inserts it otherwise, atomically. Returns the affected row id and
	// whether a row was added.
	Toggle(ctx context.Context, messageID, memberID, workspaceID uint, value string) (uint, bool, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) FindByMessageID(ctx context.Context, messageID uint) ([]*models.Reaction, error) {
	var reactions []*models.Reaction
	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("id ASC").
		Find(&reactions).Error
	return reactions, err
}

func (r *reactionRepository) Toggle(ctx context.Context, messageID, memberID, workspaceID uint, value string) (uint, bool, error) {
	var id uint
	var added bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := tx.First(&existing, "message_id = ? AND member_id = ? AND value = ?", messageID, memberID, value).Error
		if err == nil {
			id, added = existing.ID, false
			// Physical delete: the unique index also covers soft-deleted
			// rows, a tombstone would block re-adding the same reaction.
			return tx.Unscoped().Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		reaction := models.Reaction{
			Value:       value,
			MessageID:   messageID,
			MemberID:    memberID,
			WorkspaceID: workspaceID,
		}
		if err := tx.Create(&reaction).Error; err != nil {
			// A concurrent toggle inserted first; the unique index keeps the
			// triple at one row, treat it as toggling that row off.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if err := tx.First(&existing, "message_id = ? AND member_id = ? AND value = ?", messageID, memberID, value).Error; err != nil {
					return err
				}
				id, added = existing.ID, false
				return tx.Unscoped().Delete(&existing).Error
			}
			return err
		}
		id, added = reaction.ID, true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return id, added, nil
}
