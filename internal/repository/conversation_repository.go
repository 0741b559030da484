package repository

import (
	"context"
	"errors"

	"slack-service/internal/models"

	"gorm.io/gorm"
)

type ConversationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Conversation, error)
	// GetOrCreate returns the conversation for the unordered member pair,
	// creating it on first contact. Safe under concurrent callers: the
	// unique pair index backstops the lookup-then-insert.
	GetOrCreate(ctx context.Context, workspaceID, memberA, memberB uint) (*models.Conversation, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) GetOrCreate(ctx context.Context, workspaceID, memberA, memberB uint) (*models.Conversation, error) {
	one, two := models.OrderedPair(memberA, memberB)

	var conversation models.Conversation
	err := r.db.WithContext(ctx).
		First(&conversation, "workspace_id = ? AND member_one_id = ? AND member_two_id = ?", workspaceID, one, two).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conversation = models.Conversation{
		WorkspaceID: workspaceID,
		MemberOneID: one,
		MemberTwoID: two,
	}
	err = r.db.WithContext(ctx).Create(&conversation).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the first-contact race, the winner's row is what we want.
		err = r.db.WithContext(ctx).
			First(&conversation, "workspace_id = ? AND member_one_id = ? AND member_two_id = ?", workspaceID, one, two).Error
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}
