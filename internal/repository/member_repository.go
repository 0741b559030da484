package repository

import (
	"context"

	"slack-service/internal/models"

	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	FindByID(ctx context.Context, id uint) (*models.Member, error)
	FindByWorkspaceAndUser(ctx context.Context, workspaceID, userID uint) (*models.Member, error)
	FindByWorkspaceID(ctx context.Context, workspaceID uint) ([]*models.Member, error)
	UpdateRole(ctx context.Context, id uint, role string) error
	// Delete removes the membership together with the member's messages,
	// reactions and conversations in that workspace.
	Delete(ctx context.Context, id uint) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) FindByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByWorkspaceAndUser(ctx context.Context, workspaceID, userID uint) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		First(&member, "workspace_id = ? AND user_id = ?", workspaceID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByWorkspaceID(ctx context.Context, workspaceID uint) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

func (r *memberRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	return r.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", id).Update("role", role).Error
}

func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Reactions, conversations and the membership itself go physically:
		// their unique indexes also cover soft-deleted rows, and a tombstone
		// would block re-reacting, re-pairing or re-joining later.
		if err := tx.Unscoped().Delete(&models.Reaction{}, "member_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Message{}, "member_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&models.Conversation{}, "member_one_id = ? OR member_two_id = ?", id, id).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Member{}, "id = ?", id).Error
	})
}
