package repository

import (
	"context"

	"slack-service/internal/models"

	"gorm.io/gorm"
)

type WorkspaceRepository interface {
	// Create inserts the workspace together with its first admin member
	// and default channel in one transaction.
	Create(ctx context.Context, workspace *models.Workspace, admin *models.Member, general *models.Channel) error
	FindByID(ctx context.Context, id uint) (*models.Workspace, error)
	FindByMemberUserID(ctx context.Context, userID uint) ([]*models.Workspace, error)
	UpdateName(ctx context.Context, id uint, name string) error
	UpdateJoinCode(ctx context.Context, id uint, joinCode string) error
	// Delete removes the workspace and everything scoped to it.
	Delete(ctx context.Context, id uint) error
}

type workspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func (r *workspaceRepository) Create(ctx context.Context, workspace *models.Workspace, admin *models.Member, general *models.Channel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workspace).Error; err != nil {
			return err
		}
		admin.WorkspaceID = workspace.ID
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		general.WorkspaceID = workspace.ID
		return tx.Create(general).Error
	})
}

func (r *workspaceRepository) FindByID(ctx context.Context, id uint) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := r.db.WithContext(ctx).First(&workspace, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (r *workspaceRepository) FindByMemberUserID(ctx context.Context, userID uint) ([]*models.Workspace, error) {
	var workspaces []*models.Workspace
	err := r.db.WithContext(ctx).
		Joins("JOIN members ON members.workspace_id = workspaces.id AND members.deleted_at IS NULL").
		Where("members.user_id = ?", userID).
		Find(&workspaces).Error
	return workspaces, err
}

func (r *workspaceRepository) UpdateName(ctx context.Context, id uint, name string) error {
	return r.db.WithContext(ctx).Model(&models.Workspace{}).Where("id = ?", id).Update("name", name).Error
}

func (r *workspaceRepository) UpdateJoinCode(ctx context.Context, id uint, joinCode string) error {
	return r.db.WithContext(ctx).Model(&models.Workspace{}).Where("id = ?", id).Update("join_code", joinCode).Error
}

func (r *workspaceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Uniquely indexed tables (reactions, conversations, members) are
		// removed physically; their indexes also cover soft-deleted rows.
		if err := tx.Unscoped().Delete(&models.Reaction{}, "workspace_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Message{}, "workspace_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&models.Conversation{}, "workspace_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Channel{}, "workspace_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&models.Member{}, "workspace_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Workspace{}, "id = ?", id).Error
	})
}
