package models

import (
	"time"

	"gorm.io/gorm"
)

// Member role constants
const (
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

/** --------------------ENTITIES-------------------- */
// Member is a user's workspace-scoped identity carrying a role.
// Unique per (workspace, user).
type Member struct {
	gorm.Model
	WorkspaceID uint   `gorm:"not null;uniqueIndex:uix_members_workspace_user" json:"workspaceId"`
	UserID      uint   `gorm:"not null;uniqueIndex:uix_members_workspace_user" json:"userId"`
	Role        string `gorm:"not null;type:varchar(10);check:role IN ('admin', 'member')" json:"role"`
}

// IsAdmin reports whether the member holds the admin role.
func (m *Member) IsAdmin() bool {
	return m.Role == MemberRoleAdmin
}

/** -------------------- DTOs -------------------- */
type UpdateMemberRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}

// MemberResponse is a membership row joined with its user profile so the
// UI never issues secondary lookups.
type MemberResponse struct {
	ID          uint      `json:"id"`
	WorkspaceID uint      `json:"workspaceId"`
	UserID      uint      `json:"userId"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	User        UserResponse `json:"user"`
}
