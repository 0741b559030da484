package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// Workspace is the top-level tenant grouping channels, members and conversations.
type Workspace struct {
	gorm.Model
	Name     string `gorm:"not null" json:"name"`
	UserID   uint   `gorm:"not null;index" json:"userId"` // owning user
	JoinCode string `gorm:"not null;type:varchar(6)" json:"-"`
}

/** -------------------- DTOs -------------------- */
type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,min=3,max=80"`
}

type UpdateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,min=3,max=80"`
}

type JoinWorkspaceRequest struct {
	JoinCode string `json:"joinCode" binding:"required,len=6"`
}

type WorkspaceResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	UserID    uint      `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	// JoinCode is only populated for admin callers
	JoinCode string `json:"joinCode,omitempty"`
}
