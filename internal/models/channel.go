package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// Channel represents a named public feed within a workspace.
type Channel struct {
	gorm.Model
	WorkspaceID uint   `gorm:"not null;index" json:"workspaceId"`
	Name        string `gorm:"not null" json:"name"`
}

// NormalizeChannelName collapses whitespace runs to hyphens and lowercases,
// so "  General Chat " becomes "general-chat".
func NormalizeChannelName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

/** -------------------- DTOs -------------------- */
type CreateChannelRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=80"`
	WorkspaceID uint   `json:"workspaceId" binding:"required"`
}

type UpdateChannelRequest struct {
	Name string `json:"name" binding:"required,min=1,max=80"`
}

type ChannelResponse struct {
	ID          uint      `json:"id"`
	WorkspaceID uint      `json:"workspaceId"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *Channel) ToResponse() ChannelResponse {
	return ChannelResponse{
		ID:          c.ID,
		WorkspaceID: c.WorkspaceID,
		Name:        c.Name,
		CreatedAt:   c.CreatedAt,
	}
}
