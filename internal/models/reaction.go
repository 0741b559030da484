package models

import (
	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// Reaction is an emoji tag a member attached to a message. The composite
// unique index keeps (message, member, value) at most-one-row even under
// concurrent toggles.
type Reaction struct {
	gorm.Model
	Value       string `gorm:"not null;type:varchar(32);uniqueIndex:uix_reactions_message_member_value" json:"value"`
	MessageID   uint   `gorm:"not null;uniqueIndex:uix_reactions_message_member_value" json:"messageId"`
	MemberID    uint   `gorm:"not null;uniqueIndex:uix_reactions_message_member_value" json:"memberId"`
	WorkspaceID uint   `gorm:"not null;index" json:"workspaceId"`
}

/** -------------------- DTOs -------------------- */
type ToggleReactionRequest struct {
	Value string `json:"value" binding:"required,max=32"`
}

// ToggleReactionResponse reports the affected reaction row and whether the
// toggle added (true) or removed (false) it.
type ToggleReactionResponse struct {
	ID    uint `json:"id"`
	Added bool `json:"added"`
}
