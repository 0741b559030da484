package models

import (
	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// Conversation is a 1:1 direct-message thread between two members of the
// same workspace, created lazily on first contact. The member pair is
// stored ordered (MemberOneID < MemberTwoID) so the unique index covers
// the unordered pair.
type Conversation struct {
	gorm.Model
	WorkspaceID uint `gorm:"not null;uniqueIndex:uix_conversations_pair" json:"workspaceId"`
	MemberOneID uint `gorm:"not null;uniqueIndex:uix_conversations_pair" json:"memberOneId"`
	MemberTwoID uint `gorm:"not null;uniqueIndex:uix_conversations_pair" json:"memberTwoId"`
}

// OrderedPair returns the member pair in storage order.
func OrderedPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

/** -------------------- DTOs -------------------- */
type CreateOrGetConversationRequest struct {
	WorkspaceID uint `json:"workspaceId" binding:"required"`
	MemberID    uint `json:"memberId" binding:"required"` // the other member
}

type ConversationResponse struct {
	ID          uint `json:"id"`
	WorkspaceID uint `json:"workspaceId"`
	MemberOneID uint `json:"memberOneId"`
	MemberTwoID uint `json:"memberTwoId"`
}
