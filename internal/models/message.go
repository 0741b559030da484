package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// Message is a rich-text message in a channel, a direct conversation, or a
// thread under a parent message. Exactly one of ChannelID/ConversationID
// identifies its home feed, except thread replies which may carry neither
// and inherit the parent's conversation.
type Message struct {
	gorm.Model
	Body            string     `gorm:"type:text;not null" json:"body"`
	Image           *string    `json:"image,omitempty"` // object storage key
	MemberID        uint       `gorm:"not null;index" json:"memberId"`
	WorkspaceID     uint       `gorm:"not null;index" json:"workspaceId"`
	ChannelID       *uint      `json:"channelId,omitempty"`
	ConversationID  *uint      `json:"conversationId,omitempty"`
	ParentMessageID *uint      `json:"parentMessageId,omitempty"`
	EditedAt        *time.Time `json:"editedAt,omitempty"` // set only by author edits
}

/** -------------------- DTOs -------------------- */
// Request
type CreateMessageRequest struct {
	Body            string  `json:"body" binding:"required"`
	Image           *string `json:"image,omitempty"`
	WorkspaceID     uint    `json:"workspaceId" binding:"required"`
	ChannelID       *uint   `json:"channelId,omitempty"`
	ConversationID  *uint   `json:"conversationId,omitempty"`
	ParentMessageID *uint   `json:"parentMessageId,omitempty"`
}

type UpdateMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// ListMessagesOptions selects the feed and page for messages.get.
type ListMessagesOptions struct {
	ChannelID       *uint
	ConversationID  *uint
	ParentMessageID *uint
	Limit           int
	Before          *int64 // page cursor, unix milliseconds
}

// Response
// MessageAuthor carries the denormalized author display fields.
type MessageAuthor struct {
	MemberID uint   `json:"memberId"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// ReactionGroup is the per-value roll-up of reactions on a message: a
// count and the de-duplicated set of member ids who used the value.
type ReactionGroup struct {
	Value     string `json:"value"`
	Count     int    `json:"count"`
	MemberIDs []uint `json:"memberIds"`
}

// ThreadSummary aggregates the direct replies of a message: reply count
// plus the image and timestamp of the last reply in insertion order.
type ThreadSummary struct {
	Count     int     `json:"count"`
	Image     *string `json:"image,omitempty"`
	Timestamp int64   `json:"timestamp"` // unix ms, 0 when no replies
}

// EnrichedMessage is the denormalized shape the UI renders.
type EnrichedMessage struct {
	ID              uint          `json:"id"`
	Body            string        `json:"body"`
	ImageURL        *string       `json:"imageUrl,omitempty"`
	WorkspaceID     uint          `json:"workspaceId"`
	ChannelID       *uint         `json:"channelId,omitempty"`
	ConversationID  *uint         `json:"conversationId,omitempty"`
	ParentMessageID *uint         `json:"parentMessageId,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	EditedAt        *time.Time    `json:"editedAt,omitempty"`
	Author          MessageAuthor `json:"author"`
	Reactions       []ReactionGroup `json:"reactions"`
	Thread          ThreadSummary   `json:"thread"`
}

// PaginatedMessageResponse is one page of an enriched feed. NextCursor is
// present when another load-more call may yield older messages.
type PaginatedMessageResponse struct {
	Items      []EnrichedMessage `json:"items"`
	Total      int               `json:"total"`
	NextCursor *int64            `json:"nextCursor,omitempty"`
}
