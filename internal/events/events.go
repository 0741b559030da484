package events

import (
	"context"
	"fmt"
)

// Entity names used in invalidation events.
const (
	EntityWorkspace    = "workspace"
	EntityChannel      = "channel"
	EntityMember       = "member"
	EntityMessage      = "message"
	EntityReaction     = "reaction"
	EntityConversation = "conversation"
)

// Invalidation tells subscribers that a mutation touched the named feeds,
// so any cached page for those keys must be refetched.
type Invalidation struct {
	Entity      string   `json:"entity"`
	WorkspaceID uint     `json:"workspaceId"`
	FeedKeys    []string `json:"feedKeys"`
}

// Feed key helpers. Clients subscribe with the same strings.

func WorkspaceKey(id uint) string    { return fmt.Sprintf("workspace:%d", id) }
func ChannelKey(id uint) string      { return fmt.Sprintf("channel:%d", id) }
func ConversationKey(id uint) string { return fmt.Sprintf("conversation:%d", id) }
func ThreadKey(id uint) string       { return fmt.Sprintf("thread:%d", id) }

// Publisher fans an invalidation out to subscribers. Publishing is
// best-effort: implementations log failures and never fail the mutation.
type Publisher interface {
	Invalidate(ctx context.Context, event Invalidation)
}
