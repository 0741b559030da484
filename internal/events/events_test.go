package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedKeys(t *testing.T) {
	assert.Equal(t, "workspace:1", WorkspaceKey(1))
	assert.Equal(t, "channel:42", ChannelKey(42))
	assert.Equal(t, "conversation:7", ConversationKey(7))
	assert.Equal(t, "thread:9", ThreadKey(9))
}

func TestInvalidationWireFormat(t *testing.T) {
	payload, err := json.Marshal(Invalidation{
		Entity:      EntityMessage,
		WorkspaceID: 3,
		FeedKeys:    []string{ChannelKey(42)},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"entity":"message","workspaceId":3,"feedKeys":["channel:42"]}`, string(payload))
}
