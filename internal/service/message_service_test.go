package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slack-service/internal/models"
)

func TestCreateMessageTargets(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	other := f.addUser("other", "other@test.local")
	workspace, admin, general := f.addWorkspace("Acme", owner)
	otherMember := f.addMember(workspace, other, models.MemberRoleMember)
	ctx := context.Background()

	t.Run("channel message", func(t *testing.T) {
		id, err := f.messages.CreateMessage(ctx, owner.ID, &models.CreateMessageRequest{
			Body:        "hello",
			WorkspaceID: workspace.ID,
			ChannelID:   &general.ID,
		})
		require.NoError(t, err)

		message, err := f.messageRepo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, message.MemberID)
		assert.Equal(t, general.ID, *message.ChannelID)
	})

	t.Run("no target", func(t *testing.T) {
		_, err := f.messages.CreateMessage(ctx, owner.ID, &models.CreateMessageRequest{
			Body:        "floating",
			WorkspaceID: workspace.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("non-member", func(t *testing.T) {
		stranger := f.addUser("stranger", "stranger@test.local")
		_, err := f.messages.CreateMessage(ctx, stranger.ID, &models.CreateMessageRequest{
			Body:        "hi",
			WorkspaceID: workspace.ID,
			ChannelID:   &general.ID,
		})
		assert.ErrorIs(t, err, ErrNotAMember)
	})

	t.Run("conversation thread reply inherits the parent conversation", func(t *testing.T) {
		conversation, err := f.conversationRepo.GetOrCreate(ctx, workspace.ID, admin.ID, otherMember.ID)
		require.NoError(t, err)

		root := f.addMessage(&models.Message{
			Body:           "dm root",
			MemberID:       admin.ID,
			WorkspaceID:    workspace.ID,
			ConversationID: &conversation.ID,
		})

		replyID, err := f.messages.CreateMessage(ctx, other.ID, &models.CreateMessageRequest{
			Body:            "dm reply",
			WorkspaceID:     workspace.ID,
			ParentMessageID: &root.ID,
		})
		require.NoError(t, err)

		reply, err := f.messageRepo.FindByID(ctx, replyID)
		require.NoError(t, err)
		require.NotNil(t, reply.ConversationID)
		assert.Equal(t, conversation.ID, *reply.ConversationID)
	})

	t.Run("missing parent", func(t *testing.T) {
		missing := uintPtr(9999)
		_, err := f.messages.CreateMessage(ctx, owner.ID, &models.CreateMessageRequest{
			Body:            "orphan reply",
			WorkspaceID:     workspace.ID,
			ParentMessageID: missing,
		})
		assert.ErrorIs(t, err, ErrParentNotFound)
	})
}

func TestUpdateMessageAuthorOnly(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	other := f.addUser("other", "other@test.local")
	workspace, admin, general := f.addWorkspace("Acme", owner)
	f.addMember(workspace, other, models.MemberRoleMember)
	ctx := context.Background()

	message := f.addMessage(&models.Message{
		Body:        "original",
		MemberID:    admin.ID,
		WorkspaceID: workspace.ID,
		ChannelID:   &general.ID,
	})

	// Admin role does not override authorship, only the author edits.
	_, err := f.messages.UpdateMessage(ctx, other.ID, message.ID, &models.UpdateMessageRequest{Body: "hijacked"})
	assert.ErrorIs(t, err, ErrNotAuthor)

	_, err = f.messages.UpdateMessage(ctx, owner.ID, message.ID, &models.UpdateMessageRequest{Body: "edited"})
	require.NoError(t, err)

	updated, err := f.messageRepo.FindByID(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body)
	assert.NotNil(t, updated.EditedAt)
}

func TestDeleteMessageRemovesReactions(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	workspace, admin, general := f.addWorkspace("Acme", owner)
	ctx := context.Background()

	message := f.addMessage(&models.Message{
		Body:        "to delete",
		MemberID:    admin.ID,
		WorkspaceID: workspace.ID,
		ChannelID:   &general.ID,
	})
	_, _, err := f.reactionRepo.Toggle(ctx, message.ID, admin.ID, workspace.ID, "wave")
	require.NoError(t, err)

	_, err = f.messages.DeleteMessage(ctx, owner.ID, message.ID)
	require.NoError(t, err)

	_, err = f.messageRepo.FindByID(ctx, message.ID)
	assert.Error(t, err)
	assert.Empty(t, f.store.reactions)
}

func TestListMessagesFailsSoftForNonMembers(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	outsider := f.addUser("outsider", "outsider@test.local")
	workspace, admin, general := f.addWorkspace("Acme", owner)
	ctx := context.Background()

	f.addMessage(&models.Message{
		Body:        "hidden",
		MemberID:    admin.ID,
		WorkspaceID: workspace.ID,
		ChannelID:   &general.ID,
	})

	for name, userID := range map[string]uint{"anonymous": 0, "non-member": outsider.ID} {
		t.Run(name, func(t *testing.T) {
			page, err := f.messages.ListMessages(ctx, userID, models.ListMessagesOptions{ChannelID: &general.ID})
			require.NoError(t, err)
			assert.Empty(t, page.Items)
			assert.Zero(t, page.Total)
			assert.Nil(t, page.NextCursor)
		})
	}
}

func TestListMessagesPagination(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	workspace, admin, general := f.addWorkspace("Acme", owner)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.addMessage(&models.Message{
			Body:        "msg",
			MemberID:    admin.ID,
			WorkspaceID: workspace.ID,
			ChannelID:   &general.ID,
		})
	}

	first, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{
		ChannelID: &general.ID,
		Limit:     2,
	})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotNil(t, first.NextCursor)
	// Newest first
	assert.True(t, first.Items[0].CreatedAt.After(first.Items[1].CreatedAt))

	second, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{
		ChannelID: &general.ID,
		Limit:     2,
		Before:    first.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	// Strictly older than the cursor
	assert.True(t, second.Items[0].CreatedAt.UnixMilli() < *first.NextCursor)

	third, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{
		ChannelID: &general.ID,
		Limit:     2,
		Before:    second.NextCursor,
	})
	require.NoError(t, err)
	assert.Len(t, third.Items, 1)
	assert.Nil(t, third.NextCursor)
}

func TestListMessagesExcludesRepliesFromChannelFeed(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	workspace, admin, general := f.addWorkspace("Acme", owner)
	ctx := context.Background()

	root := f.addMessage(&models.Message{
		Body:        "root",
		MemberID:    admin.ID,
		WorkspaceID: workspace.ID,
		ChannelID:   &general.ID,
	})
	f.addMessage(&models.Message{
		Body:            "reply",
		MemberID:        admin.ID,
		WorkspaceID:     workspace.ID,
		ChannelID:       &general.ID,
		ParentMessageID: &root.ID,
	})

	page, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{ChannelID: &general.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, root.ID, page.Items[0].ID)

	thread, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{
		ChannelID:       &general.ID,
		ParentMessageID: &root.ID,
	})
	require.NoError(t, err)
	require.Len(t, thread.Items, 1)
	assert.Equal(t, "reply", thread.Items[0].Body)
}

func TestListMessagesReactionRollup(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	other := f.addUser("other", "other@test.local")
	workspace, admin, general := f.addWorkspace("Acme", owner)
	otherMember := f.addMember(workspace, other, models.MemberRoleMember)
	ctx := context.Background()

	message := f.addMessage(&models.Message{
		Body:        "popular",
		MemberID:    admin.ID,
		WorkspaceID: workspace.ID,
		ChannelID:   &general.ID,
	})

	for _, toggle := range []struct {
		memberID uint
		value    string
	}{
		{admin.ID, "thumbsup"},
		{otherMember.ID, "thumbsup"},
		{otherMember.ID, "heart"},
	} {
		_, _, err := f.reactionRepo.Toggle(ctx, message.ID, toggle.memberID, workspace.ID, toggle.value)
		require.NoError(t, err)
	}

	page, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{ChannelID: &general.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	groups := page.Items[0].Reactions
	require.Len(t, groups, 2)
	// First-seen order
	assert.Equal(t, "thumbsup", groups[0].Value)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, []uint{admin.ID, otherMember.ID}, groups[0].MemberIDs)
	assert.Equal(t, "heart", groups[1].Value)
	assert.Equal(t, 1, groups[1].Count)
	assert.Equal(t, []uint{otherMember.ID}, groups[1].MemberIDs)
}

func TestListMessagesThreadSummary(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	workspace, admin, general := f.addWorkspace("Acme", owner)
	ctx := context.Background()

	root := f.addMessage(&models.Message{
		Body:        "root",
		MemberID:    admin.ID,
		WorkspaceID: workspace.ID,
		ChannelID:   &general.ID,
	})

	t.Run("zero replies", func(t *testing.T) {
		page, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{ChannelID: &general.ID})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Zero(t, page.Items[0].Thread.Count)
		assert.Nil(t, page.Items[0].Thread.Image)
		assert.Zero(t, page.Items[0].Thread.Timestamp)
	})

	imageKey := "uploads/last.png"
	f.addMessage(&models.Message{
		Body:            "first reply",
		MemberID:        admin.ID,
		WorkspaceID:     workspace.ID,
		ChannelID:       &general.ID,
		ParentMessageID: &root.ID,
	})
	tail := f.addMessage(&models.Message{
		Body:            "last reply",
		Image:           &imageKey,
		MemberID:        admin.ID,
		WorkspaceID:     workspace.ID,
		ChannelID:       &general.ID,
		ParentMessageID: &root.ID,
	})

	t.Run("summary reflects the latest reply", func(t *testing.T) {
		page, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{ChannelID: &general.ID})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)

		thread := page.Items[0].Thread
		assert.Equal(t, 2, thread.Count)
		require.NotNil(t, thread.Image)
		assert.Equal(t, "https://files.local/"+imageKey, *thread.Image)
		assert.Equal(t, tail.CreatedAt.UnixMilli(), thread.Timestamp)
	})
}

func TestListMessagesSkipsOrphanedAuthors(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	ghost := f.addUser("ghost", "ghost@test.local")
	workspace, admin, general := f.addWorkspace("Acme", owner)
	ghostMember := f.addMember(workspace, ghost, models.MemberRoleMember)
	ctx := context.Background()

	f.addMessage(&models.Message{
		Body:        "kept",
		MemberID:    admin.ID,
		WorkspaceID: workspace.ID,
		ChannelID:   &general.ID,
	})
	f.addMessage(&models.Message{
		Body:        "orphaned",
		MemberID:    ghostMember.ID,
		WorkspaceID: workspace.ID,
		ChannelID:   &general.ID,
	})

	// The ghost's user row disappears but the message stays behind.
	delete(f.store.users, ghost.ID)

	page, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{ChannelID: &general.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "kept", page.Items[0].Body)
	assert.Equal(t, 1, page.Total)
}

func TestListMessagesImageResolutionDegrades(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	workspace, admin, general := f.addWorkspace("Acme", owner)
	ctx := context.Background()

	imageKey := "uploads/pic.png"
	f.addMessage(&models.Message{
		Body:        "with image",
		Image:       &imageKey,
		MemberID:    admin.ID,
		WorkspaceID: workspace.ID,
		ChannelID:   &general.ID,
	})

	f.images.err = errors.New("storage down")

	page, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{ChannelID: &general.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].ImageURL)
}

func TestListMessagesThreadByParentInConversation(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	other := f.addUser("other", "other@test.local")
	workspace, admin, _ := f.addWorkspace("Acme", owner)
	otherMember := f.addMember(workspace, other, models.MemberRoleMember)
	ctx := context.Background()

	conversation, err := f.conversationRepo.GetOrCreate(ctx, workspace.ID, admin.ID, otherMember.ID)
	require.NoError(t, err)

	root := f.addMessage(&models.Message{
		Body:           "dm root",
		MemberID:       admin.ID,
		WorkspaceID:    workspace.ID,
		ConversationID: &conversation.ID,
	})
	f.addMessage(&models.Message{
		Body:            "dm reply",
		MemberID:        otherMember.ID,
		WorkspaceID:     workspace.ID,
		ConversationID:  &conversation.ID,
		ParentMessageID: &root.ID,
	})

	// Thread listing by parent only: the conversation is resolved from the
	// parent message.
	page, err := f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{
		ParentMessageID: &root.ID,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "dm reply", page.Items[0].Body)

	missing := uintPtr(9999)
	_, err = f.messages.ListMessages(ctx, owner.ID, models.ListMessagesOptions{ParentMessageID: missing})
	assert.ErrorIs(t, err, ErrParentNotFound)
}
