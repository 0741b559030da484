package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slack-service/internal/models"
)

func TestCreateOrGetConversationIsIdempotent(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	other := f.addUser("other", "other@test.local")
	workspace, _, _ := f.addWorkspace("Acme", owner)
	otherMember := f.addMember(workspace, other, models.MemberRoleMember)
	ctx := context.Background()

	first, err := f.conversations.CreateOrGet(ctx, owner.ID, &models.CreateOrGetConversationRequest{
		WorkspaceID: workspace.ID,
		MemberID:    otherMember.ID,
	})
	require.NoError(t, err)

	second, err := f.conversations.CreateOrGet(ctx, owner.ID, &models.CreateOrGetConversationRequest{
		WorkspaceID: workspace.ID,
		MemberID:    otherMember.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// The other member opening the conversation from their side resolves
	// to the same row.
	adminMember, err := f.memberRepo.FindByWorkspaceAndUser(ctx, workspace.ID, owner.ID)
	require.NoError(t, err)
	mirrored, err := f.conversations.CreateOrGet(ctx, other.ID, &models.CreateOrGetConversationRequest{
		WorkspaceID: workspace.ID,
		MemberID:    adminMember.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, mirrored.ID)

	assert.Len(t, f.store.conversations, 1)
}

func TestCreateOrGetConversationAfterMemberRemoval(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	other := f.addUser("other", "other@test.local")
	workspace, _, _ := f.addWorkspace("Acme", owner)
	otherMember := f.addMember(workspace, other, models.MemberRoleMember)
	ctx := context.Background()

	first, err := f.conversations.CreateOrGet(ctx, owner.ID, &models.CreateOrGetConversationRequest{
		WorkspaceID: workspace.ID,
		MemberID:    otherMember.ID,
	})
	require.NoError(t, err)

	// Leaving drops the conversation with it, and rejoining starts a
	// fresh one instead of tripping over a leftover row for the pair.
	_, err = f.members.RemoveMember(ctx, other.ID, otherMember.ID)
	require.NoError(t, err)
	assert.Empty(t, f.store.conversations)

	rejoined, err := f.workspaces.JoinWorkspace(ctx, other.ID, workspace.ID, workspace.JoinCode)
	require.NoError(t, err)

	fresh, err := f.conversations.CreateOrGet(ctx, owner.ID, &models.CreateOrGetConversationRequest{
		WorkspaceID: workspace.ID,
		MemberID:    rejoined.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, fresh.ID)
	assert.Len(t, f.store.conversations, 1)
}

func TestCreateOrGetConversationNormalizesThePair(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	other := f.addUser("other", "other@test.local")
	workspace, admin, _ := f.addWorkspace("Acme", owner)
	otherMember := f.addMember(workspace, other, models.MemberRoleMember)
	ctx := context.Background()

	conversation, err := f.conversations.CreateOrGet(ctx, other.ID, &models.CreateOrGetConversationRequest{
		WorkspaceID: workspace.ID,
		MemberID:    admin.ID,
	})
	require.NoError(t, err)

	one, two := models.OrderedPair(admin.ID, otherMember.ID)
	assert.Equal(t, one, conversation.MemberOneID)
	assert.Equal(t, two, conversation.MemberTwoID)
	assert.Less(t, conversation.MemberOneID, conversation.MemberTwoID)
}

func TestCreateOrGetConversationGuards(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	other := f.addUser("other", "other@test.local")
	stranger := f.addUser("stranger", "stranger@test.local")
	workspace, _, _ := f.addWorkspace("Acme", owner)
	otherMember := f.addMember(workspace, other, models.MemberRoleMember)

	_, elsewhereAdmin, _ := f.addWorkspace("Elsewhere", stranger)
	ctx := context.Background()

	t.Run("caller must be a member", func(t *testing.T) {
		_, err := f.conversations.CreateOrGet(ctx, stranger.ID, &models.CreateOrGetConversationRequest{
			WorkspaceID: workspace.ID,
			MemberID:    otherMember.ID,
		})
		assert.ErrorIs(t, err, ErrNotAMember)
	})

	t.Run("other member must exist", func(t *testing.T) {
		_, err := f.conversations.CreateOrGet(ctx, owner.ID, &models.CreateOrGetConversationRequest{
			WorkspaceID: workspace.ID,
			MemberID:    9999,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other member must share the workspace", func(t *testing.T) {
		_, err := f.conversations.CreateOrGet(ctx, owner.ID, &models.CreateOrGetConversationRequest{
			WorkspaceID: workspace.ID,
			MemberID:    elsewhereAdmin.ID,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
