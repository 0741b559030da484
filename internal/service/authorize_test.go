package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slack-service/internal/models"
)

func TestGuardMember(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	outsider := f.addUser("outsider", "outsider@test.local")
	workspace, admin, _ := f.addWorkspace("Acme", owner)

	guard := NewGuard(f.memberRepo)
	ctx := context.Background()

	t.Run("anonymous caller", func(t *testing.T) {
		_, err := guard.Member(ctx, workspace.ID, 0)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("non-member", func(t *testing.T) {
		_, err := guard.Member(ctx, workspace.ID, outsider.ID)
		assert.ErrorIs(t, err, ErrNotAMember)
	})

	t.Run("member", func(t *testing.T) {
		member, err := guard.Member(ctx, workspace.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, member.ID)
	})
}

func TestGuardAdmin(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", "owner@test.local")
	plain := f.addUser("plain", "plain@test.local")
	workspace, _, _ := f.addWorkspace("Acme", owner)
	f.addMember(workspace, plain, models.MemberRoleMember)

	guard := NewGuard(f.memberRepo)
	ctx := context.Background()

	_, err := guard.Admin(ctx, workspace.ID, plain.ID)
	assert.ErrorIs(t, err, ErrInsufficientRole)

	member, err := guard.Admin(ctx, workspace.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, member.IsAdmin())
}

func TestGuardAuthor(t *testing.T) {
	guard := NewGuard(nil)
	member := &models.Member{}
	member.ID = 7

	assert.NoError(t, guard.Author(member, 7))
	assert.ErrorIs(t, guard.Author(member, 8), ErrNotAuthor)
}
