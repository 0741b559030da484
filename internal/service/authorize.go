package service

import (
	"context"
	"errors"
	"fmt"

	"slack-service/internal/models"
	"slack-service/internal/repository"

	"gorm.io/gorm"
)

// Guard performs the per-operation authorization checks. It is read-only:
// every mutation and every non-public read resolves the acting membership
// through it before touching a store.
type Guard struct {
	members repository.MemberRepository
}

func NewGuard(members repository.MemberRepository) *Guard {
	return &Guard{members: members}
}

// Member resolves the acting user's membership in the workspace.
func (g *Guard) Member(ctx context.Context, workspaceID, userID uint) (*models.Member, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	member, err := g.members.FindByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAMember
		}
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return member, nil
}

// Admin resolves the membership and additionally requires the admin role.
func (g *Guard) Admin(ctx context.Context, workspaceID, userID uint) (*models.Member, error) {
	member, err := g.Member(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !member.IsAdmin() {
		return nil, ErrInsufficientRole
	}
	return member, nil
}

// Author requires the acting member to own the resource.
func (g *Guard) Author(member *models.Member, ownerMemberID uint) error {
	if member.ID != ownerMemberID {
		return ErrNotAuthor
	}
	return nil
}
