package service

import (
	"context"
	"errors"
	"fmt"

	"slack-service/internal/events"
	"slack-service/internal/models"
	"slack-service/internal/repository"

	"gorm.io/gorm"
)

var (
	// ErrAdminCannotLeave keeps at least one admin in the workspace until
	// the workspace itself is deleted.
	ErrAdminCannotLeave = errors.New("admins cannot leave their workspace")
)

type MemberService interface {
	GetMembers(ctx context.Context, userID, workspaceID uint) ([]models.MemberResponse, error)
	GetMember(ctx context.Context, userID, memberID uint) (*models.MemberResponse, error)
	GetCurrentMember(ctx context.Context, userID, workspaceID uint) (*models.MemberResponse, error)
	UpdateMemberRole(ctx context.Context, userID, memberID uint, role string) (uint, error)
	RemoveMember(ctx context.Context, userID, memberID uint) (uint, error)
}

type memberService struct {
	members   repository.MemberRepository
	users     repository.UserRepository
	guard     *Guard
	publisher events.Publisher
}

func NewMemberService(
	members repository.MemberRepository,
	users repository.UserRepository,
	guard *Guard,
	publisher events.Publisher,
) MemberService {
	return &memberService{
		members:   members,
		users:     users,
		guard:     guard,
		publisher: publisher,
	}
}

func (s *memberService) toResponse(ctx context.Context, member *models.Member) (*models.MemberResponse, error) {
	user, err := s.users.FindByID(ctx, member.UserID)
	if err != nil {
		return nil, err
	}
	return &models.MemberResponse{
		ID:          member.ID,
		WorkspaceID: member.WorkspaceID,
		UserID:      member.UserID,
		Role:        member.Role,
		CreatedAt:   member.CreatedAt,
		User:        user.ToResponse(),
	}, nil
}

func (s *memberService) GetMembers(ctx context.Context, userID, workspaceID uint) ([]models.MemberResponse, error) {
	responses := []models.MemberResponse{}

	if _, err := s.guard.Member(ctx, workspaceID, userID); err != nil {
		if failSoft(err) {
			return responses, nil
		}
		return nil, err
	}

	members, err := s.members.FindByWorkspaceID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	for _, member := range members {
		resp, err := s.toResponse(ctx, member)
		if err != nil {
			// Orphaned membership, drop it from the listing.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load member user: %w", err)
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *memberService) GetMember(ctx context.Context, userID, memberID uint) (*models.MemberResponse, error) {
	if userID == 0 {
		return nil, nil
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	// Scoped to the caller's own membership in the same workspace.
	if _, err := s.guard.Member(ctx, member.WorkspaceID, userID); err != nil {
		if failSoft(err) {
			return nil, nil
		}
		return nil, err
	}

	resp, err := s.toResponse(ctx, member)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load member user: %w", err)
	}
	return resp, nil
}

func (s *memberService) GetCurrentMember(ctx context.Context, userID, workspaceID uint) (*models.MemberResponse, error) {
	member, err := s.guard.Member(ctx, workspaceID, userID)
	if err != nil {
		if failSoft(err) {
			return nil, nil
		}
		return nil, err
	}

	resp, err := s.toResponse(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("failed to load member user: %w", err)
	}
	return resp, nil
}

func (s *memberService) UpdateMemberRole(ctx context.Context, userID, memberID uint, role string) (uint, error) {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to load member: %w", err)
	}

	if _, err := s.guard.Admin(ctx, member.WorkspaceID, userID); err != nil {
		return 0, err
	}

	if err := s.members.UpdateRole(ctx, memberID, role); err != nil {
		return 0, fmt.Errorf("failed to update member role: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityMember,
		WorkspaceID: member.WorkspaceID,
		FeedKeys:    []string{events.WorkspaceKey(member.WorkspaceID)},
	})
	return memberID, nil
}

func (s *memberService) RemoveMember(ctx context.Context, userID, memberID uint) (uint, error) {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to load member: %w", err)
	}

	actor, err := s.guard.Member(ctx, member.WorkspaceID, userID)
	if err != nil {
		return 0, err
	}

	if actor.ID == member.ID {
		// Leaving. Admins must delete or hand over the workspace instead.
		if actor.IsAdmin() {
			return 0, ErrAdminCannotLeave
		}
	} else {
		if !actor.IsAdmin() {
			return 0, ErrInsufficientRole
		}
		if member.IsAdmin() {
			return 0, ErrInsufficientRole
		}
	}

	if err := s.members.Delete(ctx, memberID); err != nil {
		return 0, fmt.Errorf("failed to remove member: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityMember,
		WorkspaceID: member.WorkspaceID,
		FeedKeys:    []string{events.WorkspaceKey(member.WorkspaceID)},
	})
	return memberID, nil
}
