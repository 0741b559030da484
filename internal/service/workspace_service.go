package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"slack-service/internal/events"
	"slack-service/internal/models"
	"slack-service/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidJoinCode = errors.New("invalid join code")
	ErrAlreadyMember   = errors.New("already a member of this workspace")
)

type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, userID uint, req *models.CreateWorkspaceRequest) (*models.WorkspaceResponse, error)
	GetUserWorkspaces(ctx context.Context, userID uint) ([]models.WorkspaceResponse, error)
	GetWorkspace(ctx context.Context, userID, id uint) (*models.WorkspaceResponse, error)
	UpdateWorkspace(ctx context.Context, userID, id uint, req *models.UpdateWorkspaceRequest) (uint, error)
	DeleteWorkspace(ctx context.Context, userID, id uint) (uint, error)
	RotateJoinCode(ctx context.Context, userID, id uint) (*models.WorkspaceResponse, error)
	JoinWorkspace(ctx context.Context, userID, id uint, joinCode string) (*models.MemberResponse, error)
}

type workspaceService struct {
	workspaces repository.WorkspaceRepository
	members    repository.MemberRepository
	users      repository.UserRepository
	guard      *Guard
	publisher  events.Publisher
}

func NewWorkspaceService(
	workspaces repository.WorkspaceRepository,
	members repository.MemberRepository,
	users repository.UserRepository,
	guard *Guard,
	publisher events.Publisher,
) WorkspaceService {
	return &workspaceService{
		workspaces: workspaces,
		members:    members,
		users:      users,
		guard:      guard,
		publisher:  publisher,
	}
}

const joinCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateJoinCode returns a 6-character lowercase alphanumeric code.
func generateJoinCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf), nil
}

func (s *workspaceService) toResponse(workspace *models.Workspace, includeJoinCode bool) *models.WorkspaceResponse {
	resp := &models.WorkspaceResponse{
		ID:        workspace.ID,
		Name:      workspace.Name,
		UserID:    workspace.UserID,
		CreatedAt: workspace.CreatedAt,
	}
	if includeJoinCode {
		resp.JoinCode = workspace.JoinCode
	}
	return resp
}

func (s *workspaceService) CreateWorkspace(ctx context.Context, userID uint, req *models.CreateWorkspaceRequest) (*models.WorkspaceResponse, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	joinCode, err := generateJoinCode()
	if err != nil {
		return nil, err
	}

	workspace := &models.Workspace{
		Name:     req.Name,
		UserID:   userID,
		JoinCode: joinCode,
	}
	admin := &models.Member{
		UserID: userID,
		Role:   models.MemberRoleAdmin,
	}
	// Every workspace starts with a general channel.
	general := &models.Channel{Name: "general"}

	if err := s.workspaces.Create(ctx, workspace, admin, general); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return s.toResponse(workspace, true), nil
}

func (s *workspaceService) GetUserWorkspaces(ctx context.Context, userID uint) ([]models.WorkspaceResponse, error) {
	responses := []models.WorkspaceResponse{}
	if userID == 0 {
		return responses, nil
	}

	workspaces, err := s.workspaces.FindByMemberUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	for _, workspace := range workspaces {
		responses = append(responses, *s.toResponse(workspace, false))
	}
	return responses, nil
}

func (s *workspaceService) GetWorkspace(ctx context.Context, userID, id uint) (*models.WorkspaceResponse, error) {
	workspace, err := s.workspaces.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	member, err := s.guard.Member(ctx, id, userID)
	if err != nil {
		if failSoft(err) {
			return nil, nil
		}
		return nil, err
	}

	return s.toResponse(workspace, member.IsAdmin()), nil
}

func (s *workspaceService) UpdateWorkspace(ctx context.Context, userID, id uint, req *models.UpdateWorkspaceRequest) (uint, error) {
	if _, err := s.guard.Admin(ctx, id, userID); err != nil {
		return 0, err
	}

	if err := s.workspaces.UpdateName(ctx, id, req.Name); err != nil {
		return 0, fmt.Errorf("failed to update workspace: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityWorkspace,
		WorkspaceID: id,
		FeedKeys:    []string{events.WorkspaceKey(id)},
	})
	return id, nil
}

func (s *workspaceService) DeleteWorkspace(ctx context.Context, userID, id uint) (uint, error) {
	if _, err := s.guard.Admin(ctx, id, userID); err != nil {
		return 0, err
	}

	if err := s.workspaces.Delete(ctx, id); err != nil {
		return 0, fmt.Errorf("failed to delete workspace: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityWorkspace,
		WorkspaceID: id,
		FeedKeys:    []string{events.WorkspaceKey(id)},
	})
	return id, nil
}

func (s *workspaceService) RotateJoinCode(ctx context.Context, userID, id uint) (*models.WorkspaceResponse, error) {
	if _, err := s.guard.Admin(ctx, id, userID); err != nil {
		return nil, err
	}

	joinCode, err := generateJoinCode()
	if err != nil {
		return nil, err
	}
	if err := s.workspaces.UpdateJoinCode(ctx, id, joinCode); err != nil {
		return nil, fmt.Errorf("failed to rotate join code: %w", err)
	}

	workspace, err := s.workspaces.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload workspace: %w", err)
	}
	return s.toResponse(workspace, true), nil
}

func (s *workspaceService) JoinWorkspace(ctx context.Context, userID, id uint, joinCode string) (*models.MemberResponse, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	workspace, err := s.workspaces.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	if workspace.JoinCode != joinCode {
		return nil, ErrInvalidJoinCode
	}

	if _, err := s.members.FindByWorkspaceAndUser(ctx, id, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.Member{
		WorkspaceID: id,
		UserID:      userID,
		Role:        models.MemberRoleMember,
	}
	if err := s.members.Create(ctx, member); err != nil {
		// The unique (workspace, user) index backstops concurrent joins.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityMember,
		WorkspaceID: id,
		FeedKeys:    []string{events.WorkspaceKey(id)},
	})

	return &models.MemberResponse{
		ID:          member.ID,
		WorkspaceID: member.WorkspaceID,
		UserID:      member.UserID,
		Role:        member.Role,
		CreatedAt:   member.CreatedAt,
		User:        user.ToResponse(),
	}, nil
}
