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

type ConversationService interface {
	// CreateOrGet resolves the 1:1 conversation between the caller and the
	// other member, creating it on first contact. Calling it repeatedly
	// with the same pair returns the same conversation.
	CreateOrGet(ctx context.Context, userID uint, req *models.CreateOrGetConversationRequest) (*models.ConversationResponse, error)
}

type conversationService struct {
	conversations repository.ConversationRepository
	members       repository.MemberRepository
	guard         *Guard
	publisher     events.Publisher
}

func NewConversationService(
	conversations repository.ConversationRepository,
	members repository.MemberRepository,
	guard *Guard,
	publisher events.Publisher,
) ConversationService {
	return &conversationService{
		conversations: conversations,
		members:       members,
		guard:         guard,
		publisher:     publisher,
	}
}

func (s *conversationService) CreateOrGet(ctx context.Context, userID uint, req *models.CreateOrGetConversationRequest) (*models.ConversationResponse, error) {
	actor, err := s.guard.Member(ctx, req.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}

	other, err := s.members.FindByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if other.WorkspaceID != req.WorkspaceID {
		return nil, ErrNotFound
	}

	conversation, err := s.conversations.GetOrCreate(ctx, req.WorkspaceID, actor.ID, other.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve conversation: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityConversation,
		WorkspaceID: req.WorkspaceID,
		FeedKeys:    []string{events.ConversationKey(conversation.ID)},
	})

	return &models.ConversationResponse{
		ID:          conversation.ID,
		WorkspaceID: conversation.WorkspaceID,
		MemberOneID: conversation.MemberOneID,
		MemberTwoID: conversation.MemberTwoID,
	}, nil
}
