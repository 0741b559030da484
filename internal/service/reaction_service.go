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

type ReactionService interface {
	// Toggle removes the caller's (message, value) reaction when present
	// and adds it otherwise. Two toggles in a row net to a no-op.
	Toggle(ctx context.Context, userID, messageID uint, value string) (*models.ToggleReactionResponse, error)
}

type reactionService struct {
	reactions repository.ReactionRepository
	messages  repository.MessageRepository
	guard     *Guard
	publisher events.Publisher
}

func NewReactionService(
	reactions repository.ReactionRepository,
	messages repository.MessageRepository,
	guard *Guard,
	publisher events.Publisher,
) ReactionService {
	return &reactionService{
		reactions: reactions,
		messages:  messages,
		guard:     guard,
		publisher: publisher,
	}
}

func (s *reactionService) Toggle(ctx context.Context, userID, messageID uint, value string) (*models.ToggleReactionResponse, error) {
	message, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load message: %w", err)
	}

	member, err := s.guard.Member(ctx, message.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}

	id, added, err := s.reactions.Toggle(ctx, messageID, member.ID, message.WorkspaceID, value)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle reaction: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityReaction,
		WorkspaceID: message.WorkspaceID,
		FeedKeys:    []string{feedKey(message)},
	})

	return &models.ToggleReactionResponse{ID: id, Added: added}, nil
}
