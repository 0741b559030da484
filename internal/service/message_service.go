package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"slack-service/internal/events"
	"slack-service/internal/models"
	"slack-service/internal/repository"

	"gorm.io/gorm"
)

var (
	// ErrInvalidTarget rejects messages that name no home feed at all.
	ErrInvalidTarget = errors.New("message must target a channel, conversation or parent message")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ImageResolver turns stored object keys into signed download URLs.
type ImageResolver interface {
	PresignedGetURL(ctx context.Context, key string) (string, error)
}

type MessageService interface {
	CreateMessage(ctx context.Context, userID uint, req *models.CreateMessageRequest) (uint, error)
	UpdateMessage(ctx context.Context, userID, messageID uint, req *models.UpdateMessageRequest) (uint, error)
	DeleteMessage(ctx context.Context, userID, messageID uint) (uint, error)
	// ListMessages assembles one page of an enriched feed: raw messages
	// joined with author identity, reaction roll-ups and thread summaries.
	ListMessages(ctx context.Context, userID uint, opts models.ListMessagesOptions) (*models.PaginatedMessageResponse, error)
}

type messageService struct {
	messages      repository.MessageRepository
	members       repository.MemberRepository
	users         repository.UserRepository
	reactions     repository.ReactionRepository
	channels      repository.ChannelRepository
	conversations repository.ConversationRepository
	guard         *Guard
	images        ImageResolver
	publisher     events.Publisher
}

func NewMessageService(
	messages repository.MessageRepository,
	members repository.MemberRepository,
	users repository.UserRepository,
	reactions repository.ReactionRepository,
	channels repository.ChannelRepository,
	conversations repository.ConversationRepository,
	guard *Guard,
	images ImageResolver,
	publisher events.Publisher,
) MessageService {
	return &messageService{
		messages:      messages,
		members:       members,
		users:         users,
		reactions:     reactions,
		channels:      channels,
		conversations: conversations,
		guard:         guard,
		images:        images,
		publisher:     publisher,
	}
}

// feedKey names the feed a message belongs to for invalidation fanout.
func feedKey(message *models.Message) string {
	switch {
	case message.ParentMessageID != nil:
		return events.ThreadKey(*message.ParentMessageID)
	case message.ChannelID != nil:
		return events.ChannelKey(*message.ChannelID)
	case message.ConversationID != nil:
		return events.ConversationKey(*message.ConversationID)
	default:
		return events.WorkspaceKey(message.WorkspaceID)
	}
}

func (s *messageService) CreateMessage(ctx context.Context, userID uint, req *models.CreateMessageRequest) (uint, error) {
	member, err := s.guard.Member(ctx, req.WorkspaceID, userID)
	if err != nil {
		return 0, err
	}

	conversationID := req.ConversationID
	if req.ChannelID == nil && conversationID == nil {
		if req.ParentMessageID == nil {
			return 0, ErrInvalidTarget
		}
		// Thread reply in a direct conversation: inherit the parent's
		// conversation so the reply lands in the same feed.
		parent, err := s.messages.FindByID(ctx, *req.ParentMessageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrParentNotFound
			}
			return 0, fmt.Errorf("failed to load parent message: %w", err)
		}
		conversationID = parent.ConversationID
	}

	message := &models.Message{
		Body:            req.Body,
		Image:           req.Image,
		MemberID:        member.ID,
		WorkspaceID:     req.WorkspaceID,
		ChannelID:       req.ChannelID,
		ConversationID:  conversationID,
		ParentMessageID: req.ParentMessageID,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return 0, fmt.Errorf("failed to create message: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityMessage,
		WorkspaceID: message.WorkspaceID,
		FeedKeys:    []string{feedKey(message)},
	})
	return message.ID, nil
}

func (s *messageService) UpdateMessage(ctx context.Context, userID, messageID uint, req *models.UpdateMessageRequest) (uint, error) {
	message, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to load message: %w", err)
	}

	member, err := s.guard.Member(ctx, message.WorkspaceID, userID)
	if err != nil {
		return 0, err
	}
	if err := s.guard.Author(member, message.MemberID); err != nil {
		return 0, err
	}

	if err := s.messages.UpdateBody(ctx, messageID, req.Body, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("failed to update message: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityMessage,
		WorkspaceID: message.WorkspaceID,
		FeedKeys:    []string{feedKey(message)},
	})
	return messageID, nil
}

func (s *messageService) DeleteMessage(ctx context.Context, userID, messageID uint) (uint, error) {
	message, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to load message: %w", err)
	}

	member, err := s.guard.Member(ctx, message.WorkspaceID, userID)
	if err != nil {
		return 0, err
	}
	if err := s.guard.Author(member, message.MemberID); err != nil {
		return 0, err
	}

	if err := s.messages.Delete(ctx, messageID); err != nil {
		return 0, fmt.Errorf("failed to delete message: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityMessage,
		WorkspaceID: message.WorkspaceID,
		FeedKeys:    []string{feedKey(message)},
	})
	return messageID, nil
}

func (s *messageService) ListMessages(ctx context.Context, userID uint, opts models.ListMessagesOptions) (*models.PaginatedMessageResponse, error) {
	channelID := opts.ChannelID
	conversationID := opts.ConversationID
	parentMessageID := opts.ParentMessageID

	var workspaceID uint

	// Thread replies inside a direct conversation carry neither channel
	// nor conversation key; resolve through the parent.
	if conversationID == nil && channelID == nil && parentMessageID != nil {
		parent, err := s.messages.FindByID(ctx, *parentMessageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to load parent message: %w", err)
		}
		conversationID = parent.ConversationID
		workspaceID = parent.WorkspaceID
	}

	switch {
	case workspaceID != 0:
	case channelID != nil:
		channel, err := s.channels.FindByID(ctx, *channelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to load channel: %w", err)
		}
		workspaceID = channel.WorkspaceID
	case conversationID != nil:
		conversation, err := s.conversations.FindByID(ctx, *conversationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to load conversation: %w", err)
		}
		workspaceID = conversation.WorkspaceID
	default:
		return nil, ErrInvalidTarget
	}

	page := &models.PaginatedMessageResponse{Items: []models.EnrichedMessage{}}

	if _, err := s.guard.Member(ctx, workspaceID, userID); err != nil {
		if failSoft(err) {
			return page, nil
		}
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	messages, err := s.messages.FindFeed(ctx, channelID, parentMessageID, conversationID, limit, opts.Before)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}

	for _, message := range messages {
		enriched, ok, err := s.enrich(ctx, message)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Orphaned message, drop it from the page rather than failing
			// the whole read.
			continue
		}
		page.Items = append(page.Items, *enriched)
	}
	page.Total = len(page.Items)

	if len(messages) == limit && limit > 0 {
		cursor := messages[len(messages)-1].CreatedAt.UnixMilli()
		page.NextCursor = &cursor
	}
	return page, nil
}

// enrich joins one raw message with its author, reaction roll-up and
// thread summary. ok is false when the author member or user is gone.
func (s *messageService) enrich(ctx context.Context, message *models.Message) (*models.EnrichedMessage, bool, error) {
	member, err := s.members.FindByID(ctx, message.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load message member: %w", err)
	}
	user, err := s.users.FindByID(ctx, member.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load message user: %w", err)
	}

	reactions, err := s.reactions.FindByMessageID(ctx, message.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load reactions: %w", err)
	}

	replies, err := s.messages.FindReplies(ctx, message.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load replies: %w", err)
	}
	thread := summarizeThread(replies)
	thread.Image = s.resolveImage(ctx, thread.Image)

	return &models.EnrichedMessage{
		ID:              message.ID,
		Body:            message.Body,
		ImageURL:        s.resolveImage(ctx, message.Image),
		WorkspaceID:     message.WorkspaceID,
		ChannelID:       message.ChannelID,
		ConversationID:  message.ConversationID,
		ParentMessageID: message.ParentMessageID,
		CreatedAt:       message.CreatedAt,
		EditedAt:        message.EditedAt,
		Author: models.MessageAuthor{
			MemberID: member.ID,
			UserID:   user.ID,
			Username: user.Username,
			Avatar:   user.Avatar,
		},
		Reactions: rollupReactions(reactions),
		Thread:    thread,
	}, true, nil
}

// resolveImage swaps a stored object key for a signed URL. Resolution
// failures degrade to no image rather than failing the page.
func (s *messageService) resolveImage(ctx context.Context, key *string) *string {
	if key == nil || s.images == nil {
		return nil
	}
	url, err := s.images.PresignedGetURL(ctx, *key)
	if err != nil {
		slog.Warn("Failed to resolve image URL", "key", *key, "error", err)
		return nil
	}
	return &url
}

// rollupReactions groups reactions by value in first-seen order, counting
// rows per value and de-duplicating the member-id set.
func rollupReactions(reactions []*models.Reaction) []models.ReactionGroup {
	groups := []models.ReactionGroup{}
	index := make(map[string]int)
	seen := make(map[string]map[uint]struct{})

	for _, reaction := range reactions {
		i, ok := index[reaction.Value]
		if !ok {
			i = len(groups)
			index[reaction.Value] = i
			seen[reaction.Value] = make(map[uint]struct{})
			groups = append(groups, models.ReactionGroup{Value: reaction.Value, MemberIDs: []uint{}})
		}
		groups[i].Count++
		if _, dup := seen[reaction.Value][reaction.MemberID]; !dup {
			seen[reaction.Value][reaction.MemberID] = struct{}{}
			groups[i].MemberIDs = append(groups[i].MemberIDs, reaction.MemberID)
		}
	}
	return groups
}

// summarizeThread aggregates replies fetched in insertion order: the
// count, plus the image key and timestamp of the reply at the tail of the
// sequence. Zero replies yield a zero summary.
func summarizeThread(replies []*models.Message) models.ThreadSummary {
	if len(replies) == 0 {
		return models.ThreadSummary{}
	}
	last := replies[len(replies)-1]
	return models.ThreadSummary{
		Count:     len(replies),
		Image:     last.Image,
		Timestamp: last.CreatedAt.UnixMilli(),
	}
}
