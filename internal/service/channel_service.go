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

type ChannelService interface {
	GetChannels(ctx context.Context, userID, workspaceID uint) ([]models.ChannelResponse, error)
	GetChannel(ctx context.Context, userID, channelID uint) (*models.ChannelResponse, error)
	CreateChannel(ctx context.Context, userID uint, req *models.CreateChannelRequest) (uint, error)
	UpdateChannel(ctx context.Context, userID, channelID uint, req *models.UpdateChannelRequest) (uint, error)
	DeleteChannel(ctx context.Context, userID, channelID uint) (uint, error)
}

type channelService struct {
	channels  repository.ChannelRepository
	guard     *Guard
	publisher events.Publisher
}

func NewChannelService(channels repository.ChannelRepository, guard *Guard, publisher events.Publisher) ChannelService {
	return &channelService{
		channels:  channels,
		guard:     guard,
		publisher: publisher,
	}
}

func (s *channelService) GetChannels(ctx context.Context, userID, workspaceID uint) ([]models.ChannelResponse, error) {
	responses := []models.ChannelResponse{}

	if _, err := s.guard.Member(ctx, workspaceID, userID); err != nil {
		if failSoft(err) {
			return responses, nil
		}
		return nil, err
	}

	channels, err := s.channels.FindByWorkspaceID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	for _, channel := range channels {
		responses = append(responses, channel.ToResponse())
	}
	return responses, nil
}

func (s *channelService) GetChannel(ctx context.Context, userID, channelID uint) (*models.ChannelResponse, error) {
	channel, err := s.channels.FindByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load channel: %w", err)
	}

	if _, err := s.guard.Member(ctx, channel.WorkspaceID, userID); err != nil {
		if failSoft(err) {
			return nil, nil
		}
		return nil, err
	}

	resp := channel.ToResponse()
	return &resp, nil
}

func (s *channelService) CreateChannel(ctx context.Context, userID uint, req *models.CreateChannelRequest) (uint, error) {
	if _, err := s.guard.Admin(ctx, req.WorkspaceID, userID); err != nil {
		return 0, err
	}

	channel := &models.Channel{
		WorkspaceID: req.WorkspaceID,
		Name:        models.NormalizeChannelName(req.Name),
	}
	if err := s.channels.Create(ctx, channel); err != nil {
		return 0, fmt.Errorf("failed to create channel: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityChannel,
		WorkspaceID: req.WorkspaceID,
		FeedKeys:    []string{events.WorkspaceKey(req.WorkspaceID)},
	})
	return channel.ID, nil
}

func (s *channelService) UpdateChannel(ctx context.Context, userID, channelID uint, req *models.UpdateChannelRequest) (uint, error) {
	channel, err := s.channels.FindByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to load channel: %w", err)
	}

	if _, err := s.guard.Admin(ctx, channel.WorkspaceID, userID); err != nil {
		return 0, err
	}

	if err := s.channels.UpdateName(ctx, channelID, models.NormalizeChannelName(req.Name)); err != nil {
		return 0, fmt.Errorf("failed to update channel: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityChannel,
		WorkspaceID: channel.WorkspaceID,
		FeedKeys:    []string{events.WorkspaceKey(channel.WorkspaceID), events.ChannelKey(channelID)},
	})
	return channelID, nil
}

func (s *channelService) DeleteChannel(ctx context.Context, userID, channelID uint) (uint, error) {
	channel, err := s.channels.FindByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to load channel: %w", err)
	}

	if _, err := s.guard.Admin(ctx, channel.WorkspaceID, userID); err != nil {
		return 0, err
	}

	// Messages and reactions go with the channel.
	if err := s.channels.Delete(ctx, channelID); err != nil {
		return 0, fmt.Errorf("failed to delete channel: %w", err)
	}

	s.publisher.Invalidate(ctx, events.Invalidation{
		Entity:      events.EntityChannel,
		WorkspaceID: channel.WorkspaceID,
		FeedKeys:    []string{events.WorkspaceKey(channel.WorkspaceID), events.ChannelKey(channelID)},
	})
	return channelID, nil
}
