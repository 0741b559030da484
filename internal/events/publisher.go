package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/redis/go-redis/v9"
)

// PubSubChannel is the redis channel the websocket hub subscribes to.
const PubSubChannel = "invalidations"

// StreamPublisher publishes invalidations durably to kafka and to redis
// pubsub for live fanout through the websocket hub.
type StreamPublisher struct {
	producer sarama.SyncProducer
	topic    string
	redis    *redis.Client
}

func NewStreamPublisher(producer sarama.SyncProducer, topic string, redisClient *redis.Client) *StreamPublisher {
	return &StreamPublisher{
		producer: producer,
		topic:    topic,
		redis:    redisClient,
	}
}

func (p *StreamPublisher) Invalidate(ctx context.Context, event Invalidation) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal invalidation event", "entity", event.Entity, "error", err)
		return
	}

	if p.producer != nil {
		msg := &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(WorkspaceKey(event.WorkspaceID)),
			Value: sarama.ByteEncoder(payload),
		}
		if _, _, err := p.producer.SendMessage(msg); err != nil {
			slog.Error("Failed to publish invalidation to kafka", "entity", event.Entity, "error", err)
		}
	}

	if p.redis != nil {
		if err := p.redis.Publish(ctx, PubSubChannel, payload).Err(); err != nil {
			slog.Error("Failed to publish invalidation to redis", "entity", event.Entity, "error", err)
		}
	}
}
