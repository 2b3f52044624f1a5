package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// envelope is what subscribers receive on the channel.
type envelope struct {
	Event string  `json:"event"`
	Data  Payload `json:"data"`
}

// RedisPublisher delivers events over Redis Pub/Sub, one channel per
// recipient.
type RedisPublisher struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisPublisher creates a Redis-backed realtime publisher.
func NewRedisPublisher(url string, logger *slog.Logger) (*RedisPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis realtime publisher connected")

	return &RedisPublisher{
		client: client,
		logger: logger,
	}, nil
}

// Publish sends the event to the recipient's channel.
func (p *RedisPublisher) Publish(ctx context.Context, recipientID uuid.UUID, event string, payload Payload) error {
	body, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	channel := ChannelName(recipientID)
	if err := p.client.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}

	p.logger.Debug("realtime event published",
		"channel", channel,
		"event", event,
	)

	return nil
}

// Close closes the Redis client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
