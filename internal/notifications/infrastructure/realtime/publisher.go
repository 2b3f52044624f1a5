// Package realtime pushes notification payloads to a per-recipient channel.
// Delivery is best-effort: the durable notification row is the source of
// truth and a client that polls on load will observe it either way.
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// EventNotification is the event name clients bind to.
const EventNotification = "notification"

// Payload is the wire payload for a pushed notification.
type Payload struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher delivers an event to a recipient's channel, best-effort.
type Publisher interface {
	Publish(ctx context.Context, recipientID uuid.UUID, event string, payload Payload) error
	Close() error
}

// ChannelName returns the per-recipient channel key.
func ChannelName(recipientID uuid.UUID) string {
	return fmt.Sprintf("user-%s", recipientID)
}

// NoopPublisher drops every publish. Used when no channel backend is
// configured; clients then rely on polling the durable records.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the event but doesn't deliver it.
func (p *NoopPublisher) Publish(ctx context.Context, recipientID uuid.UUID, event string, payload Payload) error {
	p.logger.Debug("noop realtime publish",
		"channel", ChannelName(recipientID),
		"event", event,
	)
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error {
	return nil
}
