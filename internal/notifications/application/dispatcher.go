// Package application wires notification persistence and best-effort push.
package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	"github.com/felixgeelhaar/fairshare/internal/notifications/infrastructure/realtime"
)

// Dispatcher creates durable notifications and pushes them to the recipient's
// real-time channel.
//
// Persist must be called inside the transaction of the action that caused the
// notification; PushBestEffort strictly after that transaction commits. A
// failed push is logged and swallowed — the durable row is the source of
// truth.
type Dispatcher struct {
	repo      domain.Repository
	publisher realtime.Publisher
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(repo domain.Repository, publisher realtime.Publisher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Persist stores the notification, joining the transaction carried in ctx.
func (d *Dispatcher) Persist(ctx context.Context, n *domain.Notification) error {
	return d.repo.Save(ctx, n)
}

// PushBestEffort publishes the notification to the recipient's channel.
// Errors never propagate.
func (d *Dispatcher) PushBestEffort(ctx context.Context, n *domain.Notification) {
	payload := realtime.Payload{
		ID:        n.ID(),
		Message:   n.Message(),
		Link:      n.Link(),
		CreatedAt: n.CreatedAt(),
	}

	if err := d.publisher.Publish(ctx, n.RecipientID(), realtime.EventNotification, payload); err != nil {
		d.logger.Warn("realtime notification push failed",
			"notification_id", n.ID(),
			"recipient_id", n.RecipientID(),
			"error", err,
		)
	}
}
