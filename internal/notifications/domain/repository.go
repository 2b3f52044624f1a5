package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for notification persistence.
// Save joins a transaction carried in the context so a notification commits
// atomically with the like that caused it.
type Repository interface {
	// Save persists a new notification.
	Save(ctx context.Context, n *Notification) error

	// ListByRecipient returns the recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*Notification, error)

	// MarkRead flips one notification to read. Scoped to the recipient;
	// returns ErrNotificationNotFound when no matching row exists.
	MarkRead(ctx context.Context, recipientID, id uuid.UUID) error

	// MarkAllRead flips all of the recipient's unread notifications and
	// returns how many were updated.
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}
