package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/fairshare/internal/shared/domain"
	"github.com/google/uuid"
)

// Notification is a durable message for a recipient. It is created inside the
// transaction of the action that caused it and flips Unread -> Read exactly
// once; it never reverts.
type Notification struct {
	sharedDomain.BaseEntity
	recipientID uuid.UUID
	message     string
	link        string
	read        bool
}

// NewNotification creates an unread notification.
func NewNotification(recipientID uuid.UUID, message, link string) (*Notification, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}
	return &Notification{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		recipientID: recipientID,
		message:     message,
		link:        link,
	}, nil
}

// Getters
func (n *Notification) RecipientID() uuid.UUID { return n.recipientID }
func (n *Notification) Message() string        { return n.message }
func (n *Notification) Link() string           { return n.link }
func (n *Notification) IsRead() bool           { return n.read }

// MarkRead flips the read flag. The transition is one-way.
func (n *Notification) MarkRead() {
	if n.read {
		return
	}
	n.read = true
	n.Touch()
}

// RehydrateNotification recreates a notification from persisted data.
func RehydrateNotification(
	id, recipientID uuid.UUID,
	message, link string,
	read bool,
	createdAt, updatedAt time.Time,
) *Notification {
	return &Notification{
		BaseEntity:  sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		recipientID: recipientID,
		message:     message,
		link:        link,
		read:        read,
	}
}
