package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	"github.com/google/uuid"
)

// DefaultListLimit bounds the inbox page when the caller does not.
const DefaultListLimit = 20

// NotificationDTO is a lightweight data transfer object for a notification.
type NotificationDTO struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListNotificationsQuery lists a recipient's notifications, newest first.
type ListNotificationsQuery struct {
	RecipientID uuid.UUID
	Limit       int
}

// ListNotificationsHandler handles the ListNotificationsQuery.
type ListNotificationsHandler struct {
	repo domain.Repository
}

// NewListNotificationsHandler creates a new ListNotificationsHandler.
func NewListNotificationsHandler(repo domain.Repository) *ListNotificationsHandler {
	return &ListNotificationsHandler{repo: repo}
}

// Handle executes the ListNotificationsQuery.
func (h *ListNotificationsHandler) Handle(ctx context.Context, query ListNotificationsQuery) ([]NotificationDTO, error) {
	limit := query.Limit
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	notifications, err := h.repo.ListByRecipient(ctx, query.RecipientID, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = NotificationDTO{
			ID:        n.ID(),
			Message:   n.Message(),
			Link:      n.Link(),
			Read:      n.IsRead(),
			CreatedAt: n.CreatedAt(),
		}
	}
	return dtos, nil
}
