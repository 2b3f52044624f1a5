package commands

import (
	"context"

	"github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	"github.com/google/uuid"
)

// MarkAllReadCommand flips every unread notification of a recipient.
type MarkAllReadCommand struct {
	RecipientID uuid.UUID
}

// MarkAllReadResult reports how many notifications were updated.
type MarkAllReadResult struct {
	Updated int64 `json:"updated"`
}

// MarkAllReadHandler handles the MarkAllReadCommand.
type MarkAllReadHandler struct {
	repo domain.Repository
}

// NewMarkAllReadHandler creates a new MarkAllReadHandler.
func NewMarkAllReadHandler(repo domain.Repository) *MarkAllReadHandler {
	return &MarkAllReadHandler{repo: repo}
}

// Handle executes the MarkAllReadCommand.
func (h *MarkAllReadHandler) Handle(ctx context.Context, cmd MarkAllReadCommand) (*MarkAllReadResult, error) {
	updated, err := h.repo.MarkAllRead(ctx, cmd.RecipientID)
	if err != nil {
		return nil, err
	}
	return &MarkAllReadResult{Updated: updated}, nil
}
