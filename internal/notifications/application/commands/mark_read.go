package commands

import (
	"context"

	"github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	"github.com/google/uuid"
)

// MarkReadCommand flips one notification to read.
type MarkReadCommand struct {
	RecipientID    uuid.UUID
	NotificationID uuid.UUID
}

// MarkReadHandler handles the MarkReadCommand.
type MarkReadHandler struct {
	repo domain.Repository
}

// NewMarkReadHandler creates a new MarkReadHandler.
func NewMarkReadHandler(repo domain.Repository) *MarkReadHandler {
	return &MarkReadHandler{repo: repo}
}

// Handle executes the MarkReadCommand.
func (h *MarkReadHandler) Handle(ctx context.Context, cmd MarkReadCommand) error {
	return h.repo.MarkRead(ctx, cmd.RecipientID, cmd.NotificationID)
}
