package commands

import (
	"context"
	"errors"

	sharedApplication "github.com/felixgeelhaar/fairshare/internal/shared/application"
	"github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
)

// RegisterViewCommand counts a detail view for an identified viewer.
type RegisterViewCommand struct {
	ProjectID uuid.UUID
	ViewerID  *uuid.UUID // nil for anonymous viewers
}

// RegisterViewHandler handles the RegisterViewCommand.
type RegisterViewHandler struct {
	repo       domain.EngagementRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewRegisterViewHandler creates a new RegisterViewHandler.
func NewRegisterViewHandler(
	repo domain.EngagementRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *RegisterViewHandler {
	return &RegisterViewHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the RegisterViewCommand.
//
// Anonymous views are never counted. For identified viewers the view record
// insert and the counter increment run in one transaction; the uniqueness
// constraint on (viewer, project) makes repeated or racing calls count at
// most once — the duplicate aborts the transaction and is absorbed here as
// "already counted".
func (h *RegisterViewHandler) Handle(ctx context.Context, cmd RegisterViewCommand) error {
	if cmd.ViewerID == nil {
		return nil
	}
	viewerID := *cmd.ViewerID

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.repo.InsertViewRecord(txCtx, viewerID, cmd.ProjectID); err != nil {
			return err
		}
		if err := h.repo.IncrementViewCount(txCtx, cmd.ProjectID); err != nil {
			return err
		}

		event := domain.NewProjectViewedEvent(cmd.ProjectID, viewerID)
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		return h.outboxRepo.Save(txCtx, msg)
	})
	if errors.Is(err, domain.ErrDuplicateAction) {
		return nil
	}
	return err
}
