package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/fairshare/internal/identity"
	notifApplication "github.com/felixgeelhaar/fairshare/internal/notifications/application"
	notifDomain "github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	sharedApplication "github.com/felixgeelhaar/fairshare/internal/shared/application"
	"github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
)

// ToggleLikeCommand toggles the caller's like on a project.
type ToggleLikeCommand struct {
	ProjectID uuid.UUID
	Liker     *identity.Identity // nil for anonymous callers
}

// ToggleLikeResult reports the state after the toggle.
type ToggleLikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// ToggleLikeHandler handles the ToggleLikeCommand.
type ToggleLikeHandler struct {
	repo       domain.EngagementRepository
	dispatcher *notifApplication.Dispatcher
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewToggleLikeHandler creates a new ToggleLikeHandler.
func NewToggleLikeHandler(
	repo domain.EngagementRepository,
	dispatcher *notifApplication.Dispatcher,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *ToggleLikeHandler {
	return &ToggleLikeHandler{
		repo:       repo,
		dispatcher: dispatcher,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the ToggleLikeCommand.
//
// The like record, the counter update, the owner's notification, and the
// outbox message commit in one transaction; the uniqueness constraint on
// (liker, project) serializes racing toggles from the same identity. Only
// after the commit is the notification pushed to the owner's real-time
// channel, best-effort.
func (h *ToggleLikeHandler) Handle(ctx context.Context, cmd ToggleLikeCommand) (*ToggleLikeResult, error) {
	if cmd.Liker == nil {
		return nil, domain.ErrIdentityRequired
	}
	liker := *cmd.Liker

	var (
		result       *ToggleLikeResult
		notification *notifDomain.Notification
	)

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		project, err := h.repo.FindByID(txCtx, cmd.ProjectID)
		if err != nil {
			return err
		}

		liked, err := h.repo.HasLikeRecord(txCtx, liker.ID, project.ID())
		if err != nil {
			return err
		}

		if liked {
			if err := h.repo.DeleteLikeRecord(txCtx, liker.ID, project.ID()); err != nil {
				return err
			}
			count, err := h.repo.DecrementLikeCount(txCtx, project.ID())
			if err != nil {
				return err
			}

			event := domain.NewProjectUnlikedEvent(project, liker.ID)
			msg, err := outbox.NewMessage(event)
			if err != nil {
				return err
			}
			if err := h.outboxRepo.Save(txCtx, msg); err != nil {
				return err
			}

			result = &ToggleLikeResult{Liked: false, LikeCount: count}
			return nil
		}

		if err := h.repo.InsertLikeRecord(txCtx, liker.ID, project.ID()); err != nil {
			return err
		}
		count, err := h.repo.IncrementLikeCount(txCtx, project.ID())
		if err != nil {
			return err
		}

		if !project.IsOwnedBy(liker.ID) {
			notification, err = notifDomain.NewNotification(
				project.OwnerID(),
				likeMessage(liker.Name, project.Title()),
				fmt.Sprintf("/projects/%s", project.ID()),
			)
			if err != nil {
				return err
			}
			if err := h.dispatcher.Persist(txCtx, notification); err != nil {
				return err
			}
		}

		event := domain.NewProjectLikedEvent(project, liker.ID)
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.Save(txCtx, msg); err != nil {
			return err
		}

		result = &ToggleLikeResult{Liked: true, LikeCount: count}
		return nil
	})
	if err != nil {
		// A racing toggle from the same identity already applied this
		// change; the whole transaction rolled back, so report the
		// surviving state instead of failing.
		if errors.Is(err, domain.ErrDuplicateAction) {
			return h.currentState(ctx, liker.ID, cmd.ProjectID)
		}
		return nil, err
	}

	if notification != nil {
		h.dispatcher.PushBestEffort(ctx, notification)
	}

	return result, nil
}

func (h *ToggleLikeHandler) currentState(ctx context.Context, likerID, projectID uuid.UUID) (*ToggleLikeResult, error) {
	project, err := h.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	liked, err := h.repo.HasLikeRecord(ctx, likerID, projectID)
	if err != nil {
		return nil, err
	}
	return &ToggleLikeResult{Liked: liked, LikeCount: project.LikeCount()}, nil
}

func likeMessage(likerName, title string) string {
	if likerName == "" {
		return fmt.Sprintf("Someone liked your project %q", title)
	}
	return fmt.Sprintf("%s liked your project %q", likerName, title)
}
