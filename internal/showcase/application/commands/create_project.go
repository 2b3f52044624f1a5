package commands

import (
	"context"

	"github.com/felixgeelhaar/fairshare/internal/identity"
	sharedApplication "github.com/felixgeelhaar/fairshare/internal/shared/application"
	"github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
)

// CreateProjectCommand submits a new project.
type CreateProjectCommand struct {
	Owner        *identity.Identity
	Title        string
	Description  string
	Category     domain.Category
	ThumbnailURL string
	ProjectURL   string
}

// CreateProjectResult contains the result of creating a project.
type CreateProjectResult struct {
	ProjectID uuid.UUID `json:"projectId"`
}

// CreateProjectHandler handles the CreateProjectCommand.
type CreateProjectHandler struct {
	repo       domain.EngagementRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateProjectHandler creates a new CreateProjectHandler.
func NewCreateProjectHandler(
	repo domain.EngagementRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CreateProjectHandler {
	return &CreateProjectHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CreateProjectCommand.
func (h *CreateProjectHandler) Handle(ctx context.Context, cmd CreateProjectCommand) (*CreateProjectResult, error) {
	if cmd.Owner == nil {
		return nil, domain.ErrIdentityRequired
	}
	owner := *cmd.Owner

	var result *CreateProjectResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		project, err := domain.NewProject(owner.ID, owner.Name, cmd.Title, cmd.Description, cmd.Category)
		if err != nil {
			return err
		}

		if cmd.ThumbnailURL != "" {
			project.SetThumbnailURL(cmd.ThumbnailURL)
		}
		if cmd.ProjectURL != "" {
			project.SetProjectURL(cmd.ProjectURL)
		}

		if err := h.repo.Save(txCtx, project); err != nil {
			return err
		}

		event := domain.NewProjectCreatedEvent(project)
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.Save(txCtx, msg); err != nil {
			return err
		}

		result = &CreateProjectResult{ProjectID: project.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
