package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
)

// ProjectDTO is the detail view of a project.
type ProjectDTO struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"ownerId"`
	OwnerName     string          `json:"ownerName"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      domain.Category `json:"category"`
	ThumbnailURL  string          `json:"thumbnailUrl,omitempty"`
	ProjectURL    string          `json:"projectUrl,omitempty"`
	ExposureCount int64           `json:"exposureCount"`
	ViewCount     int64           `json:"viewCount"`
	LikeCount     int64           `json:"likeCount"`
	Liked         bool            `json:"liked"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// GetProjectQuery fetches one project.
type GetProjectQuery struct {
	ProjectID uuid.UUID
	ViewerID  *uuid.UUID // when set, Liked reflects this viewer's like state
}

// GetProjectHandler handles the GetProjectQuery.
type GetProjectHandler struct {
	repo domain.EngagementRepository
}

// NewGetProjectHandler creates a new GetProjectHandler.
func NewGetProjectHandler(repo domain.EngagementRepository) *GetProjectHandler {
	return &GetProjectHandler{repo: repo}
}

// Handle executes the GetProjectQuery.
func (h *GetProjectHandler) Handle(ctx context.Context, query GetProjectQuery) (*ProjectDTO, error) {
	project, err := h.repo.FindByID(ctx, query.ProjectID)
	if err != nil {
		return nil, err
	}

	liked := false
	if query.ViewerID != nil {
		liked, err = h.repo.HasLikeRecord(ctx, *query.ViewerID, project.ID())
		if err != nil {
			return nil, err
		}
	}

	return &ProjectDTO{
		ID:            project.ID(),
		OwnerID:       project.OwnerID(),
		OwnerName:     project.OwnerName(),
		Title:         project.Title(),
		Description:   project.Description(),
		Category:      project.Category(),
		ThumbnailURL:  project.ThumbnailURL(),
		ProjectURL:    project.ProjectURL(),
		ExposureCount: project.ExposureCount(),
		ViewCount:     project.ViewCount(),
		LikeCount:     project.LikeCount(),
		Liked:         liked,
		CreatedAt:     project.CreatedAt(),
	}, nil
}
