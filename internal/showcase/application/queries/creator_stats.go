package queries

import (
	"context"

	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
)

// CreatorStatsDTO aggregates engagement across a creator's projects.
type CreatorStatsDTO struct {
	OwnerID        uuid.UUID `json:"ownerId"`
	TotalProjects  int       `json:"totalProjects"`
	TotalLikes     int64     `json:"totalLikes"`
	TotalViews     int64     `json:"totalViews"`
	TotalExposures int64     `json:"totalExposures"`
}

// GetCreatorStatsQuery aggregates a creator's engagement totals.
type GetCreatorStatsQuery struct {
	OwnerID uuid.UUID
}

// GetCreatorStatsHandler handles the GetCreatorStatsQuery.
type GetCreatorStatsHandler struct {
	repo domain.EngagementRepository
}

// NewGetCreatorStatsHandler creates a new GetCreatorStatsHandler.
func NewGetCreatorStatsHandler(repo domain.EngagementRepository) *GetCreatorStatsHandler {
	return &GetCreatorStatsHandler{repo: repo}
}

// Handle executes the GetCreatorStatsQuery.
func (h *GetCreatorStatsHandler) Handle(ctx context.Context, query GetCreatorStatsQuery) (*CreatorStatsDTO, error) {
	projects, err := h.repo.FindByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}

	stats := &CreatorStatsDTO{
		OwnerID:       query.OwnerID,
		TotalProjects: len(projects),
	}
	for _, p := range projects {
		stats.TotalLikes += p.LikeCount()
		stats.TotalViews += p.ViewCount()
		stats.TotalExposures += p.ExposureCount()
	}
	return stats, nil
}
