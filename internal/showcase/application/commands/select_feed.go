package commands

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
)

// Feed sizing defaults. The pool holds the least-exposed candidates; a page is
// sampled from it so near-equally-exposed projects rotate between refreshes.
const (
	DefaultPoolMinimum = 50
	DefaultPageSize    = 12
)

// SelectFeedCommand selects a feed page for a viewer.
// ExcludeIDs carries the ids already shown to this caller; repeated calls
// with an accumulating exclusion set implement cursor-less pagination.
type SelectFeedCommand struct {
	ViewerID   *uuid.UUID // nil for anonymous viewers
	Category   domain.Category
	Query      string
	ExcludeIDs []uuid.UUID
	Limit      int
}

// FeedItemDTO is one entry of a served feed page.
type FeedItemDTO struct {
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

// SelectFeedConfig tunes the fairness pool.
type SelectFeedConfig struct {
	// PoolMinimum is the smallest candidate pool fetched regardless of page size.
	PoolMinimum int
	// PageSize is the limit used when the command does not specify one.
	PageSize int
}

// DefaultSelectFeedConfig returns the production defaults.
func DefaultSelectFeedConfig() SelectFeedConfig {
	return SelectFeedConfig{
		PoolMinimum: DefaultPoolMinimum,
		PageSize:    DefaultPageSize,
	}
}

// SelectFeedHandler handles the SelectFeedCommand.
type SelectFeedHandler struct {
	repo    domain.EngagementRepository
	config  SelectFeedConfig
	shuffle func(n int, swap func(i, j int))
}

// NewSelectFeedHandler creates a new SelectFeedHandler.
func NewSelectFeedHandler(repo domain.EngagementRepository, config SelectFeedConfig) *SelectFeedHandler {
	if config.PoolMinimum <= 0 {
		config.PoolMinimum = DefaultPoolMinimum
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	return &SelectFeedHandler{
		repo:    repo,
		config:  config,
		shuffle: rand.Shuffle,
	}
}

// Handle executes the SelectFeedCommand.
//
// The pool is fetched ordered by ascending exposure count; when it is larger
// than the page, a uniform shuffle trims it so the same fairest subset is not
// served on every refresh. Exposure is counted as soon as a project is handed
// to the caller: the batch increment runs last, after every read, so that if
// the call fails for any reason nothing is considered shown.
func (h *SelectFeedHandler) Handle(ctx context.Context, cmd SelectFeedCommand) ([]FeedItemDTO, error) {
	limit := cmd.Limit
	if limit <= 0 {
		limit = h.config.PageSize
	}

	poolSize := 2 * limit
	if poolSize < h.config.PoolMinimum {
		poolSize = h.config.PoolMinimum
	}

	filter := domain.FeedFilter{Category: cmd.Category, Query: cmd.Query}
	pool, err := h.repo.FindLeastExposed(ctx, filter, cmd.ExcludeIDs, poolSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	if len(pool) == 0 {
		return []FeedItemDTO{}, nil
	}

	selected := pool
	if len(pool) > limit {
		h.shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		selected = pool[:limit]
	}

	ids := make([]uuid.UUID, len(selected))
	for i, p := range selected {
		ids[i] = p.ID()
	}

	var liked map[uuid.UUID]bool
	if cmd.ViewerID != nil {
		liked, err = h.repo.LikedSet(ctx, *cmd.ViewerID, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}

	// The increment goes last so a failed read cannot leave exposures
	// charged for a feed that was never returned.
	if err := h.repo.IncrementExposure(ctx, ids); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	items := make([]FeedItemDTO, len(selected))
	for i, p := range selected {
		items[i] = FeedItemDTO{
			ID:           p.ID(),
			OwnerID:      p.OwnerID(),
			OwnerName:    p.OwnerName(),
			Title:        p.Title(),
			Description:  p.Description(),
			Category:     p.Category(),
			ThumbnailURL: p.ThumbnailURL(),
			ProjectURL:   p.ProjectURL(),
			// The batch increment above already counted this serving.
			ExposureCount: p.ExposureCount() + 1,
			ViewCount:     p.ViewCount(),
			LikeCount:     p.LikeCount(),
			Liked:         liked[p.ID()],
			CreatedAt:     p.CreatedAt(),
		}
	}
	return items, nil
}
