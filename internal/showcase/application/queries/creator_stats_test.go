package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ownedProject(ownerID uuid.UUID, exposures, views, likes int64) *domain.Project {
	now := time.Now()
	return domain.RehydrateProject(
		uuid.New(), ownerID, "Ada", "Loom", "A weaving pattern editor", domain.CategoryDesign,
		"", "", exposures, views, likes, now, now,
	)
}

func TestGetCreatorStatsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("aggregates across the creator's projects", func(t *testing.T) {
		repo := &stubEngagementRepo{
			findByOwner: func(ctx context.Context, id uuid.UUID) ([]*domain.Project, error) {
				assert.Equal(t, ownerID, id)
				return []*domain.Project{
					ownedProject(ownerID, 10, 4, 2),
					ownedProject(ownerID, 30, 11, 5),
				}, nil
			},
		}
		handler := NewGetCreatorStatsHandler(repo)

		stats, err := handler.Handle(ctx, GetCreatorStatsQuery{OwnerID: ownerID})

		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalProjects)
		assert.Equal(t, int64(40), stats.TotalExposures)
		assert.Equal(t, int64(15), stats.TotalViews)
		assert.Equal(t, int64(7), stats.TotalLikes)
	})

	t.Run("returns zeroes for a creator with no projects", func(t *testing.T) {
		repo := &stubEngagementRepo{
			findByOwner: func(ctx context.Context, id uuid.UUID) ([]*domain.Project, error) {
				return nil, nil
			},
		}
		handler := NewGetCreatorStatsHandler(repo)

		stats, err := handler.Handle(ctx, GetCreatorStatsQuery{OwnerID: ownerID})

		require.NoError(t, err)
		assert.Zero(t, stats.TotalProjects)
		assert.Zero(t, stats.TotalLikes)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		repo := &stubEngagementRepo{
			findByOwner: func(ctx context.Context, id uuid.UUID) ([]*domain.Project, error) {
				return nil, errors.New("connection refused")
			},
		}
		handler := NewGetCreatorStatsHandler(repo)

		stats, err := handler.Handle(ctx, GetCreatorStatsQuery{OwnerID: ownerID})

		assert.Nil(t, stats)
		assert.Error(t, err)
	})
}
