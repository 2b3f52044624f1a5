package domain

import (
	"context"

	"github.com/google/uuid"
)

// FeedFilter narrows the fairness pool.
// An empty Category matches all categories; Query is a case-insensitive
// substring match on title and description.
type FeedFilter struct {
	Category Category
	Query    string
}

// EngagementRepository is the transactional engagement store.
//
// Mutating operations join a transaction carried in the context (see the
// shared persistence package); the uniqueness constraints on the
// (identity, project) action records are the idempotency guard, surfaced as
// ErrDuplicateAction.
type EngagementRepository interface {
	// Save persists a new project.
	Save(ctx context.Context, project *Project) error

	// FindByID finds a project by ID. Returns ErrProjectNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindByOwner finds all projects submitted by an owner, newest first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Project, error)

	// FindLeastExposed returns up to limit projects matching the filter and
	// not in exclude, ordered by ascending exposure count with id as the
	// deterministic tie-break.
	FindLeastExposed(ctx context.Context, filter FeedFilter, exclude []uuid.UUID, limit int) ([]*Project, error)

	// IncrementExposure adds one exposure to every listed project in a single
	// atomic statement.
	IncrementExposure(ctx context.Context, ids []uuid.UUID) error

	// InsertViewRecord records that viewer has seen the project.
	// Returns ErrDuplicateAction if the view was already recorded and
	// ErrProjectNotFound if the project does not exist.
	InsertViewRecord(ctx context.Context, viewerID, projectID uuid.UUID) error

	// IncrementViewCount adds one view to the project.
	IncrementViewCount(ctx context.Context, projectID uuid.UUID) error

	// HasLikeRecord reports whether an active like exists.
	HasLikeRecord(ctx context.Context, userID, projectID uuid.UUID) (bool, error)

	// InsertLikeRecord records an active like. Returns ErrDuplicateAction if
	// one already exists and ErrProjectNotFound if the project does not exist.
	InsertLikeRecord(ctx context.Context, userID, projectID uuid.UUID) error

	// DeleteLikeRecord removes an active like. Returns ErrDuplicateAction if
	// no active like exists, which happens when a racing unlike already
	// removed it.
	DeleteLikeRecord(ctx context.Context, userID, projectID uuid.UUID) error

	// IncrementLikeCount adds one like to the project and returns the
	// resulting counter.
	IncrementLikeCount(ctx context.Context, projectID uuid.UUID) (int64, error)

	// DecrementLikeCount removes one like from the project, never below
	// zero, and returns the resulting counter.
	DecrementLikeCount(ctx context.Context, projectID uuid.UUID) (int64, error)

	// LikedSet returns, for the given identity, which of the listed projects
	// currently carry an active like. Read-only.
	LikedSet(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}
