package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sharedPersistence "github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/persistence"
)

// PostgresEngagementRepository implements domain.EngagementRepository on
// top of pgx. Every operation resolves its executor from the context so
// that calls issued inside a unit of work join the surrounding
// transaction.
type PostgresEngagementRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresEngagementRepository(pool *pgxpool.Pool) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{pool: pool}
}

func (r *PostgresEngagementRepository) executor(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

func (r *PostgresEngagementRepository) Save(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (
			id, owner_id, owner_name, title, description, category,
			thumbnail_url, project_url, exposure_count, view_count, like_count,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			thumbnail_url = EXCLUDED.thumbnail_url,
			project_url = EXCLUDED.project_url,
			updated_at = EXCLUDED.updated_at`

	_, err := r.executor(ctx).Exec(ctx, query,
		project.ID(),
		project.OwnerID(),
		project.OwnerName(),
		project.Title(),
		project.Description(),
		string(project.Category()),
		project.ThumbnailURL(),
		project.ProjectURL(),
		project.ExposureCount(),
		project.ViewCount(),
		project.LikeCount(),
		project.CreatedAt(),
		project.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", mapPgError(err))
	}
	return nil
}

const projectColumns = `id, owner_id, owner_name, title, description, category,
	thumbnail_url, project_url, exposure_count, view_count, like_count,
	created_at, updated_at`

func (r *PostgresEngagementRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	row := r.executor(ctx).QueryRow(ctx, query, id)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (r *PostgresEngagementRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.executor(ctx).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects by owner: %w", err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

// FindLeastExposed returns up to limit projects ordered by ascending
// exposure count, with ascending id as the deterministic tie-break.
func (r *PostgresEngagementRepository) FindLeastExposed(ctx context.Context, filter domain.FeedFilter, exclude []uuid.UUID, limit int) ([]*domain.Project, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		conditions = append(conditions, "category = "+arg(string(filter.Category)))
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		p := arg(pattern)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}
	if len(exclude) > 0 {
		conditions = append(conditions, "NOT (id = ANY("+arg(exclude)+"))")
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY exposure_count ASC, id ASC LIMIT " + arg(limit)

	rows, err := r.executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query least exposed projects: %w", err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

func (r *PostgresEngagementRepository) IncrementExposure(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE projects SET exposure_count = exposure_count + 1, updated_at = NOW() WHERE id = ANY($1)`

	if _, err := r.executor(ctx).Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to increment exposure: %w", err)
	}
	return nil
}

func (r *PostgresEngagementRepository) InsertViewRecord(ctx context.Context, viewerID, projectID uuid.UUID) error {
	query := `INSERT INTO view_records (viewer_id, project_id, created_at) VALUES ($1, $2, NOW())`

	if _, err := r.executor(ctx).Exec(ctx, query, viewerID, projectID); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *PostgresEngagementRepository) IncrementViewCount(ctx context.Context, projectID uuid.UUID) error {
	return r.adjustCounter(ctx, projectID, "view_count = view_count + 1")
}

func (r *PostgresEngagementRepository) HasLikeRecord(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM like_records WHERE user_id = $1 AND project_id = $2)`

	var exists bool
	if err := r.executor(ctx).QueryRow(ctx, query, userID, projectID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check like record: %w", err)
	}
	return exists, nil
}

func (r *PostgresEngagementRepository) InsertLikeRecord(ctx context.Context, userID, projectID uuid.UUID) error {
	query := `INSERT INTO like_records (user_id, project_id, created_at) VALUES ($1, $2, NOW())`

	if _, err := r.executor(ctx).Exec(ctx, query, userID, projectID); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *PostgresEngagementRepository) DeleteLikeRecord(ctx context.Context, userID, projectID uuid.UUID) error {
	query := `DELETE FROM like_records WHERE user_id = $1 AND project_id = $2`

	tag, err := r.executor(ctx).Exec(ctx, query, userID, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete like record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// A racing unlike already removed the record; deleting again must
		// not charge a second decrement against the counter.
		return domain.ErrDuplicateAction
	}
	return nil
}

func (r *PostgresEngagementRepository) IncrementLikeCount(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return r.adjustLikeCount(ctx, projectID, "like_count + 1")
}

func (r *PostgresEngagementRepository) DecrementLikeCount(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return r.adjustLikeCount(ctx, projectID, "GREATEST(like_count - 1, 0)")
}

func (r *PostgresEngagementRepository) adjustLikeCount(ctx context.Context, projectID uuid.UUID, expr string) (int64, error) {
	query := `UPDATE projects SET like_count = ` + expr + `, updated_at = NOW() WHERE id = $1 RETURNING like_count`

	var count int64
	if err := r.executor(ctx).QueryRow(ctx, query, projectID).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrProjectNotFound
		}
		return 0, fmt.Errorf("failed to update like count: %w", err)
	}
	return count, nil
}

func (r *PostgresEngagementRepository) adjustCounter(ctx context.Context, projectID uuid.UUID, assignment string) error {
	query := `UPDATE projects SET ` + assignment + `, updated_at = NOW() WHERE id = $1`

	tag, err := r.executor(ctx).Exec(ctx, query, projectID)
	if err != nil {
		return fmt.Errorf("failed to update counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *PostgresEngagementRepository) LikedSet(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(projectIDs))
	if len(projectIDs) == 0 {
		return liked, nil
	}
	query := `SELECT project_id FROM like_records WHERE user_id = $1 AND project_id = ANY($2)`

	rows, err := r.executor(ctx).Query(ctx, query, userID, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan liked project id: %w", err)
		}
		liked[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate liked set: %w", err)
	}
	return liked, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		id, ownerID                             uuid.UUID
		ownerName, title, description, category string
		thumbnailURL, projectURL                string
		exposureCount, viewCount, likeCount     int64
		createdAt, updatedAt                    time.Time
	)
	err := row.Scan(
		&id, &ownerID, &ownerName, &title, &description, &category,
		&thumbnailURL, &projectURL, &exposureCount, &viewCount, &likeCount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateProject(
		id, ownerID, ownerName, title, description, domain.Category(category),
		thumbnailURL, projectURL, exposureCount, viewCount, likeCount,
		createdAt, updatedAt,
	), nil
}

func collectProjects(rows pgx.Rows) ([]*domain.Project, error) {
	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}
