package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"

	sharedPersistence "github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/persistence"
)

// SQLiteEngagementRepository implements domain.EngagementRepository on
// database/sql for the embedded driver. UUIDs and timestamps are stored
// as TEXT.
type SQLiteEngagementRepository struct {
	db *sql.DB
}

func NewSQLiteEngagementRepository(db *sql.DB) *SQLiteEngagementRepository {
	return &SQLiteEngagementRepository{db: db}
}

func (r *SQLiteEngagementRepository) executor(ctx context.Context) sharedPersistence.SQLExecutor {
	return sharedPersistence.SQLiteExecutor(ctx, r.db)
}

func (r *SQLiteEngagementRepository) Save(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (
			id, owner_id, owner_name, title, description, category,
			thumbnail_url, project_url, exposure_count, view_count, like_count,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			thumbnail_url = excluded.thumbnail_url,
			project_url = excluded.project_url,
			updated_at = excluded.updated_at`

	_, err := r.executor(ctx).ExecContext(ctx, query,
		project.ID().String(),
		project.OwnerID().String(),
		project.OwnerName(),
		project.Title(),
		project.Description(),
		string(project.Category()),
		project.ThumbnailURL(),
		project.ProjectURL(),
		project.ExposureCount(),
		project.ViewCount(),
		project.LikeCount(),
		formatTime(project.CreatedAt()),
		formatTime(project.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", mapSQLiteError(err))
	}
	return nil
}

func (r *SQLiteEngagementRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	row := r.executor(ctx).QueryRowContext(ctx, query, id.String())
	project, err := scanSQLiteProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (r *SQLiteEngagementRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = ? ORDER BY created_at DESC`

	rows, err := r.executor(ctx).QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query projects by owner: %w", err)
	}
	defer rows.Close()

	return collectSQLiteProjects(rows)
}

func (r *SQLiteEngagementRepository) FindLeastExposed(ctx context.Context, filter domain.FeedFilter, exclude []uuid.UUID, limit int) ([]*domain.Project, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if len(exclude) > 0 {
		conditions = append(conditions, "id NOT IN ("+placeholders(len(exclude))+")")
		for _, id := range exclude {
			args = append(args, id.String())
		}
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY exposure_count ASC, id ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query least exposed projects: %w", err)
	}
	defer rows.Close()

	return collectSQLiteProjects(rows)
}

func (r *SQLiteEngagementRepository) IncrementExposure(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE projects SET exposure_count = exposure_count + 1, updated_at = ? WHERE id IN (` + placeholders(len(ids)) + `)`

	args := make([]any, 0, len(ids)+1)
	args = append(args, formatTime(time.Now()))
	for _, id := range ids {
		args = append(args, id.String())
	}
	if _, err := r.executor(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to increment exposure: %w", err)
	}
	return nil
}

func (r *SQLiteEngagementRepository) InsertViewRecord(ctx context.Context, viewerID, projectID uuid.UUID) error {
	query := `INSERT INTO view_records (viewer_id, project_id, created_at) VALUES (?, ?, ?)`

	_, err := r.executor(ctx).ExecContext(ctx, query, viewerID.String(), projectID.String(), formatTime(time.Now()))
	if err != nil {
		return mapSQLiteError(err)
	}
	return nil
}

func (r *SQLiteEngagementRepository) IncrementViewCount(ctx context.Context, projectID uuid.UUID) error {
	return r.adjustCounter(ctx, projectID, "view_count = view_count + 1")
}

func (r *SQLiteEngagementRepository) HasLikeRecord(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM like_records WHERE user_id = ? AND project_id = ?)`

	var exists bool
	if err := r.executor(ctx).QueryRowContext(ctx, query, userID.String(), projectID.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check like record: %w", err)
	}
	return exists, nil
}

func (r *SQLiteEngagementRepository) InsertLikeRecord(ctx context.Context, userID, projectID uuid.UUID) error {
	query := `INSERT INTO like_records (user_id, project_id, created_at) VALUES (?, ?, ?)`

	_, err := r.executor(ctx).ExecContext(ctx, query, userID.String(), projectID.String(), formatTime(time.Now()))
	if err != nil {
		return mapSQLiteError(err)
	}
	return nil
}

func (r *SQLiteEngagementRepository) DeleteLikeRecord(ctx context.Context, userID, projectID uuid.UUID) error {
	query := `DELETE FROM like_records WHERE user_id = ? AND project_id = ?`

	result, err := r.executor(ctx).ExecContext(ctx, query, userID.String(), projectID.String())
	if err != nil {
		return fmt.Errorf("failed to delete like record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		// A racing unlike already removed the record; deleting again must
		// not charge a second decrement against the counter.
		return domain.ErrDuplicateAction
	}
	return nil
}

func (r *SQLiteEngagementRepository) IncrementLikeCount(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return r.adjustLikeCount(ctx, projectID, "like_count + 1")
}

func (r *SQLiteEngagementRepository) DecrementLikeCount(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return r.adjustLikeCount(ctx, projectID, "MAX(like_count - 1, 0)")
}

func (r *SQLiteEngagementRepository) adjustLikeCount(ctx context.Context, projectID uuid.UUID, expr string) (int64, error) {
	query := `UPDATE projects SET like_count = ` + expr + `, updated_at = ? WHERE id = ? RETURNING like_count`

	var count int64
	err := r.executor(ctx).QueryRowContext(ctx, query, formatTime(time.Now()), projectID.String()).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrProjectNotFound
		}
		return 0, fmt.Errorf("failed to update like count: %w", err)
	}
	return count, nil
}

func (r *SQLiteEngagementRepository) adjustCounter(ctx context.Context, projectID uuid.UUID, assignment string) error {
	query := `UPDATE projects SET ` + assignment + `, updated_at = ? WHERE id = ?`

	result, err := r.executor(ctx).ExecContext(ctx, query, formatTime(time.Now()), projectID.String())
	if err != nil {
		return fmt.Errorf("failed to update counter: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *SQLiteEngagementRepository) LikedSet(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(projectIDs))
	if len(projectIDs) == 0 {
		return liked, nil
	}
	query := `SELECT project_id FROM like_records WHERE user_id = ? AND project_id IN (` + placeholders(len(projectIDs)) + `)`

	args := make([]any, 0, len(projectIDs)+1)
	args = append(args, userID.String())
	for _, id := range projectIDs {
		args = append(args, id.String())
	}
	rows, err := r.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan liked project id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse liked project id: %w", err)
		}
		liked[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate liked set: %w", err)
	}
	return liked, nil
}

type sqlRow interface {
	Scan(dest ...any) error
}

func scanSQLiteProject(row sqlRow) (*domain.Project, error) {
	var (
		rawID, rawOwnerID                       string
		ownerName, title, description, category string
		thumbnailURL, projectURL                string
		exposureCount, viewCount, likeCount     int64
		rawCreatedAt, rawUpdatedAt              string
	)
	err := row.Scan(
		&rawID, &rawOwnerID, &ownerName, &title, &description, &category,
		&thumbnailURL, &projectURL, &exposureCount, &viewCount, &likeCount,
		&rawCreatedAt, &rawUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse project id: %w", err)
	}
	ownerID, err := uuid.Parse(rawOwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse owner id: %w", err)
	}
	createdAt, err := parseTime(rawCreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(rawUpdatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateProject(
		id, ownerID, ownerName, title, description, domain.Category(category),
		thumbnailURL, projectURL, exposureCount, viewCount, likeCount,
		createdAt, updatedAt,
	), nil
}

func collectSQLiteProjects(rows *sql.Rows) ([]*domain.Project, error) {
	var projects []*domain.Project
	for rows.Next() {
		project, err := scanSQLiteProject(rows)
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

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return t, nil
}
