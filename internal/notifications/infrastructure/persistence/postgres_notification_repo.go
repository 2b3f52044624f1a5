package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	sharedPersistence "github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/persistence"
)

// PostgresNotificationRepository implements domain.Repository on pgx.
// Save joins the transaction carried in the context, which is how a
// notification commits atomically with the like that caused it.
type PostgresNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNotificationRepository(pool *pgxpool.Pool) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{pool: pool}
}

func (r *PostgresNotificationRepository) executor(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

func (r *PostgresNotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, message, link, read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.executor(ctx).Exec(ctx, query,
		n.ID(), n.RecipientID(), n.Message(), n.Link(), n.IsRead(), n.CreatedAt(), n.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, message, link, read, created_at, updated_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.executor(ctx).Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var (
			id, recipient        uuid.UUID
			message, link        string
			read                 bool
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&id, &recipient, &message, &link, &read, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, domain.RehydrateNotification(id, recipient, message, link, read, createdAt, updatedAt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	query := `
		UPDATE notifications SET read = TRUE, updated_at = NOW()
		WHERE id = $1 AND recipient_id = $2 AND read = FALSE`

	tag, err := r.executor(ctx).Exec(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.checkExists(ctx, recipientID, id)
	}
	return nil
}

// checkExists distinguishes a missing notification from one that is
// already read, which is not an error.
func (r *PostgresNotificationRepository) checkExists(ctx context.Context, recipientID, id uuid.UUID) error {
	query := `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1 AND recipient_id = $2)`

	var exists bool
	if err := r.executor(ctx).QueryRow(ctx, query, id, recipientID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check notification: %w", err)
	}
	if !exists {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	query := `
		UPDATE notifications SET read = TRUE, updated_at = NOW()
		WHERE recipient_id = $1 AND read = FALSE`

	tag, err := r.executor(ctx).Exec(ctx, query, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
