package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	"github.com/google/uuid"

	sharedPersistence "github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/persistence"
)

// SQLiteNotificationRepository implements domain.Repository on
// database/sql for the embedded driver.
type SQLiteNotificationRepository struct {
	db *sql.DB
}

func NewSQLiteNotificationRepository(db *sql.DB) *SQLiteNotificationRepository {
	return &SQLiteNotificationRepository{db: db}
}

func (r *SQLiteNotificationRepository) executor(ctx context.Context) sharedPersistence.SQLExecutor {
	return sharedPersistence.SQLiteExecutor(ctx, r.db)
}

func (r *SQLiteNotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, message, link, read, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executor(ctx).ExecContext(ctx, query,
		n.ID().String(), n.RecipientID().String(), n.Message(), n.Link(), n.IsRead(),
		formatTime(n.CreatedAt()), formatTime(n.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *SQLiteNotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, message, link, read, created_at, updated_at
		FROM notifications
		WHERE recipient_id = ?
		ORDER BY created_at DESC
		LIMIT ?`

	rows, err := r.executor(ctx).QueryContext(ctx, query, recipientID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var (
			rawID, rawRecipient        string
			message, link              string
			read                       bool
			rawCreatedAt, rawUpdatedAt string
		)
		if err := rows.Scan(&rawID, &rawRecipient, &message, &link, &read, &rawCreatedAt, &rawUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse notification id: %w", err)
		}
		recipient, err := uuid.Parse(rawRecipient)
		if err != nil {
			return nil, fmt.Errorf("failed to parse recipient id: %w", err)
		}
		createdAt, err := parseTime(rawCreatedAt)
		if err != nil {
			return nil, err
		}
		updatedAt, err := parseTime(rawUpdatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, domain.RehydrateNotification(id, recipient, message, link, read, createdAt, updatedAt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}

func (r *SQLiteNotificationRepository) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	query := `
		UPDATE notifications SET read = 1, updated_at = ?
		WHERE id = ? AND recipient_id = ? AND read = 0`

	result, err := r.executor(ctx).ExecContext(ctx, query, formatTime(time.Now()), id.String(), recipientID.String())
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return r.checkExists(ctx, recipientID, id)
	}
	return nil
}

// checkExists distinguishes a missing notification from one that is
// already read, which is not an error.
func (r *SQLiteNotificationRepository) checkExists(ctx context.Context, recipientID, id uuid.UUID) error {
	query := `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = ? AND recipient_id = ?)`

	var exists bool
	if err := r.executor(ctx).QueryRowContext(ctx, query, id.String(), recipientID.String()).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check notification: %w", err)
	}
	if !exists {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *SQLiteNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	query := `
		UPDATE notifications SET read = 1, updated_at = ?
		WHERE recipient_id = ? AND read = 0`

	result, err := r.executor(ctx).ExecContext(ctx, query, formatTime(time.Now()), recipientID.String())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
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
