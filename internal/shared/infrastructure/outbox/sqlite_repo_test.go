package outbox

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/migrations"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func saveMessage(t *testing.T, repo *SQLiteRepository, createdAt time.Time) *Message {
	t.Helper()

	msg := &Message{
		EventID:       uuid.New(),
		AggregateType: "project",
		AggregateID:   uuid.New(),
		RoutingKey:    "showcase.project.liked",
		Payload:       []byte(`{"event":"liked"}`),
		CreatedAt:     createdAt,
	}
	require.NoError(t, repo.Save(context.Background(), msg))
	return msg
}

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("saved messages come back unpublished in creation order", func(t *testing.T) {
		repo := NewSQLiteRepository(openTestDB(t))
		now := time.Now().UTC()
		second := saveMessage(t, repo, now)
		first := saveMessage(t, repo, now.Add(-time.Minute))

		assert.NotZero(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)

		pending, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, first.EventID, pending[0].EventID)
		assert.Equal(t, second.EventID, pending[1].EventID)
		assert.Equal(t, "showcase.project.liked", pending[0].RoutingKey)
		assert.JSONEq(t, `{"event":"liked"}`, string(pending[0].Payload))
	})

	t.Run("published messages leave the pending set", func(t *testing.T) {
		repo := NewSQLiteRepository(openTestDB(t))
		msg := saveMessage(t, repo, time.Now().UTC())

		require.NoError(t, repo.MarkPublished(ctx, msg.ID))

		pending, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("failed messages wait for their retry time", func(t *testing.T) {
		repo := NewSQLiteRepository(openTestDB(t))
		msg := saveMessage(t, repo, time.Now().UTC())

		require.NoError(t, repo.MarkFailed(ctx, msg.ID, "broker down", time.Now().Add(time.Hour)))

		pending, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)

		require.NoError(t, repo.MarkFailed(ctx, msg.ID, "still down", time.Now().Add(-time.Second)))

		pending, err = repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, 2, pending[0].RetryCount)
		require.NotNil(t, pending[0].LastError)
		assert.Equal(t, "still down", *pending[0].LastError)
	})

	t.Run("dead-lettered messages are never retried", func(t *testing.T) {
		repo := NewSQLiteRepository(openTestDB(t))
		msg := saveMessage(t, repo, time.Now().UTC())

		require.NoError(t, repo.MarkDead(ctx, msg.ID, "exhausted retries"))

		pending, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("cleanup removes old published messages only", func(t *testing.T) {
		repo := NewSQLiteRepository(openTestDB(t))
		db := repo.db

		old := saveMessage(t, repo, time.Now().UTC().AddDate(0, 0, -30))
		recent := saveMessage(t, repo, time.Now().UTC())
		pendingMsg := saveMessage(t, repo, time.Now().UTC().AddDate(0, 0, -30))

		// Backdate the published timestamp past the retention window.
		longAgo := time.Now().UTC().AddDate(0, 0, -30).Format(time.RFC3339Nano)
		_, err := db.ExecContext(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`, longAgo, old.ID)
		require.NoError(t, err)
		require.NoError(t, repo.MarkPublished(ctx, recent.ID))

		deleted, err := repo.DeleteOld(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		pending, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, pendingMsg.EventID, pending[0].EventID)
	})

	t.Run("batch save assigns ids to every message", func(t *testing.T) {
		repo := NewSQLiteRepository(openTestDB(t))
		msgs := []*Message{
			{EventID: uuid.New(), AggregateType: "project", AggregateID: uuid.New(), RoutingKey: "showcase.project.created", Payload: []byte(`{}`), CreatedAt: time.Now().UTC()},
			{EventID: uuid.New(), AggregateType: "project", AggregateID: uuid.New(), RoutingKey: "showcase.project.viewed", Payload: []byte(`{}`), CreatedAt: time.Now().UTC()},
		}

		require.NoError(t, repo.SaveBatch(ctx, msgs))
		assert.NotZero(t, msgs[0].ID)
		assert.NotZero(t, msgs[1].ID)
	})
}
