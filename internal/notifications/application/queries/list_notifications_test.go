package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	domain.Repository
	listFn func(ctx context.Context, recipientID uuid.UUID, limit int) ([]*domain.Notification, error)
}

func (s *stubRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*domain.Notification, error) {
	return s.listFn(ctx, recipientID, limit)
}

func TestListNotificationsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()

	t.Run("returns the recipient's notifications", func(t *testing.T) {
		now := time.Now()
		stored := []*domain.Notification{
			domain.RehydrateNotification(uuid.New(), recipientID, "second", "", false, now, now),
			domain.RehydrateNotification(uuid.New(), recipientID, "first", "/projects/abc", true, now.Add(-time.Hour), now),
		}
		repo := &stubRepo{listFn: func(ctx context.Context, id uuid.UUID, limit int) ([]*domain.Notification, error) {
			assert.Equal(t, recipientID, id)
			assert.Equal(t, DefaultListLimit, limit)
			return stored, nil
		}}
		handler := NewListNotificationsHandler(repo)

		dtos, err := handler.Handle(ctx, ListNotificationsQuery{RecipientID: recipientID})

		require.NoError(t, err)
		require.Len(t, dtos, 2)
		assert.Equal(t, "second", dtos[0].Message)
		assert.False(t, dtos[0].Read)
		assert.True(t, dtos[1].Read)
	})

	t.Run("clamps the limit to the default page", func(t *testing.T) {
		repo := &stubRepo{listFn: func(ctx context.Context, id uuid.UUID, limit int) ([]*domain.Notification, error) {
			assert.Equal(t, DefaultListLimit, limit)
			return nil, nil
		}}
		handler := NewListNotificationsHandler(repo)

		_, err := handler.Handle(ctx, ListNotificationsQuery{RecipientID: recipientID, Limit: 500})
		require.NoError(t, err)
	})

	t.Run("accepts a smaller limit", func(t *testing.T) {
		repo := &stubRepo{listFn: func(ctx context.Context, id uuid.UUID, limit int) ([]*domain.Notification, error) {
			assert.Equal(t, 5, limit)
			return nil, nil
		}}
		handler := NewListNotificationsHandler(repo)

		_, err := handler.Handle(ctx, ListNotificationsQuery{RecipientID: recipientID, Limit: 5})
		require.NoError(t, err)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		repo := &stubRepo{listFn: func(ctx context.Context, id uuid.UUID, limit int) ([]*domain.Notification, error) {
			return nil, errors.New("connection refused")
		}}
		handler := NewListNotificationsHandler(repo)

		dtos, err := handler.Handle(ctx, ListNotificationsQuery{RecipientID: recipientID})

		assert.Nil(t, dtos)
		assert.Error(t, err)
	})
}
