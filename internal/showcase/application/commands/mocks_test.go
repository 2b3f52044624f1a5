package commands

import (
	"context"
	"time"

	notifDomain "github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	"github.com/felixgeelhaar/fairshare/internal/notifications/infrastructure/realtime"
	"github.com/felixgeelhaar/fairshare/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockEngagementRepo is a mock implementation of domain.EngagementRepository.
type mockEngagementRepo struct {
	mock.Mock
}

func (m *mockEngagementRepo) Save(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *mockEngagementRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *mockEngagementRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *mockEngagementRepo) FindLeastExposed(ctx context.Context, filter domain.FeedFilter, exclude []uuid.UUID, limit int) ([]*domain.Project, error) {
	args := m.Called(ctx, filter, exclude, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *mockEngagementRepo) IncrementExposure(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *mockEngagementRepo) InsertViewRecord(ctx context.Context, viewerID, projectID uuid.UUID) error {
	args := m.Called(ctx, viewerID, projectID)
	return args.Error(0)
}

func (m *mockEngagementRepo) IncrementViewCount(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *mockEngagementRepo) HasLikeRecord(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *mockEngagementRepo) InsertLikeRecord(ctx context.Context, userID, projectID uuid.UUID) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *mockEngagementRepo) DeleteLikeRecord(ctx context.Context, userID, projectID uuid.UUID) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *mockEngagementRepo) IncrementLikeCount(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEngagementRepo) DecrementLikeCount(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEngagementRepo) LikedSet(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, userID, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

// mockOutboxRepo is a mock implementation of outbox.Repository.
type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, errMsg, nextRetryAt)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// stubUnitOfWork passes the context through without a real transaction.
type stubUnitOfWork struct {
	beginErr  error
	commitErr error
	commits   int
	rollbacks int
}

func (s *stubUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if s.beginErr != nil {
		return ctx, s.beginErr
	}
	return ctx, nil
}

func (s *stubUnitOfWork) Commit(ctx context.Context) error {
	s.commits++
	return s.commitErr
}

func (s *stubUnitOfWork) Rollback(ctx context.Context) error {
	s.rollbacks++
	return nil
}

// mockNotificationRepo is a mock implementation of the notifications
// domain repository.
type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Save(ctx context.Context, n *notifDomain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockNotificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*notifDomain.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notifDomain.Notification), args.Error(1)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	args := m.Called(ctx, recipientID, id)
	return args.Error(0)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

// recordingRealtime captures pushed payloads.
type recordingRealtime struct {
	pushed  []realtime.Payload
	pushErr error
}

func (r *recordingRealtime) Publish(ctx context.Context, recipientID uuid.UUID, event string, payload realtime.Payload) error {
	if r.pushErr != nil {
		return r.pushErr
	}
	r.pushed = append(r.pushed, payload)
	return nil
}

func (r *recordingRealtime) Close() error { return nil }
