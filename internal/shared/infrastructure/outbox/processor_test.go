package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOutboxRepo struct {
	Repository
	unpublished []*Message
	published   []int64
	failed      []int64
	dead        []int64
	nextRetries []time.Time
}

func (s *stubOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	return s.unpublished, nil
}

func (s *stubOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	s.failed = append(s.failed, id)
	s.nextRetries = append(s.nextRetries, nextRetryAt)
	return nil
}

func (s *stubOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	s.dead = append(s.dead, id)
	return nil
}

type stubBusPublisher struct {
	err         error
	routingKeys []string
}

func (s *stubBusPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	if s.err != nil {
		return s.err
	}
	s.routingKeys = append(s.routingKeys, routingKey)
	return nil
}

func (s *stubBusPublisher) Close() error { return nil }

func outboxMessage(id int64, retryCount int) *Message {
	return &Message{
		ID:            id,
		EventID:       uuid.New(),
		AggregateType: "project",
		AggregateID:   uuid.New(),
		RoutingKey:    "showcase.project.liked",
		Payload:       []byte(`{"projectId":"x"}`),
		CreatedAt:     time.Now(),
		RetryCount:    retryCount,
	}
}

func TestProcessor_ProcessOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes pending messages and marks them", func(t *testing.T) {
		repo := &stubOutboxRepo{unpublished: []*Message{outboxMessage(1, 0), outboxMessage(2, 0)}}
		publisher := &stubBusPublisher{}
		p := NewProcessor(repo, publisher, DefaultProcessorConfig(), nil)

		require.NoError(t, p.ProcessOnce(ctx))

		assert.Equal(t, []string{"showcase.project.liked", "showcase.project.liked"}, publisher.routingKeys)
		assert.Equal(t, []int64{1, 2}, repo.published)
		assert.Empty(t, repo.failed)
	})

	t.Run("schedules a retry with backoff on publish failure", func(t *testing.T) {
		repo := &stubOutboxRepo{unpublished: []*Message{outboxMessage(1, 0)}}
		publisher := &stubBusPublisher{err: errors.New("broker down")}
		p := NewProcessor(repo, publisher, DefaultProcessorConfig(), nil)

		require.NoError(t, p.ProcessOnce(ctx))

		require.Equal(t, []int64{1}, repo.failed)
		assert.Empty(t, repo.published)
		assert.Empty(t, repo.dead)
		assert.True(t, repo.nextRetries[0].After(time.Now()), "retry must be in the future")
	})

	t.Run("dead-letters a message after max retries", func(t *testing.T) {
		cfg := DefaultProcessorConfig()
		cfg.MaxRetries = 3
		repo := &stubOutboxRepo{unpublished: []*Message{outboxMessage(1, 2)}}
		publisher := &stubBusPublisher{err: errors.New("broker down")}
		p := NewProcessor(repo, publisher, cfg, nil)

		require.NoError(t, p.ProcessOnce(ctx))

		assert.Equal(t, []int64{1}, repo.dead)
		assert.Empty(t, repo.failed)
	})

	t.Run("keeps going after a single bad message", func(t *testing.T) {
		repo := &stubOutboxRepo{unpublished: []*Message{outboxMessage(1, 0), outboxMessage(2, 0)}}
		publisher := &stubBusPublisher{}
		p := NewProcessor(repo, publisher, DefaultProcessorConfig(), nil)

		// First publish fails, second succeeds.
		calls := 0
		flaky := &flakyPublisher{fail: func() bool { calls++; return calls == 1 }}
		p.publisher = flaky

		require.NoError(t, p.ProcessOnce(ctx))

		assert.Equal(t, []int64{1}, repo.failed)
		assert.Equal(t, []int64{2}, repo.published)
	})
}

type flakyPublisher struct {
	fail func() bool
}

func (f *flakyPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	if f.fail() {
		return errors.New("transient failure")
	}
	return nil
}

func (f *flakyPublisher) Close() error { return nil }

func TestProcessor_RetryBackoff(t *testing.T) {
	p := NewProcessor(&stubOutboxRepo{}, &stubBusPublisher{}, DefaultProcessorConfig(), nil)

	assert.Equal(t, time.Second, p.retryBackoff(1))
	assert.Equal(t, 2*time.Second, p.retryBackoff(2))
	assert.Equal(t, 16*time.Second, p.retryBackoff(5))
	assert.Equal(t, time.Minute, p.retryBackoff(10), "backoff is capped")
}

func TestProcessor_StartStop(t *testing.T) {
	repo := &stubOutboxRepo{}
	p := NewProcessor(repo, &stubBusPublisher{}, DefaultProcessorConfig(), nil)

	require.NoError(t, p.Start(context.Background()))
	assert.True(t, p.IsRunning())

	// Idempotent start.
	require.NoError(t, p.Start(context.Background()))

	p.Stop()
	assert.False(t, p.IsRunning())
}
