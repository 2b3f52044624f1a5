package commands

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/fairshare/internal/identity"
	notifApplication "github.com/felixgeelhaar/fairshare/internal/notifications/application"
	notifDomain "github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// likeKey identifies one identity's action on one project.
type likeKey struct {
	userID    uuid.UUID
	projectID uuid.UUID
}

// fakeEngagementStore is an in-memory store with real uniqueness semantics,
// used to exercise the toggle invariants over many random actions.
type fakeEngagementStore struct {
	mu        sync.Mutex
	projects  map[uuid.UUID]*domain.Project
	likes     map[likeKey]bool
	views     map[likeKey]bool
	likeCount map[uuid.UUID]int64
}

func newFakeEngagementStore() *fakeEngagementStore {
	return &fakeEngagementStore{
		projects:  make(map[uuid.UUID]*domain.Project),
		likes:     make(map[likeKey]bool),
		views:     make(map[likeKey]bool),
		likeCount: make(map[uuid.UUID]int64),
	}
}

func (s *fakeEngagementStore) add(p *domain.Project) {
	s.projects[p.ID()] = p
}

func (s *fakeEngagementStore) Save(ctx context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID()] = project
	return nil
}

func (s *fakeEngagementStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	now := time.Now()
	return domain.RehydrateProject(
		p.ID(), p.OwnerID(), p.OwnerName(), p.Title(), p.Description(), p.Category(),
		p.ThumbnailURL(), p.ProjectURL(), p.ExposureCount(), p.ViewCount(), s.likeCount[id],
		now, now,
	), nil
}

func (s *fakeEngagementStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	return nil, nil
}

func (s *fakeEngagementStore) FindLeastExposed(ctx context.Context, filter domain.FeedFilter, exclude []uuid.UUID, limit int) ([]*domain.Project, error) {
	return nil, nil
}

func (s *fakeEngagementStore) IncrementExposure(ctx context.Context, ids []uuid.UUID) error {
	return nil
}

func (s *fakeEngagementStore) InsertViewRecord(ctx context.Context, viewerID, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := likeKey{viewerID, projectID}
	if s.views[key] {
		return domain.ErrDuplicateAction
	}
	s.views[key] = true
	return nil
}

func (s *fakeEngagementStore) IncrementViewCount(ctx context.Context, projectID uuid.UUID) error {
	return nil
}

func (s *fakeEngagementStore) HasLikeRecord(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes[likeKey{userID, projectID}], nil
}

func (s *fakeEngagementStore) InsertLikeRecord(ctx context.Context, userID, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := likeKey{userID, projectID}
	if s.likes[key] {
		return domain.ErrDuplicateAction
	}
	s.likes[key] = true
	return nil
}

func (s *fakeEngagementStore) DeleteLikeRecord(ctx context.Context, userID, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := likeKey{userID, projectID}
	if !s.likes[key] {
		return domain.ErrDuplicateAction
	}
	delete(s.likes, key)
	return nil
}

func (s *fakeEngagementStore) IncrementLikeCount(ctx context.Context, projectID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likeCount[projectID]++
	return s.likeCount[projectID], nil
}

func (s *fakeEngagementStore) DecrementLikeCount(ctx context.Context, projectID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.likeCount[projectID] > 0 {
		s.likeCount[projectID]--
	}
	return s.likeCount[projectID], nil
}

func (s *fakeEngagementStore) LikedSet(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	liked := make(map[uuid.UUID]bool)
	for _, id := range projectIDs {
		if s.likes[likeKey{userID, id}] {
			liked[id] = true
		}
	}
	return liked, nil
}

func (s *fakeEngagementStore) recordCount(projectID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for key, ok := range s.likes {
		if ok && key.projectID == projectID {
			n++
		}
	}
	return n
}

// nullNotificationRepo accepts every notification.
type nullNotificationRepo struct{}

func (nullNotificationRepo) Save(ctx context.Context, n *notifDomain.Notification) error { return nil }
func (nullNotificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*notifDomain.Notification, error) {
	return nil, nil
}
func (nullNotificationRepo) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	return nil
}
func (nullNotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return 0, nil
}

// TestToggleLike_CountMatchesRecords toggles likes at random from several
// identities and checks that every project's counter always equals its
// number of like records.
func TestToggleLike_CountMatchesRecords(t *testing.T) {
	ctx := context.Background()
	store := newFakeEngagementStore()
	dispatcher := notifApplication.NewDispatcher(nullNotificationRepo{}, &recordingRealtime{}, slog.Default())
	outboxRepo := new(mockOutboxRepo)
	outboxRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	handler := NewToggleLikeHandler(store, dispatcher, outboxRepo, &stubUnitOfWork{})

	var projects []*domain.Project
	for i := 0; i < 5; i++ {
		p := newOwnedProject(t, uuid.New(), 0)
		store.add(p)
		projects = append(projects, p)
	}

	likers := make([]*identity.Identity, 8)
	for i := range likers {
		likers[i] = &identity.Identity{ID: uuid.New(), Name: "user"}
	}

	for i := 0; i < 400; i++ {
		liker := likers[rand.IntN(len(likers))]
		project := projects[rand.IntN(len(projects))]

		result, err := handler.Handle(ctx, ToggleLikeCommand{ProjectID: project.ID(), Liker: liker})
		require.NoError(t, err)

		liked, err := store.HasLikeRecord(ctx, liker.ID, project.ID())
		require.NoError(t, err)
		assert.Equal(t, liked, result.Liked)
	}

	for _, p := range projects {
		current, err := store.FindByID(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, store.recordCount(p.ID()), current.LikeCount(),
			"like counter must equal the number of like records")
		assert.GreaterOrEqual(t, current.LikeCount(), int64(0))
	}
}
