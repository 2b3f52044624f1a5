package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterViewHandler_Handle(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	viewerID := uuid.New()

	t.Run("counts a first view once", func(t *testing.T) {
		repo := new(mockEngagementRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := &stubUnitOfWork{}
		handler := NewRegisterViewHandler(repo, outboxRepo, uow)

		repo.On("InsertViewRecord", mock.Anything, viewerID, projectID).Return(nil).Once()
		repo.On("IncrementViewCount", mock.Anything, projectID).Return(nil).Once()
		outboxRepo.On("Save", mock.Anything, mock.AnythingOfType("*outbox.Message")).Return(nil).Once()

		err := handler.Handle(ctx, RegisterViewCommand{ProjectID: projectID, ViewerID: &viewerID})

		require.NoError(t, err)
		assert.Equal(t, 1, uow.commits)
		assert.Equal(t, 0, uow.rollbacks)

		repo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("ignores anonymous viewers", func(t *testing.T) {
		repo := new(mockEngagementRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := &stubUnitOfWork{}
		handler := NewRegisterViewHandler(repo, outboxRepo, uow)

		err := handler.Handle(ctx, RegisterViewCommand{ProjectID: projectID})

		require.NoError(t, err)
		assert.Equal(t, 0, uow.commits)
		repo.AssertNotCalled(t, "InsertViewRecord", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("absorbs a repeated view without incrementing", func(t *testing.T) {
		repo := new(mockEngagementRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := &stubUnitOfWork{}
		handler := NewRegisterViewHandler(repo, outboxRepo, uow)

		repo.On("InsertViewRecord", mock.Anything, viewerID, projectID).Return(domain.ErrDuplicateAction).Once()

		err := handler.Handle(ctx, RegisterViewCommand{ProjectID: projectID, ViewerID: &viewerID})

		require.NoError(t, err)
		assert.Equal(t, 0, uow.commits)
		assert.Equal(t, 1, uow.rollbacks)
		repo.AssertNotCalled(t, "IncrementViewCount", mock.Anything, mock.Anything)
	})

	t.Run("rolls back when the counter update fails", func(t *testing.T) {
		repo := new(mockEngagementRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := &stubUnitOfWork{}
		handler := NewRegisterViewHandler(repo, outboxRepo, uow)

		repo.On("InsertViewRecord", mock.Anything, viewerID, projectID).Return(nil).Once()
		repo.On("IncrementViewCount", mock.Anything, projectID).Return(errors.New("write failed")).Once()

		err := handler.Handle(ctx, RegisterViewCommand{ProjectID: projectID, ViewerID: &viewerID})

		require.Error(t, err)
		assert.Equal(t, 0, uow.commits)
		assert.Equal(t, 1, uow.rollbacks)
	})

	t.Run("propagates a missing project", func(t *testing.T) {
		repo := new(mockEngagementRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := &stubUnitOfWork{}
		handler := NewRegisterViewHandler(repo, outboxRepo, uow)

		repo.On("InsertViewRecord", mock.Anything, viewerID, projectID).Return(domain.ErrProjectNotFound).Once()

		err := handler.Handle(ctx, RegisterViewCommand{ProjectID: projectID, ViewerID: &viewerID})

		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}
