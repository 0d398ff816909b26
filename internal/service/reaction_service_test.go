package service

import (
	"context"
	"errors"
	"testing"

	"pawhaven/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestToggle_RequiresViewer(t *testing.T) {
	svc := NewReactionService(noopPostRepo(), noopReactionRepo())

	_, err := svc.Toggle(context.Background(), testPostID, "", false)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}

func TestToggle_LikeAndUnlike(t *testing.T) {
	reactions := noopReactionRepo()
	var liked, unliked int
	reactions.likeFn = func(_ context.Context, postID, userID string) error {
		liked++
		assert.Equal(t, testPostID, postID)
		assert.Equal(t, testViewerID, userID)
		return nil
	}
	reactions.unlikeFn = func(_ context.Context, _, _ string) error {
		unliked++
		return nil
	}
	svc := NewReactionService(noopPostRepo(), reactions)

	state, err := svc.Toggle(context.Background(), testPostID, testViewerID, false)
	require.NoError(t, err)
	assert.True(t, state)
	assert.Equal(t, 1, liked)

	state, err = svc.Toggle(context.Background(), testPostID, testViewerID, true)
	require.NoError(t, err)
	assert.False(t, state)
	assert.Equal(t, 1, unliked)
}

func TestToggle_DuplicateInsertIsStillSuccess(t *testing.T) {
	reactions := noopReactionRepo()
	reactions.likeFn = func(_ context.Context, _, _ string) error {
		return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	}
	svc := NewReactionService(noopPostRepo(), reactions)

	state, err := svc.Toggle(context.Background(), testPostID, testViewerID, false)
	require.NoError(t, err)
	assert.True(t, state, "the row already matched the requested state")
}

func TestToggle_MissingReactionsTableIsFeatureUnavailable(t *testing.T) {
	reactions := noopReactionRepo()
	reactions.likeFn = func(_ context.Context, _, _ string) error {
		return &pgconn.PgError{Code: "42P01", Message: `relation "reactions" does not exist`}
	}
	svc := NewReactionService(noopPostRepo(), reactions)

	_, err := svc.Toggle(context.Background(), testPostID, testViewerID, false)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeFeatureUnavailable, appErr.Code)
}

func TestToggle_MissingPost(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, _ string) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewReactionService(posts, noopReactionRepo())

	_, err := svc.Toggle(context.Background(), testPostID, testViewerID, false)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestToggle_OtherWriteErrorsPropagate(t *testing.T) {
	boom := errors.New("connection refused")
	reactions := noopReactionRepo()
	reactions.unlikeFn = func(_ context.Context, _, _ string) error { return boom }
	svc := NewReactionService(noopPostRepo(), reactions)

	_, err := svc.Toggle(context.Background(), testPostID, testViewerID, true)
	assert.ErrorIs(t, err, boom)
}
