package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestReactionRepository_Like(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	postID := "a1a1a1a1-0000-0000-0000-000000000001"
	userID := "11111111-2222-3333-4444-555555555555"

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reactions (post_id, user_id, created_at) VALUES ($1, $2, CURRENT_TIMESTAMP) ON CONFLICT (post_id, user_id) DO NOTHING`)).
		WithArgs(postID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Like(ctx, postID, userID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_Like_RepeatInsertIsNoop(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	postID := "a1a1a1a1-0000-0000-0000-000000000001"
	userID := "11111111-2222-3333-4444-555555555555"

	// conflict path affects zero rows, still no error
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (post_id, user_id) DO NOTHING`)).
		WithArgs(postID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Like(ctx, postID, userID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_Unlike(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	postID := "a1a1a1a1-0000-0000-0000-000000000001"
	userID := "11111111-2222-3333-4444-555555555555"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "reactions" WHERE post_id = $1 AND user_id = $2`)).
		WithArgs(postID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Unlike(ctx, postID, userID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_LikedPostIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	userID := "11111111-2222-3333-4444-555555555555"

	mock.ExpectQuery(`SELECT .+ FROM "reactions" WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).
			AddRow("a1a1a1a1-0000-0000-0000-000000000001").
			AddRow("a1a1a1a1-0000-0000-0000-000000000002"))

	liked, err := repo.LikedPostIDs(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, liked, 2)
	assert.True(t, liked["a1a1a1a1-0000-0000-0000-000000000001"])
	assert.False(t, liked["a1a1a1a1-0000-0000-0000-000000000099"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_CountByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	ids := []string{"a1a1a1a1-0000-0000-0000-000000000001", "a1a1a1a1-0000-0000-0000-000000000002"}

	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) as cnt FROM "reactions"`).
		WithArgs(ids[0], ids[1]).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "cnt"}).
			AddRow(ids[0], 3))

	counts, err := repo.CountByPost(ctx, ids)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), counts[ids[0]])
	assert.Equal(t, int64(0), counts[ids[1]])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_CountByPost_EmptyInput(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewReactionRepository(db)

	counts, err := repo.CountByPost(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, counts)
}
