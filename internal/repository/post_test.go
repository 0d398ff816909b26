package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"pawhaven/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestPostRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	postID := "7f8c8b2e-1d7b-4c1a-9f5e-0a1b2c3d4e5f"
	userID := "11111111-2222-3333-4444-555555555555"
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE id = $1`)).
		WithArgs(postID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "category", "views", "user_id", "created_at"}).
			AddRow(postID, "Found a stray tabby", "Near the park", models.CategoryLostFound, 4, userID, now))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(userID, "kat"))

	post, err := repo.GetByID(ctx, postID)
	assert.NoError(t, err)
	assert.Equal(t, "Found a stray tabby", post.Title)
	assert.Equal(t, int64(4), post.Views)
	assert.Equal(t, "kat", post.User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetBySlug(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	postID := "7f8c8b2e-1d7b-4c1a-9f5e-0a1b2c3d4e5f"
	userID := "11111111-2222-3333-4444-555555555555"

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE slug = $1`)).
		WithArgs("adoption-day-recap", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "user_id"}).
			AddRow(postID, "Adoption day recap", "adoption-day-recap", userID))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(userID, "kat"))

	post, err := repo.GetBySlug(ctx, "adoption-day-recap")
	assert.NoError(t, err)
	assert.Equal(t, postID, post.ID)
	assert.Equal(t, "adoption-day-recap", post.SlugValue())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetBySlug_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE slug = $1`)).
		WithArgs("nope", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	post, err := repo.GetBySlug(ctx, "nope")
	assert.Nil(t, post)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_BumpViews(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	postID := "7f8c8b2e-1d7b-4c1a-9f5e-0a1b2c3d4e5f"

	// read-then-write, not an atomic increment
	mock.ExpectQuery(`SELECT .+ FROM "posts" WHERE id = \$1`).
		WithArgs(postID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "views"}).AddRow(postID, 9))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.BumpViews(ctx, postID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_BumpViews_MissingPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .+ FROM "posts" WHERE id = \$1`).
		WithArgs("ghost", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "views"}))

	err := repo.BumpViews(ctx, "ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListByCategory(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	userID := "11111111-2222-3333-4444-555555555555"

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE category = $1`)).
		WithArgs(models.CategoryAdoption, rawScanCap).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "category", "user_id"}).
			AddRow("a1a1a1a1-0000-0000-0000-000000000001", "Bonded pair", models.CategoryAdoption, userID).
			AddRow("a1a1a1a1-0000-0000-0000-000000000002", "Senior beagle", models.CategoryAdoption, userID))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(userID, "kat"))

	posts, err := repo.ListByCategory(ctx, models.CategoryAdoption)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "Bonded pair", posts[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
