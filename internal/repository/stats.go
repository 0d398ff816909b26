package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"pawhaven/internal/models"

	"gorm.io/gorm"
)

// StatsRepository reads the precomputed post_stats view. Callers must treat a
// schema-missing error from any method as "the view is absent" and fall back
// to the raw tables.
type StatsRepository interface {
	ListByCategory(ctx context.Context, category string, limit, offset int) ([]*models.Post, error)
	Trending(ctx context.Context, limit int) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
}

// statsRepository implements StatsRepository
type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new post_stats view repository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// postStatsRow is the scan target for view rows. Aggregate columns arrive as
// NullString so that stringified or NULL values survive the scan and get
// normalized afterwards instead of failing the whole read.
type postStatsRow struct {
	ID           string
	Title        string
	Content      string
	Category     string
	Slug         *string
	Pinned       bool
	Locked       bool
	Views        int64
	UserID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LikeCount    sql.NullString
	CommentCount sql.NullString
	TrendScore   sql.NullString
}

// coerceCount normalizes an aggregate count. Non-numeric and negative values
// clamp to zero.
func coerceCount(v sql.NullString) int64 {
	if !v.Valid {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v.String), 10, 64)
	if err != nil {
		// Some drivers render bigints from arithmetic as "3.000000".
		f, ferr := strconv.ParseFloat(strings.TrimSpace(v.String), 64)
		if ferr != nil {
			return 0
		}
		n = int64(f)
	}
	if n < 0 {
		return 0
	}
	return n
}

// coerceScore normalizes a trend score the same way.
func coerceScore(v sql.NullString) float64 {
	if !v.Valid {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.String), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func (row *postStatsRow) toPost() *models.Post {
	return &models.Post{
		ID:           row.ID,
		Title:        row.Title,
		Content:      row.Content,
		Category:     row.Category,
		Slug:         row.Slug,
		Pinned:       row.Pinned,
		Locked:       row.Locked,
		Views:        row.Views,
		UserID:       row.UserID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LikeCount:    coerceCount(row.LikeCount),
		CommentCount: coerceCount(row.CommentCount),
		TrendScore:   coerceScore(row.TrendScore),
	}
}

func (r *statsRepository) ListByCategory(ctx context.Context, category string, limit, offset int) ([]*models.Post, error) {
	var rows []postStatsRow
	q := r.db.WithContext(ctx).
		Table("post_stats").
		Order("pinned DESC, trend_score DESC, created_at DESC").
		Limit(limit).
		Offset(offset)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return r.attachAuthors(ctx, rows)
}

func (r *statsRepository) Trending(ctx context.Context, limit int) ([]*models.Post, error) {
	var rows []postStatsRow
	err := r.db.WithContext(ctx).
		Table("post_stats").
		Order("trend_score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.attachAuthors(ctx, rows)
}

func (r *statsRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var rows []postStatsRow
	err := r.db.WithContext(ctx).
		Table("post_stats").
		Where("id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	posts, err := r.attachAuthors(ctx, rows)
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

// attachAuthors fills the User association, which a view scan cannot preload.
func (r *statsRepository) attachAuthors(ctx context.Context, rows []postStatsRow) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(rows))
	ids := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].toPost())
		if !seen[rows[i].UserID] {
			seen[rows[i].UserID] = true
			ids = append(ids, rows[i].UserID)
		}
	}
	if len(ids) == 0 {
		return posts, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, p := range posts {
		p.User = byID[p.UserID]
	}
	return posts, nil
}
