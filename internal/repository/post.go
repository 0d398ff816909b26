// Package repository provides the data access layer.
package repository

import (
	"context"

	"pawhaven/internal/models"

	"gorm.io/gorm"
)

// rawScanCap bounds how many candidate rows the fallback read loads before
// ranking in memory.
const rawScanCap = 500

// PostRepository defines the interface for raw post row operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Post, error)
	BumpViews(ctx context.Context, id string) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("User").Where("slug = ?", slug).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByCategory loads candidate rows for in-memory ranking. Pagination is
// applied by the caller after sorting, so the query only caps the scan.
func (r *postRepository) ListByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Limit(rawScanCap)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&posts).Error
	return posts, err
}

// BumpViews increments the display counter with a read-then-write pair.
// Lost updates under concurrency are acceptable for this counter.
func (r *postRepository) BumpViews(ctx context.Context, id string) error {
	var post models.Post
	err := r.db.WithContext(ctx).
		Select("id", "views").
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("views", post.Views+1).Error
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{}).Error
}
