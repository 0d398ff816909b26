package repository

import (
	"context"

	"pawhaven/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository defines the interface for like rows
type ReactionRepository interface {
	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error
	Exists(ctx context.Context, postID, userID string) (bool, error)
	LikedPostIDs(ctx context.Context, userID string) (map[string]bool, error)
	CountByPost(ctx context.Context, postIDs []string) (map[string]int64, error)
}

// reactionRepository implements ReactionRepository
type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Like inserts the row. The unique index makes a repeat insert a no-op
// instead of a duplicate, so toggling is idempotent at the store level.
func (r *reactionRepository) Like(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO reactions (post_id, user_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (post_id, user_id) DO NOTHING",
		postID, userID,
	).Error
}

// Unlike removes the row. Deleting an absent row is not an error.
func (r *reactionRepository) Unlike(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Reaction{}).Error
}

func (r *reactionRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// LikedPostIDs returns the set of post ids this viewer liked, used to overlay
// is-liked onto cached or view-sourced reads.
func (r *reactionRepository) LikedPostIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	liked := make(map[string]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// CountByPost groups like counts for a batch of posts in one query.
func (r *reactionRepository) CountByPost(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID string
		Cnt    int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("post_id, COUNT(*) as cnt").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Cnt
	}
	return counts, nil
}
