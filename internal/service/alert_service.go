package service

import (
	"context"
	"log/slog"

	"pawhaven/internal/cache"
	"pawhaven/internal/middleware"
	"pawhaven/internal/models"
)

// AlertPublisher pushes an urgent post to connected listeners.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, post *models.Post) error
}

// AlertService raises urgent alerts: an alert is an urgent-category forum
// post plus a real-time push to everyone listening.
type AlertService struct {
	posts     *PostService
	publisher AlertPublisher
}

type RaiseAlertInput struct {
	ViewerID string
	Title    string
	Content  string
}

func NewAlertService(posts *PostService, publisher AlertPublisher) *AlertService {
	return &AlertService{
		posts:     posts,
		publisher: publisher,
	}
}

// RaiseAlert persists the alert post first; the push is best-effort. An
// alert that reached the forum but missed the live push is still an alert.
func (s *AlertService) RaiseAlert(ctx context.Context, in RaiseAlertInput) (*models.Post, error) {
	post, err := s.posts.CreatePost(ctx, CreatePostInput{
		ViewerID: in.ViewerID,
		Title:    in.Title,
		Content:  in.Content,
		Category: models.CategoryUrgent,
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAlert(ctx, post); err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to publish alert",
				slog.String("post_id", post.ID),
				slog.String("error", err.Error()))
		}
	}
	return post, nil
}

// ListAlerts returns the most recent urgent posts, newest first.
func (s *AlertService) ListAlerts(ctx context.Context, limit int, viewerID string) ([]*models.Post, error) {
	if limit <= 0 {
		limit = 20
	}

	// One shared cache entry holds the largest page; smaller limits slice it.
	const alertsPageCap = 50
	if limit > alertsPageCap {
		limit = alertsPageCap
	}

	var posts []*models.Post
	key := cache.AlertsKey(ctx)
	err := cache.Aside(ctx, key, &posts, cache.AlertsTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.posts.listEnriched(ctx, models.CategoryUrgent, alertsPageCap, 0)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}

	if err := s.posts.overlayLiked(ctx, posts, viewerID); err != nil {
		return nil, err
	}
	return posts, nil
}
