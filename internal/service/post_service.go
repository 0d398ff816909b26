// Package service contains the application business logic.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"pawhaven/internal/cache"
	"pawhaven/internal/middleware"
	"pawhaven/internal/models"
	"pawhaven/internal/observability"
	"pawhaven/internal/postref"
	"pawhaven/internal/ranking"
	"pawhaven/internal/repository"
	"pawhaven/internal/storeerr"

	"gorm.io/gorm"
)

const (
	// DefaultTrendingLimit is the trending subset size when the caller does
	// not specify one.
	DefaultTrendingLimit = 5

	maxTitleLen   = 300
	maxContentLen = 50000
)

// PostService serves enriched forum posts. Every read goes through the
// post_stats view first and falls back to counting raw rows only when the
// view itself is missing from the schema.
type PostService struct {
	postRepo     repository.PostRepository
	statsRepo    repository.StatsRepository
	reactionRepo repository.ReactionRepository
	commentRepo  repository.CommentRepository
}

type CreatePostInput struct {
	ViewerID string
	Title    string
	Content  string
	Category string
	Slug     string
}

type ListPostsInput struct {
	Category string
	Limit    int
	Offset   int
	ViewerID string
}

// GetPostOptions tunes a single-post read.
type GetPostOptions struct {
	// MetadataOnly skips the view-count bump.
	MetadataOnly bool
}

func NewPostService(
	postRepo repository.PostRepository,
	statsRepo repository.StatsRepository,
	reactionRepo repository.ReactionRepository,
	commentRepo repository.CommentRepository,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		statsRepo:    statsRepo,
		reactionRepo: reactionRepo,
		commentRepo:  commentRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.ViewerID == "" {
		return nil, models.NewUnauthorizedError("Sign in to post")
	}
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	category := in.Category
	if category == "" {
		category = models.CategoryGeneral
	}
	switch category {
	case models.CategoryGeneral, models.CategoryAdoption, models.CategoryUrgent,
		models.CategoryAdvice, models.CategoryLostFound:
		// valid
	default:
		return nil, models.NewValidationError("Invalid category")
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		Category: category,
		UserID:   in.ViewerID,
	}
	if slug := postref.NormalizeSlug(in.Slug); slug != "" {
		if !postref.ValidSlug(slug) {
			return nil, models.NewValidationError("Slug may only contain lowercase letters, digits, '-' and '_'")
		}
		// A UUID-shaped slug would be routed as a canonical id and shadow
		// some other post.
		if postref.Classify(slug) == postref.KindCanonicalID {
			return nil, models.NewValidationError("Slug must not look like a canonical id")
		}
		post.Slug = &slug
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if storeerr.IsConflict(err) {
			return nil, models.NewConflictError("Slug is already taken")
		}
		return nil, err
	}

	cache.InvalidateForumLists(ctx)
	return post, nil
}

// ListPosts returns one ranked page: pinned first, then trend score, then
// recency. Anonymous pages are served cache-aside; the viewer's liked flags
// are overlaid after the cached body so they are never stored.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	var posts []*models.Post

	key := cache.ListingKey(ctx, in.Category, in.Limit, in.Offset)
	err := cache.Aside(ctx, key, &posts, cache.ListTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.listEnriched(ctx, in.Category, in.Limit, in.Offset)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	if err := s.overlayLiked(ctx, posts, in.ViewerID); err != nil {
		return nil, err
	}
	return posts, nil
}

// Trending returns the top-n posts by trend score alone; pinning does not
// influence this subset.
func (s *PostService) Trending(ctx context.Context, limit int, viewerID string) ([]*models.Post, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	var posts []*models.Post
	key := cache.TrendingKey(ctx, limit)
	err := cache.Aside(ctx, key, &posts, cache.TrendingTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.trendingEnriched(ctx, limit)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	if err := s.overlayLiked(ctx, posts, viewerID); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost resolves ref as a canonical id when it is UUID-shaped and as a slug
// otherwise. Slug reads never consult the post_stats view: slugs are mutable,
// so they resolve against the live posts table only.
func (s *PostService) GetPost(ctx context.Context, ref, viewerID string, opts GetPostOptions) (*models.Post, error) {
	if ref == "" {
		return nil, models.NewValidationError("Post reference is required")
	}

	var post *models.Post
	var localScore bool
	var err error

	switch postref.Classify(ref) {
	case postref.KindCanonicalID:
		post, localScore, err = s.getByID(ctx, ref)
	default:
		// Slug reads count raw rows, so their score is always local.
		post, err = s.getBySlug(ctx, postref.NormalizeSlug(ref))
		localScore = true
	}
	if err != nil {
		return nil, err
	}

	if !opts.MetadataOnly {
		if err := s.postRepo.BumpViews(ctx, post.ID); err != nil {
			// Display counter only; a failed bump never fails the read.
			middleware.Logger.WarnContext(ctx, "Failed to bump view count",
				slog.String("post_id", post.ID),
				slog.String("error", err.Error()))
		} else {
			post.Views++
			// A view-supplied score is authoritative and stays untouched;
			// only a locally computed one follows the bumped count.
			if localScore {
				post.TrendScore = ranking.Score(post.LikeCount, post.CommentCount, post.Views)
			}
		}
	}

	if viewerID != "" {
		liked, err := s.reactionRepo.Exists(ctx, post.ID, viewerID)
		if err != nil && !storeerr.IsSchemaMissing(err) {
			return nil, err
		}
		post.Liked = liked
	}
	return post, nil
}

// GetComments returns one page of comments for a post resolved by ref.
func (s *PostService) GetComments(ctx context.Context, ref string, limit, offset int) ([]*models.Comment, error) {
	post, err := s.GetPost(ctx, ref, "", GetPostOptions{MetadataOnly: true})
	if err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, post.ID, limit, offset)
}

// AddComment appends a comment and drops the affected cache entries.
func (s *PostService) AddComment(ctx context.Context, ref, viewerID, content string) (*models.Comment, error) {
	if viewerID == "" {
		return nil, models.NewUnauthorizedError("Sign in to comment")
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Comment content is required")
	}

	post, err := s.GetPost(ctx, ref, "", GetPostOptions{MetadataOnly: true})
	if err != nil {
		return nil, err
	}
	if post.Locked {
		return nil, models.NewValidationError("Post is locked")
	}

	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  viewerID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	cache.InvalidateForumLists(ctx)
	return comment, nil
}

// listEnriched is the two-path listing read. The precomputed view is tried
// once; only a schema-missing failure reroutes to raw-row counting, anything
// else propagates unchanged.
func (s *PostService) listEnriched(ctx context.Context, category string, limit, offset int) ([]*models.Post, error) {
	ctx, span := observability.StartEnrichment(ctx, "list")

	posts, err := s.statsRepo.ListByCategory(ctx, category, limit, offset)
	if err == nil {
		observability.EndEnrichment(span, "precomputed", nil)
		return posts, nil
	}
	if !storeerr.IsSchemaMissing(err) {
		observability.EndEnrichment(span, "precomputed", err)
		return nil, err
	}

	middleware.AggregateFallbacks.WithLabelValues("list").Inc()
	posts, err = s.fallbackList(ctx, category, limit, offset)
	observability.EndEnrichment(span, "fallback", err)
	return posts, err
}

func (s *PostService) trendingEnriched(ctx context.Context, limit int) ([]*models.Post, error) {
	ctx, span := observability.StartEnrichment(ctx, "trending")

	posts, err := s.statsRepo.Trending(ctx, limit)
	if err == nil {
		observability.EndEnrichment(span, "precomputed", nil)
		return posts, nil
	}
	if !storeerr.IsSchemaMissing(err) {
		observability.EndEnrichment(span, "precomputed", err)
		return nil, err
	}

	middleware.AggregateFallbacks.WithLabelValues("trending").Inc()
	candidates, err := s.postRepo.ListByCategory(ctx, "")
	if err == nil {
		err = s.countInto(ctx, candidates)
	}
	if err != nil {
		observability.EndEnrichment(span, "fallback", err)
		return nil, err
	}

	ranking.SortTrending(candidates)
	posts = ranking.TopN(candidates, limit)
	observability.EndEnrichment(span, "fallback", nil)
	return posts, nil
}

// getByID reads one post through the view when possible. The second return
// reports whether the numbers were computed locally (fallback path) rather
// than supplied by the view.
func (s *PostService) getByID(ctx context.Context, id string) (*models.Post, bool, error) {
	ctx, span := observability.StartEnrichment(ctx, "get")

	post, err := s.statsRepo.GetByID(ctx, id)
	if err == nil {
		observability.EndEnrichment(span, "precomputed", nil)
		return post, false, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		observability.EndEnrichment(span, "precomputed", nil)
		return nil, false, models.NewNotFoundError("Post", id)
	}
	if !storeerr.IsSchemaMissing(err) {
		observability.EndEnrichment(span, "precomputed", err)
		return nil, false, err
	}

	middleware.AggregateFallbacks.WithLabelValues("get").Inc()
	post, err = s.postRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		observability.EndEnrichment(span, "fallback", nil)
		return nil, true, models.NewNotFoundError("Post", id)
	}
	if err == nil {
		err = s.countInto(ctx, []*models.Post{post})
	}
	observability.EndEnrichment(span, "fallback", err)
	if err != nil {
		return nil, true, err
	}
	return post, true, nil
}

func (s *PostService) getBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if !postref.ValidSlug(slug) {
		return nil, models.NewValidationError("Invalid post reference")
	}

	post, err := s.postRepo.GetBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", slug)
	}
	if err != nil {
		return nil, err
	}
	if err := s.countInto(ctx, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// fallbackList ranks raw rows in memory. Pagination happens after the sort:
// page boundaries must agree with the view path, which orders in SQL.
func (s *PostService) fallbackList(ctx context.Context, category string, limit, offset int) ([]*models.Post, error) {
	candidates, err := s.postRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if err := s.countInto(ctx, candidates); err != nil {
		return nil, err
	}
	ranking.SortListing(candidates)

	if offset >= len(candidates) {
		return []*models.Post{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(candidates) {
		end = len(candidates)
	}
	return candidates[offset:end], nil
}

// countInto fills like and comment counts plus the trend score from the raw
// tables, producing the same numbers the view would have.
func (s *PostService) countInto(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likes, err := s.reactionRepo.CountByPost(ctx, ids)
	if err != nil {
		// A missing reactions table means zero likes, not a failed read.
		if !storeerr.IsSchemaMissing(err) {
			return err
		}
		likes = map[string]int64{}
	}
	comments, err := s.commentRepo.CountByPost(ctx, ids)
	if err != nil {
		if !storeerr.IsSchemaMissing(err) {
			return err
		}
		comments = map[string]int64{}
	}

	for _, p := range posts {
		p.LikeCount = likes[p.ID]
		p.CommentCount = comments[p.ID]
		p.TrendScore = ranking.Score(p.LikeCount, p.CommentCount, p.Views)
	}
	return nil
}

// overlayLiked marks the posts this viewer liked. It runs after any cache
// read so per-viewer state never leaks into shared entries.
func (s *PostService) overlayLiked(ctx context.Context, posts []*models.Post, viewerID string) error {
	if viewerID == "" || len(posts) == 0 {
		return nil
	}
	liked, err := s.reactionRepo.LikedPostIDs(ctx, viewerID)
	if err != nil {
		if storeerr.IsSchemaMissing(err) {
			return nil
		}
		return err
	}
	for _, p := range posts {
		p.Liked = liked[p.ID]
	}
	return nil
}
