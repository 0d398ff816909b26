// Package ranking defines the listing sort order and the local trend-score
// formula used when post stats cannot come from the precomputed view.
package ranking

import (
	"sort"

	"pawhaven/internal/models"
)

// Trend-score weights. The post_stats view is created with the same formula,
// so both enrichment paths agree numerically; deployments that redefine the
// view keep their own scores (we never recompute over a precomputed value).
const (
	LikeWeight    = 2.0
	CommentWeight = 1.0
	ViewWeight    = 0.2
)

// Score computes the local trend score for a post.
func Score(likes, comments, views int64) float64 {
	return float64(likes)*LikeWeight + float64(comments)*CommentWeight + float64(views)*ViewWeight
}

// SortListing orders posts for a listing page: pinned first, then trend score
// descending, then creation time descending as the final tiebreak.
func SortListing(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if a.TrendScore != b.TrendScore {
			return a.TrendScore > b.TrendScore
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// SortTrending orders posts by trend score descending only.
func SortTrending(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].TrendScore > posts[j].TrendScore
	})
}

// TopN returns at most n posts ordered by trend score descending.
func TopN(posts []*models.Post, n int) []*models.Post {
	SortTrending(posts)
	if n < 0 {
		n = 0
	}
	if len(posts) > n {
		posts = posts[:n]
	}
	return posts
}
