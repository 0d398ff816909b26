package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	listingKeyPrefix  = "forum:%d:list:%s:%d:%d"
	trendingKeyPrefix = "forum:%d:trending:%d"
	alertsKeyPrefix   = "forum:%d:alerts"
	forumVersionKey   = "forum:ver"
)

const (
	// ListTTL is short: listings tolerate a few seconds of staleness but the
	// version bump on mutation drops them immediately anyway.
	ListTTL     = 30 * time.Second
	TrendingTTL = 60 * time.Second
	AlertsTTL   = 30 * time.Second
)

// forumVersion reads the current listing namespace version. Every listing and
// trending key embeds it, so bumping the version invalidates all of them at
// once without tracking individual keys.
func forumVersion(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	v, err := client.Get(ctx, forumVersionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

// ListingKey is the cache key for an anonymous category listing page.
func ListingKey(ctx context.Context, category string, limit, offset int) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf(listingKeyPrefix, forumVersion(ctx), category, limit, offset)
}

// TrendingKey is the cache key for the anonymous trending subset.
func TrendingKey(ctx context.Context, limit int) string {
	return fmt.Sprintf(trendingKeyPrefix, forumVersion(ctx), limit)
}

// AlertsKey is the cache key for the anonymous urgent-alerts listing.
func AlertsKey(ctx context.Context) string {
	return fmt.Sprintf(alertsKeyPrefix, forumVersion(ctx))
}

// InvalidateForumLists drops every listing/trending/alerts entry by bumping
// the namespace version. Coarse on purpose: a few seconds of staleness is
// fine, duplicate or stale counts after a mutation are not.
func InvalidateForumLists(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, forumVersionKey)
	}
}
