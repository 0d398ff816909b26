package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedPayload struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedPayload) func() error {
		return func() error {
			calls++
			*dest = cachedPayload{ID: "p1", Count: 7}
			return nil
		}
	}

	var got cachedPayload
	require.NoError(t, Aside(ctx, "test:key", &got, ListTTL, fetch(&got)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(7), got.Count)

	var again cachedPayload
	require.NoError(t, Aside(ctx, "test:key", &again, ListTTL, fetch(&again)))
	assert.Equal(t, 1, calls, "second read must come from cache")
	assert.Equal(t, got, again)
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var got cachedPayload
	boom := errors.New("db down")
	err := Aside(ctx, "test:err", &got, ListTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	found, err := GetJSON(ctx, "test:err", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAside_NoClientIsPassthrough(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	calls := 0
	var got cachedPayload
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(ctx, "k", &got, ListTTL, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls, "without redis every read hits the fetch")
}

func TestInvalidateForumLists_BumpsNamespace(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	before := ListingKey(ctx, "adoption", 20, 0)
	trendingBefore := TrendingKey(ctx, 5)

	InvalidateForumLists(ctx)

	assert.NotEqual(t, before, ListingKey(ctx, "adoption", 20, 0))
	assert.NotEqual(t, trendingBefore, TrendingKey(ctx, 5))
}

func TestListingKey_CategoryDefaults(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()
	assert.Equal(t, ListingKey(ctx, "", 20, 0), ListingKey(ctx, "", 20, 0))
	assert.NotEqual(t, ListingKey(ctx, "", 20, 0), ListingKey(ctx, "urgent", 20, 0))
	assert.NotEqual(t, ListingKey(ctx, "urgent", 20, 0), ListingKey(ctx, "urgent", 20, 20))
}

func TestInvalidateForumLists_AlsoRotatesAlertsKey(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	before := AlertsKey(ctx)
	InvalidateForumLists(ctx)
	assert.NotEqual(t, before, AlertsKey(ctx))
}
