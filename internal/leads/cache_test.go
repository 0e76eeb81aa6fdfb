package leads

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCache(client, 10*time.Second, nil), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, hit := cache.Get(ctx)
	assert.False(t, hit, "expected cold cache miss")

	all := []*Lead{{ID: "lead-1", FirstName: "Maria", QualificationStatus: StatusQualified}}
	cache.Set(ctx, all)

	got, hit := cache.Get(ctx)
	require.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, "lead-1", got[0].ID)
	assert.Equal(t, StatusQualified, got[0].QualificationStatus)
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, []*Lead{{ID: "lead-1"}})
	cache.Invalidate(ctx)

	_, hit := cache.Get(ctx)
	assert.False(t, hit, "expected miss after invalidation")
}

func TestCacheExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, []*Lead{{ID: "lead-1"}})
	mr.FastForward(11 * time.Second)

	_, hit := cache.Get(ctx)
	assert.False(t, hit, "expected miss after TTL")
}

func TestNilCacheIsSafe(t *testing.T) {
	var cache *Cache
	ctx := context.Background()
	_, hit := cache.Get(ctx)
	assert.False(t, hit)
	cache.Set(ctx, nil)
	cache.Invalidate(ctx)
}

func TestCacheDisabledWithoutClient(t *testing.T) {
	cache := NewCache(nil, time.Second, nil)
	ctx := context.Background()
	cache.Set(ctx, []*Lead{{ID: "x"}})
	_, hit := cache.Get(ctx)
	assert.False(t, hit)
}
