package leads

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dentalops/leadflow/pkg/logging"
)

const cacheKey = "leads:all"

// Cache keeps the polled lead collection in Redis so the dashboard's
// 10-second refresh cycle does not hammer Postgres. Mutations
// invalidate the key; the next poll repopulates it (last-write-wins).
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCache creates a lead list cache. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached collection, or ok=false on miss or error.
// Cache errors are logged and treated as misses; the store remains
// the source of truth.
func (c *Cache) Get(ctx context.Context) ([]*Lead, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("leads cache read failed", "error", err)
		}
		return nil, false
	}
	var out []*Lead
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Warn("leads cache decode failed", "error", err)
		return nil, false
	}
	return out, true
}

// Set stores the collection with the configured TTL.
func (c *Cache) Set(ctx context.Context, all []*Lead) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(all)
	if err != nil {
		c.logger.Warn("leads cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("leads cache write failed", "error", err)
	}
}

// Invalidate drops the cached collection after a mutation.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Warn("leads cache invalidate failed", "error", err)
	}
}
