package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const unreadKeyPrefix = "helpdesk:unread:"

// UnreadCache keeps per-user unread-notification counts in Redis. It is
// a pure accelerator: a miss or a Redis failure falls through to the
// database count, so staleness is bounded by the TTL and invalidation.
type UnreadCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewUnreadCache builds the cache over an existing Redis client.
func NewUnreadCache(r *Redis, ttl time.Duration, logger *zap.Logger) *UnreadCache {
	if r == nil || r.Client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &UnreadCache{client: r.Client, ttl: ttl, logger: logger}
}

// Get returns the cached count and whether it was present.
func (c *UnreadCache) Get(ctx context.Context, userID string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	count, err := c.client.Get(ctx, unreadKeyPrefix+userID).Int64()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("unread cache get failed", zap.Error(err))
		}
		return 0, false
	}
	return count, true
}

// Set stores the count for a user.
func (c *UnreadCache) Set(ctx context.Context, userID string, count int64) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, unreadKeyPrefix+userID, count, c.ttl).Err(); err != nil {
		c.logger.Warn("unread cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached count after a notification write.
func (c *UnreadCache) Invalidate(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, unreadKeyPrefix+userID).Err(); err != nil {
		c.logger.Warn("unread cache invalidate failed", zap.Error(err))
	}
}
