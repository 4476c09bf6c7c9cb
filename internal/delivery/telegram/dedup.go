package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// UpdateCache remembers processed update IDs so redelivered webhooks are
// acknowledged without reprocessing.
type UpdateCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUpdateCache(client *redis.Client, ttl time.Duration) *UpdateCache {
	return &UpdateCache{client: client, ttl: ttl}
}

// Seen marks the update as processed and reports whether it had been seen
// before. Errors are returned so the caller can fail open.
func (c *UpdateCache) Seen(ctx context.Context, updateID int64) (bool, error) {
	key := fmt.Sprintf("tg:update:%d", updateID)
	fresh, err := c.client.SetNX(ctx, key, 1, c.ttl).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}
