package store

import (
	"context"
	"encoding/json"
	"time"

	"threatwatch-go/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	alertChannel  = "alert_events"
	vizCacheKey   = "viz:unfiltered"
	vizCacheTTL   = 5 * time.Minute
	cacheDeadline = 2 * time.Second
)

// RedisCache is the read-side aggregate cache plus the pub/sub channel
// feeding the SSE live stream. It only ever holds derived data: the
// unfiltered visualization payload, invalidated on every alert submission
// so a submitter redirected into a listing sees their own write.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(opts *redis.Options) *RedisCache {
	return &RedisCache{client: redis.NewClient(opts)}
}

// GetVisualization returns the cached unfiltered dashboard payload, or
// false on miss or any cache failure. Cache failures never surface to the
// caller; the dashboard just recomputes.
func (c *RedisCache) GetVisualization(ctx context.Context) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, cacheDeadline)
	defer cancel()

	data, err := c.client.Get(ctx, vizCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *RedisCache) SetVisualization(ctx context.Context, payload []byte) {
	ctx, cancel := context.WithTimeout(ctx, cacheDeadline)
	defer cancel()
	c.client.Set(ctx, vizCacheKey, payload, vizCacheTTL)
}

// InvalidateVisualization drops the cached payload after a write.
func (c *RedisCache) InvalidateVisualization(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, cacheDeadline)
	defer cancel()
	c.client.Del(ctx, vizCacheKey)
}

// PublishAlert pushes a newly created alert to SSE subscribers.
func (c *RedisCache) PublishAlert(ctx context.Context, a models.Alert) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, alertChannel, data).Err()
}

func (c *RedisCache) Subscribe(ctx context.Context) *redis.PubSub {
	return c.client.Subscribe(ctx, alertChannel)
}
