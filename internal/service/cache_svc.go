package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs. Video responses churn faster than summary reports.
const (
	VideoCacheTTL   = 5 * time.Minute
	SummaryCacheTTL = 10 * time.Minute
	TrendCacheTTL   = 15 * time.Minute
)

// CacheService provides a Redis cache-aside layer for hot read paths. If
// Redis is unreachable at startup every operation degrades to a no-op.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// Get retrieves a cached payload. Returns nil if not cached or disabled.
func (c *CacheService) Get(ctx context.Context, key string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// Set stores a JSON-marshalled payload under key for the given TTL.
func (c *CacheService) Set(ctx context.Context, key string, data any, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Invalidate removes keys from the cache.
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) error {
	if c.rdb == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// VideoKey is the cache key for a single video response.
func VideoKey(videoID string) string {
	return fmt.Sprintf("video:%s", videoID)
}

// SummaryKey is the cache key for a channel's summary report.
func SummaryKey(channelID string) string {
	return fmt.Sprintf("summary:%s", channelID)
}

// TrendKey is the cache key for the trending feed snapshot.
const TrendKey = "feed:trend"
