package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kirankishoreV-07/CIVIC-REZO-Backend/internal/middleware"
)

const (
	ComplaintCacheTTL = 5 * time.Minute
	DashboardCacheTTL = 2 * time.Minute
)

// CacheService provides a Redis cache-aside layer for complaint detail and
// dashboard reads.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		middleware.Logger.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		middleware.Logger.Warn().Err(err).Str("url", redisURL).Msg("redis: invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		return &CacheService{}
	}

	middleware.Logger.Info().Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetComplaint retrieves a cached complaint detail. Returns nil when not
// cached or when caching is disabled.
func (c *CacheService) GetComplaint(ctx context.Context, id string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, complaintKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetComplaint stores a complaint detail response in cache.
func (c *CacheService) SetComplaint(ctx context.Context, id string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, complaintKey(id), b, ComplaintCacheTTL).Err()
}

// InvalidateComplaint removes a complaint from cache (after votes or stage
// changes) along with the dashboard aggregates that include it.
func (c *CacheService) InvalidateComplaint(ctx context.Context, id string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, complaintKey(id), dashboardKey(), summaryKey()).Err()
}

// GetDashboard retrieves the cached dashboard aggregate. Returns nil on miss.
func (c *CacheService) GetDashboard(ctx context.Context) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, dashboardKey()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetDashboard stores the dashboard aggregate in cache.
func (c *CacheService) SetDashboard(ctx context.Context, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dashboardKey(), b, DashboardCacheTTL).Err()
}

// GetSummary retrieves the cached statistics summary. Returns nil on miss.
func (c *CacheService) GetSummary(ctx context.Context) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, summaryKey()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetSummary stores the statistics summary in cache.
func (c *CacheService) SetSummary(ctx context.Context, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, summaryKey(), b, DashboardCacheTTL).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func complaintKey(id string) string {
	return fmt.Sprintf("complaint:%s", id)
}

func dashboardKey() string {
	return "stats:dashboard"
}

func summaryKey() string {
	return "stats:summary"
}
