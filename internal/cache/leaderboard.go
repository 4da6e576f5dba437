// Package cache provides an optional Redis-backed result cache for
// leaderboard queries. When no Redis address is configured every
// operation is a no-op and callers fall through to the database.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"linguatrail/internal/config"
	"linguatrail/internal/models"
)

const leaderboardTTL = 60 * time.Second

// LeaderboardCache caches computed leaderboard pages keyed by period
type LeaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache connects to Redis if an address is configured.
// Returns a disabled cache otherwise
func NewLeaderboardCache(cfg *config.Config) *LeaderboardCache {
	if cfg.RedisAddr == "" {
		return &LeaderboardCache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable, leaderboard caching disabled: %v", err)
		return &LeaderboardCache{}
	}

	log.Printf("Connected to Redis at %s", cfg.RedisAddr)
	return &LeaderboardCache{client: client}
}

// Enabled reports whether a Redis connection is active
func (c *LeaderboardCache) Enabled() bool {
	return c.client != nil
}

// Get returns the cached entries for a key, or nil on miss. Cache errors
// are logged and treated as misses
func (c *LeaderboardCache) Get(ctx context.Context, key string) []models.LeaderboardEntry {
	if c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		log.Printf("Leaderboard cache read failed: %v", err)
		return nil
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("Leaderboard cache entry corrupt, ignoring: %v", err)
		return nil
	}
	return entries
}

// Set stores entries under a key with a short TTL. Failures are logged
// and otherwise ignored
func (c *LeaderboardCache) Set(ctx context.Context, key string, entries []models.LeaderboardEntry) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, data, leaderboardTTL).Err(); err != nil {
		log.Printf("Leaderboard cache write failed: %v", err)
	}
}

// Invalidate drops a cached key, typically after a submission that
// changes standings
func (c *LeaderboardCache) Invalidate(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Leaderboard cache invalidation failed: %v", err)
	}
}

// Close releases the Redis connection
func (c *LeaderboardCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
