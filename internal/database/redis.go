package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/config"
)

const scanBatchSize = 100

// RedisCache implements ListingCache on top of Redis string keys
type RedisCache struct {
	client     *redis.Client
	logger     *slog.Logger
	defaultTTL time.Duration
}

// NewRedisCache connects to Redis and returns a listing cache
func NewRedisCache(cfg *config.Config, logger *slog.Logger) (*RedisCache, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDatabase,
	)

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           int(cfg.RedisDatabase),
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return NewRedisCacheWithClient(client, time.Duration(cfg.ListingCacheTTL)*time.Second, logger), nil
}

// NewRedisCacheWithClient wraps an existing client (used by tests with miniredis)
func NewRedisCacheWithClient(client *redis.Client, defaultTTL time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{
		client:     client,
		logger:     logger,
		defaultTTL: defaultTTL,
	}
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("⚠️ [Redis] Cache read failed, treating as miss",
				"key", key,
				"error", err,
			)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		r.logger.Warn("⚠️ [Redis] Cached value is not decodable, treating as miss",
			"key", key,
			"error", err,
		)
		return false
	}

	r.logger.Debug("📖 [Redis] Cache hit", "key", key)
	return true
}

func (r *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("⚠️ [Redis] Failed to marshal cache value",
			"key", key,
			"error", err,
		)
		return false
	}

	if ttl <= 0 {
		ttl = r.defaultTTL
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Warn("⚠️ [Redis] Cache write failed",
			"key", key,
			"error", err,
		)
		return false
	}

	r.logger.Debug("💾 [Redis] Cached value", "key", key, "ttl", ttl)
	return true
}

// InvalidatePrefix walks the keyspace with SCAN so large caches never block
// the server the way KEYS would. Keys are collected over the whole scan
// before any DEL, since deleting mid-scan can shift the cursor past live keys.
func (r *RedisCache) InvalidatePrefix(ctx context.Context, prefix string) bool {
	var keys []string
	iter := r.client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("⚠️ [Redis] Failed to scan cache keys",
			"prefix", prefix,
			"error", err,
		)
		return false
	}

	for start := 0; start < len(keys); start += scanBatchSize {
		end := min(start+scanBatchSize, len(keys))
		if err := r.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			r.logger.Warn("⚠️ [Redis] Failed to delete cache keys",
				"prefix", prefix,
				"error", err,
			)
			return false
		}
	}

	r.logger.Debug("🗑️ [Redis] Invalidated cache prefix",
		"prefix", prefix,
		"deleted", len(keys),
	)
	return true
}

// NoOpCache is a listing cache that never stores anything.
// Used when Redis is not available.
type NoOpCache struct{}

// NewNoOpCache creates a no-op cache
func NewNoOpCache(logger *slog.Logger) ListingCache {
	logger.Warn("⚠️ [Cache] Using no-op listing cache - listings will always hit the database")
	return NoOpCache{}
}

func (NoOpCache) Get(ctx context.Context, key string, dest any) bool { return false }

func (NoOpCache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	return false
}

func (NoOpCache) InvalidatePrefix(ctx context.Context, prefix string) bool { return true }

func (NoOpCache) Close() error { return nil }
