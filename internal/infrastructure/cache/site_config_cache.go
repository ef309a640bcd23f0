package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultSiteConfigTTL bounds staleness after out-of-band config changes
const DefaultSiteConfigTTL = 5 * time.Minute

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisSiteConfigCache implements SiteConfigCache using Redis
type RedisSiteConfigCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	key        string
	logger     *zap.Logger
}

// RedisSiteConfigCacheOption is a functional option for configuring the cache
type RedisSiteConfigCacheOption func(*RedisSiteConfigCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisSiteConfigCacheOption {
	return func(c *RedisSiteConfigCache) {
		c.logger = logger
	}
}

// NewRedisSiteConfigCache creates a new Redis-based site config cache
func NewRedisSiteConfigCache(cfg RedisConfig, opts ...RedisSiteConfigCacheOption) (*RedisSiteConfigCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisSiteConfigCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		key:        "site_config",
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisSiteConfigCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisSiteConfigCacheWithClient(client *redis.Client, opts ...RedisSiteConfigCacheOption) *RedisSiteConfigCache {
	cache := &RedisSiteConfigCache{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		key:        "site_config",
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Get retrieves the site config from cache
func (c *RedisSiteConfigCache) Get(ctx context.Context) (*accounts.SiteConfig, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err == redis.Nil {
		// Cache miss
		c.logger.Debug("Cache miss for site config")
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get site config from cache", zap.Error(err))
		return nil, fmt.Errorf("failed to get site config from cache: %w", err)
	}

	var cfg accounts.SiteConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		c.logger.Error("Failed to unmarshal site config", zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, c.key)
		return nil, fmt.Errorf("failed to unmarshal site config: %w", err)
	}

	c.logger.Debug("Cache hit for site config")
	return &cfg, nil
}

// Set stores the site config in cache
func (c *RedisSiteConfigCache) Set(ctx context.Context, cfg *accounts.SiteConfig, ttl time.Duration) error {
	if cfg == nil {
		return nil
	}

	if ttl == 0 {
		ttl = DefaultSiteConfigTTL
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		c.logger.Error("Failed to marshal site config", zap.Error(err))
		return fmt.Errorf("failed to marshal site config: %w", err)
	}

	if err := c.client.Set(ctx, c.key, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set site config in cache", zap.Error(err))
		return fmt.Errorf("failed to set site config in cache: %w", err)
	}

	c.logger.Debug("Cached site config", zap.Duration("ttl", ttl))
	return nil
}

// Invalidate removes the site config from cache
func (c *RedisSiteConfigCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		c.logger.Error("Failed to invalidate site config cache", zap.Error(err))
		return fmt.Errorf("failed to invalidate site config cache: %w", err)
	}

	c.logger.Debug("Invalidated site config cache")
	return nil
}

// Close releases any resources held by the cache
func (c *RedisSiteConfigCache) Close() error {
	// Only close client if we own it
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisSiteConfigCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisSiteConfigCache implements SiteConfigCache
var _ accounts.SiteConfigCache = (*RedisSiteConfigCache)(nil)
