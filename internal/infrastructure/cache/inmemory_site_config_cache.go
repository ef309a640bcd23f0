package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cupcake/backend/internal/domain/accounts"
)

// InMemorySiteConfigCache implements SiteConfigCache in process memory.
// Suitable for tests and single-instance deployments.
type InMemorySiteConfigCache struct {
	mu        sync.RWMutex
	config    *accounts.SiteConfig
	expiresAt time.Time
}

// NewInMemorySiteConfigCache creates a new in-memory site config cache
func NewInMemorySiteConfigCache() *InMemorySiteConfigCache {
	return &InMemorySiteConfigCache{}
}

// Get returns the cached config, or (nil, nil) when missing or expired
func (c *InMemorySiteConfigCache) Get(_ context.Context) (*accounts.SiteConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.config == nil || time.Now().After(c.expiresAt) {
		return nil, nil
	}

	clone := *c.config
	return &clone, nil
}

// Set stores the config with a TTL
func (c *InMemorySiteConfigCache) Set(_ context.Context, cfg *accounts.SiteConfig, ttl time.Duration) error {
	if cfg == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultSiteConfigTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	clone := *cfg
	c.config = &clone
	c.expiresAt = time.Now().Add(ttl)
	return nil
}

// Invalidate removes the cached config
func (c *InMemorySiteConfigCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.config = nil
	return nil
}

// Ensure InMemorySiteConfigCache implements SiteConfigCache
var _ accounts.SiteConfigCache = (*InMemorySiteConfigCache)(nil)
