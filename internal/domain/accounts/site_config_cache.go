package accounts

import (
	"context"
	"time"
)

// SiteConfigCache caches the site configuration singleton. The config is
// read on nearly every request, so implementations front the repository
// with Redis or process memory.
type SiteConfigCache interface {
	// Get returns the cached config, or (nil, nil) on a cache miss
	Get(ctx context.Context) (*SiteConfig, error)

	// Set stores the config with a TTL
	Set(ctx context.Context, cfg *SiteConfig, ttl time.Duration) error

	// Invalidate removes the cached config after an update
	Invalidate(ctx context.Context) error
}
