package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultCacheTTL is how long a fetched posting is reused.
const DefaultCacheTTL = 7 * 24 * time.Hour

const cacheKeyPrefix = "fitscore:posting:"

// Cache stores serialized postings by key. culture.RedisCache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedFetcher serves postings from a cache while fresh and fetches otherwise.
// Cache failures are logged and never fail a fetch.
type CachedFetcher struct {
	next   Fetcher
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedFetcher wraps next with cache. A non-positive ttl uses DefaultCacheTTL.
func NewCachedFetcher(next Fetcher, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{next: next, cache: cache, ttl: ttl, logger: logger}
}

// Fetch returns the cached posting for rawURL or fetches and caches it.
func (c *CachedFetcher) Fetch(ctx context.Context, rawURL string) (*Posting, error) {
	key := CacheKey(rawURL)

	if cached, found, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("posting cache read failed", zap.String("url", rawURL), zap.Error(err))
	} else if found {
		var posting Posting
		if err := json.Unmarshal([]byte(cached), &posting); err == nil {
			c.logger.Debug("posting cache hit", zap.String("url", rawURL))
			return &posting, nil
		}
		c.logger.Warn("discarding corrupt cached posting", zap.String("url", rawURL))
	}

	posting, err := c.next.Fetch(ctx, rawURL)
	if err != nil {
		return posting, err
	}

	if data, err := json.Marshal(posting); err == nil {
		if err := c.cache.Set(ctx, key, string(data), c.ttl); err != nil {
			c.logger.Warn("posting cache write failed", zap.String("url", rawURL), zap.Error(err))
		}
	}
	return posting, nil
}

// CacheKey derives the cache key for a URL.
func CacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(rawURL)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
