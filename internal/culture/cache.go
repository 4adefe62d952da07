package culture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/recruiting-platform/internal/fitscore"
)

// DefaultCacheTTL is how long a culture judgment stays cached.
const DefaultCacheTTL = 24 * time.Hour

const cacheKeyPrefix = "fitscore:culture:"

// Cache stores culture judgments by key.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache implements Cache on a redis client.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache creates a Cache backed by client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached value for key.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value under key with a TTL.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// CachedJudge is a read-through cache around another judge. Only successful
// judgments are cached; cache failures fall through to the wrapped judge.
type CachedJudge struct {
	next   fitscore.CultureJudge
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedJudge wraps next with cache. Non-positive ttl uses DefaultCacheTTL.
func NewCachedJudge(next fitscore.CultureJudge, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedJudge {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedJudge{next: next, cache: cache, ttl: ttl, logger: logger}
}

// Judge returns a cached score when available, otherwise asks the wrapped judge.
func (c *CachedJudge) Judge(ctx context.Context, jobDescription, candidateSummary string) (float64, error) {
	key := CacheKey(jobDescription, candidateSummary)

	if val, found, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("culture cache read failed", zap.Error(err))
	} else if found {
		if score, perr := strconv.ParseFloat(val, 64); perr == nil {
			return score, nil
		}
		c.logger.Warn("discarding corrupt culture cache entry", zap.String("key", key))
	}

	score, err := c.next.Judge(ctx, jobDescription, candidateSummary)
	if err != nil {
		return 0, err
	}

	if err := c.cache.Set(ctx, key, strconv.FormatFloat(score, 'g', -1, 64), c.ttl); err != nil {
		c.logger.Warn("culture cache write failed", zap.Error(err))
	}
	return score, nil
}

// CacheKey derives the cache key for a pair of texts.
func CacheKey(jobDescription, candidateSummary string) string {
	h := sha256.New()
	h.Write([]byte(jobDescription))
	h.Write([]byte{0})
	h.Write([]byte(candidateSummary))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
