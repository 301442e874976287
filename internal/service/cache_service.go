package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/courseware-api/pkg/errors"
)

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService fronts the cache store with a default TTL and hit/miss
// accounting. A nil *CacheService is a no-op, so callers never need to
// guard for the cache being disabled.
type CacheService struct {
	store   cacheStore
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

// NewCacheService creates a cache service with the given default TTL.
func NewCacheService(store cacheStore, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{store: store, ttl: ttl, metrics: metrics, logger: logger}
}

// Get loads a cached value into dest. It reports whether the key was found.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s == nil || s.store == nil {
		return false, nil
	}
	err := s.store.Get(ctx, key, dest)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			s.metrics.RecordCacheMiss()
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheHit()
	return true, nil
}

// Set stores a value under key. A ttl of zero uses the default TTL.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s == nil || s.store == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	return s.store.Set(ctx, key, value, ttl)
}

// Invalidate removes every key matching the pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.DeleteByPattern(ctx, pattern)
}
