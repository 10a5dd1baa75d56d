package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"toolhub/pkg/logger"
)

// Cache key constants
const (
	ToolPrefix      = "tool"
	ToolByIDKey     = "tool:id:%d"
	ToolListKey     = "tool:list"
	ToolFeaturedKey = "tool:featured"
	ToolTrendingKey = "tool:trending:%d"

	RatingPrefix       = "rating"
	RatingAverageKey   = "rating:average:%d"
	RatingsByToolKey   = "rating:tool:%d"
	BookmarksByUserKey = "bookmark:user:%d"
)

// Cache expiration times
const (
	ShortExpiration  = 5 * time.Minute  // Frequently changing data (trending, averages)
	MediumExpiration = 30 * time.Minute // Moderately changing data (tool lists)
	LongExpiration   = 2 * time.Hour    // Rarely changing data (tool records)
)

// CacheStrategy defines different caching patterns
type CacheStrategy interface {
	// Read-through: Check cache first, if miss then fetch from source and cache it
	ReadThrough(ctx context.Context, key string, dest interface{}, fetchFunc func() (interface{}, error), expiration time.Duration) error

	// Write-through: Write to source first, then cache
	WriteThrough(ctx context.Context, key string, value interface{}, writeFunc func(value interface{}) error, expiration time.Duration) error

	// Cache-aside: Manual cache management
	CacheAside(ctx context.Context, key string, dest interface{}, fetchFunc func() (interface{}, error), expiration time.Duration) error
}

type CacheManager struct {
	cache  Cache
	logger logger.Logger
}

func NewCacheManager(cache Cache, logger logger.Logger) CacheStrategy {
	return &CacheManager{
		cache:  cache,
		logger: logger,
	}
}

func (cm *CacheManager) ReadThrough(ctx context.Context, key string, dest interface{}, fetchFunc func() (interface{}, error), expiration time.Duration) error {
	err := cm.cache.Get(ctx, key, dest)
	if err == nil {
		return nil
	}

	if err != ErrCacheMiss {
		cm.logger.Error("Cache error in read-through", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		// Continue to fetch from source despite cache error
	}

	data, err := fetchFunc()
	if err != nil {
		return err
	}

	if err := cm.cache.Set(ctx, key, data, expiration); err != nil {
		cm.logger.Error("Cache set error in read-through", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		// Don't fail the request if cache set fails
	}

	return copyData(data, dest)
}

func (cm *CacheManager) WriteThrough(ctx context.Context, key string, value interface{}, writeFunc func(value interface{}) error, expiration time.Duration) error {
	if err := writeFunc(value); err != nil {
		return err
	}

	if err := cm.cache.Set(ctx, key, value, expiration); err != nil {
		cm.logger.Error("Cache set error in write-through", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		// Source is already updated, don't fail the request
	}

	return nil
}

func (cm *CacheManager) CacheAside(ctx context.Context, key string, dest interface{}, fetchFunc func() (interface{}, error), expiration time.Duration) error {
	err := cm.cache.Get(ctx, key, dest)
	if err == nil {
		return nil
	}

	if err != ErrCacheMiss {
		cm.logger.Error("Cache error in cache-aside", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	data, err := fetchFunc()
	if err != nil {
		return err
	}

	if err := cm.cache.Set(ctx, key, data, expiration); err != nil {
		cm.logger.Error("Cache set error in cache-aside", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	return copyData(data, dest)
}

// Helper functions for cache key generation
func ToolCacheKey(toolID int64) string {
	return fmt.Sprintf(ToolByIDKey, toolID)
}

func TrendingCacheKey(limit int) string {
	return fmt.Sprintf(ToolTrendingKey, limit)
}

func RatingAverageCacheKey(toolID int64) string {
	return fmt.Sprintf(RatingAverageKey, toolID)
}

func RatingsByToolCacheKey(toolID int64) string {
	return fmt.Sprintf(RatingsByToolKey, toolID)
}

func BookmarksCacheKey(userID int64) string {
	return fmt.Sprintf(BookmarksByUserKey, userID)
}

// Cache invalidation helpers

// InvalidateToolCache drops every derived view of a tool after an admin
// mutation.
func InvalidateToolCache(ctx context.Context, cache Cache, toolID int64) error {
	keys := []string{
		ToolCacheKey(toolID),
		ToolListKey,
		ToolFeaturedKey,
	}
	if err := cache.DeleteMultiple(ctx, keys); err != nil {
		return err
	}
	return cache.DeletePattern(ctx, "tool:trending:*")
}

// InvalidateRatingCache drops the aggregate views a new rating changes.
func InvalidateRatingCache(ctx context.Context, cache Cache, toolID int64) error {
	keys := []string{
		RatingAverageCacheKey(toolID),
		RatingsByToolCacheKey(toolID),
		ToolCacheKey(toolID),
	}
	if err := cache.DeleteMultiple(ctx, keys); err != nil {
		return err
	}
	return cache.DeletePattern(ctx, "tool:trending:*")
}

func InvalidateBookmarkCache(ctx context.Context, cache Cache, userID int64) error {
	return cache.Delete(ctx, BookmarksCacheKey(userID))
}

// Helper function to copy data between interfaces
func copyData(src, dest interface{}) error {
	switch d := dest.(type) {
	case *interface{}:
		*d = src
		return nil
	default:
		data, err := json.Marshal(src)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, dest)
	}
}
