package service

import (
	"context"

	"toolhub/internal/domain"
	"toolhub/pkg/cache"
	"toolhub/pkg/logger"
)

// CachedRatingService wraps RatingService with caching functionality.
// Writes go straight to the underlying service; the cached aggregate and
// the trending keys are invalidated afterwards so the next read sees the
// recomputed mean.
type CachedRatingService struct {
	ratingService domain.RatingService
	cache         cache.Cache
	cacheManager  cache.CacheStrategy
	logger        logger.Logger
}

// NewCachedRatingService creates a new cached rating service
func NewCachedRatingService(
	ratingService domain.RatingService,
	cacheInstance cache.Cache,
	cacheManager cache.CacheStrategy,
	logger logger.Logger,
) domain.RatingService {
	return &CachedRatingService{
		ratingService: ratingService,
		cache:         cacheInstance,
		cacheManager:  cacheManager,
		logger:        logger,
	}
}

func (s *CachedRatingService) SubmitRating(toolID, userID int64, score int, comment string) (*domain.Rating, error) {
	rating, err := s.ratingService.SubmitRating(toolID, userID, score, comment)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if cacheErr := cache.InvalidateRatingCache(ctx, s.cache, toolID); cacheErr != nil {
		s.logger.Error("Rating cache invalidation hatası", map[string]interface{}{
			"tool_id": toolID,
			"error":   cacheErr.Error(),
		})
	}

	return rating, nil
}

func (s *CachedRatingService) GetRatingsByTool(toolID int64) ([]*domain.Rating, error) {
	ctx := context.Background()
	key := cache.RatingsByToolCacheKey(toolID)

	var ratings []*domain.Rating
	err := s.cacheManager.ReadThrough(ctx, key, &ratings, func() (interface{}, error) {
		return s.ratingService.GetRatingsByTool(toolID)
	}, cache.ShortExpiration)

	if err != nil {
		s.logger.Error("Cache read-through hatası", map[string]interface{}{
			"tool_id": toolID,
			"error":   err.Error(),
		})
		return s.ratingService.GetRatingsByTool(toolID)
	}

	return ratings, nil
}

func (s *CachedRatingService) GetAverageForTool(toolID int64) (float64, error) {
	ctx := context.Background()
	key := cache.RatingAverageCacheKey(toolID)

	var average float64
	err := s.cacheManager.ReadThrough(ctx, key, &average, func() (interface{}, error) {
		return s.ratingService.GetAverageForTool(toolID)
	}, cache.ShortExpiration)

	if err != nil {
		s.logger.Error("Cache read-through hatası", map[string]interface{}{
			"tool_id": toolID,
			"error":   err.Error(),
		})
		return s.ratingService.GetAverageForTool(toolID)
	}

	return average, nil
}
