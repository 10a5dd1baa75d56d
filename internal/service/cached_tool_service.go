package service

import (
	"context"

	"toolhub/internal/domain"
	"toolhub/pkg/cache"
	"toolhub/pkg/logger"
)

// CachedToolService wraps ToolService with caching functionality
type CachedToolService struct {
	toolService  domain.ToolService
	cache        cache.Cache
	cacheManager cache.CacheStrategy
	logger       logger.Logger
}

// NewCachedToolService creates a new cached tool service
func NewCachedToolService(
	toolService domain.ToolService,
	cacheInstance cache.Cache,
	cacheManager cache.CacheStrategy,
	logger logger.Logger,
) domain.ToolService {
	return &CachedToolService{
		toolService:  toolService,
		cache:        cacheInstance,
		cacheManager: cacheManager,
		logger:       logger,
	}
}

func (s *CachedToolService) GetToolByID(id int64) (*domain.Tool, error) {
	ctx := context.Background()
	key := cache.ToolCacheKey(id)

	var tool *domain.Tool
	err := s.cacheManager.ReadThrough(ctx, key, &tool, func() (interface{}, error) {
		return s.toolService.GetToolByID(id)
	}, cache.LongExpiration)

	if err != nil {
		s.logger.Error("Cache read-through hatası", map[string]interface{}{
			"tool_id": id,
			"error":   err.Error(),
		})
		// Fallback to direct service call
		return s.toolService.GetToolByID(id)
	}

	return tool, nil
}

func (s *CachedToolService) GetTools() ([]*domain.Tool, error) {
	ctx := context.Background()

	var tools []*domain.Tool
	err := s.cacheManager.ReadThrough(ctx, cache.ToolListKey, &tools, func() (interface{}, error) {
		return s.toolService.GetTools()
	}, cache.MediumExpiration)

	if err != nil {
		s.logger.Error("Cache read-through hatası", map[string]interface{}{"error": err.Error()})
		return s.toolService.GetTools()
	}

	return tools, nil
}

func (s *CachedToolService) GetFeaturedTools() ([]*domain.Tool, error) {
	ctx := context.Background()

	var tools []*domain.Tool
	err := s.cacheManager.ReadThrough(ctx, cache.ToolFeaturedKey, &tools, func() (interface{}, error) {
		return s.toolService.GetFeaturedTools()
	}, cache.MediumExpiration)

	if err != nil {
		s.logger.Error("Cache read-through hatası", map[string]interface{}{"error": err.Error()})
		return s.toolService.GetFeaturedTools()
	}

	return tools, nil
}

// GetTrendingTools caches per limit with a short TTL; a stale ranking is
// acceptable for the expiration window, a wrong one is not, so every
// rating write invalidates the trending keys.
func (s *CachedToolService) GetTrendingTools(limit int) ([]*domain.TrendingTool, error) {
	if limit <= 0 {
		limit = domain.DefaultTrendingLimit
	}

	ctx := context.Background()
	key := cache.TrendingCacheKey(limit)

	var tools []*domain.TrendingTool
	err := s.cacheManager.ReadThrough(ctx, key, &tools, func() (interface{}, error) {
		return s.toolService.GetTrendingTools(limit)
	}, cache.ShortExpiration)

	if err != nil {
		s.logger.Error("Cache read-through hatası", map[string]interface{}{
			"limit": limit,
			"error": err.Error(),
		})
		return s.toolService.GetTrendingTools(limit)
	}

	return tools, nil
}

func (s *CachedToolService) CreateTool(tool *domain.Tool) error {
	if err := s.toolService.CreateTool(tool); err != nil {
		return err
	}

	ctx := context.Background()
	if cacheErr := cache.InvalidateToolCache(ctx, s.cache, tool.ID); cacheErr != nil {
		s.logger.Error("Tool cache invalidation hatası", map[string]interface{}{
			"tool_id": tool.ID,
			"error":   cacheErr.Error(),
		})
	}

	return nil
}

func (s *CachedToolService) UpdateTool(tool *domain.Tool) error {
	if err := s.toolService.UpdateTool(tool); err != nil {
		return err
	}

	ctx := context.Background()
	if cacheErr := cache.InvalidateToolCache(ctx, s.cache, tool.ID); cacheErr != nil {
		s.logger.Error("Tool cache invalidation hatası", map[string]interface{}{
			"tool_id": tool.ID,
			"error":   cacheErr.Error(),
		})
	}

	return nil
}

func (s *CachedToolService) DeleteTool(id int64) error {
	if err := s.toolService.DeleteTool(id); err != nil {
		return err
	}

	ctx := context.Background()
	if cacheErr := cache.InvalidateToolCache(ctx, s.cache, id); cacheErr != nil {
		s.logger.Error("Tool cache invalidation hatası", map[string]interface{}{
			"tool_id": id,
			"error":   cacheErr.Error(),
		})
	}

	return nil
}
