package cache

import (
	"context"
	"fmt"
	"sync"

	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

// WarmUpManager handles cache warming strategies
type WarmUpManager struct {
	cache         Cache
	logger        logger.Logger
	toolService   domain.ToolService
	ratingService domain.RatingService
}

func NewWarmUpManager(
	cache Cache,
	logger logger.Logger,
	toolService domain.ToolService,
	ratingService domain.RatingService,
) *WarmUpManager {
	return &WarmUpManager{
		cache:         cache,
		logger:        logger,
		toolService:   toolService,
		ratingService: ratingService,
	}
}

// WarmUpCatalog primes the read-heavy catalog views: the tool list, the
// featured set and the default trending ranking.
func (w *WarmUpManager) WarmUpCatalog(ctx context.Context) error {
	w.logger.Info("Katalog warm-up başlatılıyor", map[string]interface{}{})

	var wg sync.WaitGroup
	errChan := make(chan error, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		tools, err := w.toolService.GetTools()
		if err != nil {
			errChan <- fmt.Errorf("tool list warm-up hatası: %w", err)
			return
		}
		if err := w.cache.Set(ctx, ToolListKey, tools, MediumExpiration); err != nil {
			errChan <- fmt.Errorf("tool list warm-up hatası: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		featured, err := w.toolService.GetFeaturedTools()
		if err != nil {
			errChan <- fmt.Errorf("featured warm-up hatası: %w", err)
			return
		}
		if err := w.cache.Set(ctx, ToolFeaturedKey, featured, MediumExpiration); err != nil {
			errChan <- fmt.Errorf("featured warm-up hatası: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		trending, err := w.toolService.GetTrendingTools(domain.DefaultTrendingLimit)
		if err != nil {
			errChan <- fmt.Errorf("trending warm-up hatası: %w", err)
			return
		}
		if err := w.cache.Set(ctx, TrendingCacheKey(domain.DefaultTrendingLimit), trending, ShortExpiration); err != nil {
			errChan <- fmt.Errorf("trending warm-up hatası: %w", err)
		}
	}()

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			w.logger.Error("Warm-up hatası", map[string]interface{}{"error": err.Error()})
			return err
		}
	}

	w.logger.Info("Katalog warm-up tamamlandı", map[string]interface{}{})
	return nil
}

// WarmUpTool primes a single tool's record, its rating average and its
// rating list.
func (w *WarmUpManager) WarmUpTool(ctx context.Context, toolID int64) error {
	tool, err := w.toolService.GetToolByID(toolID)
	if err != nil {
		return fmt.Errorf("tool warm-up hatası: %w", err)
	}
	if err := w.cache.Set(ctx, ToolCacheKey(toolID), tool, LongExpiration); err != nil {
		return fmt.Errorf("tool warm-up hatası: %w", err)
	}

	avg, err := w.ratingService.GetAverageForTool(toolID)
	if err != nil {
		return fmt.Errorf("rating average warm-up hatası: %w", err)
	}
	if err := w.cache.Set(ctx, RatingAverageCacheKey(toolID), avg, ShortExpiration); err != nil {
		return fmt.Errorf("rating average warm-up hatası: %w", err)
	}

	ratings, err := w.ratingService.GetRatingsByTool(toolID)
	if err != nil {
		return fmt.Errorf("rating list warm-up hatası: %w", err)
	}
	if err := w.cache.Set(ctx, RatingsByToolCacheKey(toolID), ratings, ShortExpiration); err != nil {
		return fmt.Errorf("rating list warm-up hatası: %w", err)
	}

	return nil
}

// WarmUpTools warms a batch of tools with bounded concurrency.
func (w *WarmUpManager) WarmUpTools(ctx context.Context, toolIDs []int64) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 5)

	for _, id := range toolIDs {
		wg.Add(1)
		go func(toolID int64) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := w.WarmUpTool(ctx, toolID); err != nil {
				w.logger.Error("Tool warm-up hatası", map[string]interface{}{
					"tool_id": toolID,
					"error":   err.Error(),
				})
			}
		}(id)
	}

	wg.Wait()
}
