package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"toolhub/internal/api/middleware"
	"toolhub/internal/domain"
	"toolhub/pkg/cache"
	"toolhub/pkg/logger"
)

type CacheHandler struct {
	cache         cache.Cache
	warmUpManager *cache.WarmUpManager
	authService   domain.AuthService
	logger        logger.Logger
}

type CacheStatsResponse struct {
	CacheType  string                 `json:"cache_type"`
	TotalKeys  int                    `json:"total_keys"`
	CacheStats map[string]interface{} `json:"cache_stats"`
	Timestamp  time.Time              `json:"timestamp"`
}

type WarmUpRequest struct {
	Type    string  `json:"type"` // "catalog", "tool", "tools"
	ToolID  *int64  `json:"tool_id,omitempty"`
	ToolIDs []int64 `json:"tool_ids,omitempty"`
}

type CacheInvalidateRequest struct {
	Pattern *string  `json:"pattern,omitempty"`
	Keys    []string `json:"keys,omitempty"`
	ToolID  *int64   `json:"tool_id,omitempty"`
}

func NewCacheHandler(cache cache.Cache, warmUpManager *cache.WarmUpManager, authService domain.AuthService, logger logger.Logger) *CacheHandler {
	return &CacheHandler{
		cache:         cache,
		warmUpManager: warmUpManager,
		authService:   authService,
		logger:        logger,
	}
}

func (h *CacheHandler) RegisterRoutes(mux *http.ServeMux) {
	adminOnly := middleware.RequireRole(h.authService, domain.RoleAdmin)

	mux.Handle("GET /api/cache/stats", adminOnly(http.HandlerFunc(h.handleCacheStats)))
	mux.Handle("POST /api/cache/warmup", adminOnly(http.HandlerFunc(h.handleWarmUp)))
	mux.Handle("POST /api/cache/invalidate", adminOnly(http.HandlerFunc(h.handleInvalidate)))
	mux.Handle("GET /api/cache/keys", adminOnly(http.HandlerFunc(h.handleKeys)))
	mux.HandleFunc("GET /api/cache/health", h.handleHealth)
}

func (h *CacheHandler) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()

	keys, err := h.cache.GetKeys(ctx, "*")
	if err != nil {
		h.logger.Error("Cache keys alınamadı", map[string]interface{}{"error": err.Error()})
		http.Error(w, "Cache stats could not be retrieved", http.StatusInternalServerError)
		return
	}

	stats := CacheStatsResponse{
		CacheType: "Redis",
		TotalKeys: len(keys),
		CacheStats: map[string]interface{}{
			"tool_keys":     countKeysByPrefix(keys, "tool:"),
			"rating_keys":   countKeysByPrefix(keys, "rating:"),
			"bookmark_keys": countKeysByPrefix(keys, "bookmark:"),
		},
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *CacheHandler) handleWarmUp(w http.ResponseWriter, r *http.Request) {
	var req WarmUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	var err error

	switch req.Type {
	case "catalog":
		err = h.warmUpManager.WarmUpCatalog(ctx)

	case "tool":
		if req.ToolID == nil {
			http.Error(w, "tool_id is required for tool warm-up", http.StatusBadRequest)
			return
		}
		err = h.warmUpManager.WarmUpTool(ctx, *req.ToolID)

	case "tools":
		if len(req.ToolIDs) == 0 {
			http.Error(w, "tool_ids is required for tools warm-up", http.StatusBadRequest)
			return
		}
		h.warmUpManager.WarmUpTools(ctx, req.ToolIDs)

	default:
		http.Error(w, "Invalid warm-up type. Use: catalog, tool, tools", http.StatusBadRequest)
		return
	}

	if err != nil {
		h.logger.Error("Cache warm-up hatası", map[string]interface{}{
			"type":  req.Type,
			"error": err.Error(),
		})
		http.Error(w, fmt.Sprintf("Warm-up failed: %v", err), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status":    "success",
		"type":      req.Type,
		"timestamp": time.Now(),
	}

	if req.ToolID != nil {
		response["tool_id"] = *req.ToolID
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *CacheHandler) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var req CacheInvalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	var err error
	var deletedCount int

	if req.Pattern != nil {
		// Delete by pattern
		keys, getErr := h.cache.GetKeys(ctx, *req.Pattern)
		if getErr != nil {
			http.Error(w, fmt.Sprintf("Error getting keys: %v", getErr), http.StatusInternalServerError)
			return
		}
		deletedCount = len(keys)
		err = h.cache.DeletePattern(ctx, *req.Pattern)

	} else if len(req.Keys) > 0 {
		// Delete specific keys
		deletedCount = len(req.Keys)
		err = h.cache.DeleteMultiple(ctx, req.Keys)

	} else if req.ToolID != nil {
		err = cache.InvalidateToolCache(ctx, h.cache, *req.ToolID)
		if err == nil {
			deletedCount = 4 // Approximate number of tool-related keys
		}

	} else {
		http.Error(w, "Either pattern, keys, or tool_id must be provided", http.StatusBadRequest)
		return
	}

	if err != nil {
		h.logger.Error("Cache invalidation hatası", map[string]interface{}{"error": err.Error()})
		http.Error(w, fmt.Sprintf("Cache invalidation failed: %v", err), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status":        "success",
		"deleted_count": deletedCount,
		"timestamp":     time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *CacheHandler) handleKeys(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		pattern = "*"
	}

	limitStr := r.URL.Query().Get("limit")
	limit := 100 // Default limit
	if limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	ctx := context.Background()
	keys, err := h.cache.GetKeys(ctx, pattern)
	if err != nil {
		h.logger.Error("Cache keys alınamadı", map[string]interface{}{
			"pattern": pattern,
			"error":   err.Error(),
		})
		http.Error(w, "Error retrieving cache keys", http.StatusInternalServerError)
		return
	}

	// Apply limit
	if len(keys) > limit {
		keys = keys[:limit]
	}

	response := map[string]interface{}{
		"keys":      keys,
		"count":     len(keys),
		"pattern":   pattern,
		"limit":     limit,
		"timestamp": time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *CacheHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()
	err := h.cache.Ping(ctx)

	response := map[string]interface{}{
		"timestamp": time.Now(),
	}

	if err != nil {
		response["status"] = "unhealthy"
		response["error"] = err.Error()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(response)
		return
	}

	response["status"] = "healthy"
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Helper function to count keys by prefix
func countKeysByPrefix(keys []string, prefix string) int {
	count := 0
	for _, key := range keys {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			count++
		}
	}
	return count
}
