package api

import (
	"fmt"
	"net/http"
	"strconv"

	"toolhub/internal/api/middleware"
	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type AuditLogHandler struct {
	service     domain.AuditLogService
	authService domain.AuthService
	logger      logger.Logger
}

func NewAuditLogHandler(service domain.AuditLogService, authService domain.AuthService, logger logger.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service:     service,
		authService: authService,
		logger:      logger,
	}
}

func (h *AuditLogHandler) GetAllLogs(w http.ResponseWriter, r *http.Request) {
	pageStr := r.URL.Query().Get("page")
	pageSizeStr := r.URL.Query().Get("page_size")

	page := 1
	pageSize := 50

	var err error
	if pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			h.logger.Error("Geçersiz sayfa numarası", map[string]interface{}{"page": pageStr})
			writeError(w, fmt.Errorf("%w: geçersiz sayfa numarası", domain.ErrValidation))
			return
		}
	}

	if pageSizeStr != "" {
		pageSize, err = strconv.Atoi(pageSizeStr)
		if err != nil || pageSize < 1 || pageSize > 100 {
			h.logger.Error("Geçersiz sayfa boyutu", map[string]interface{}{"page_size": pageSizeStr})
			writeError(w, fmt.Errorf("%w: sayfa boyutu 1-100 arası olmalı", domain.ErrValidation))
			return
		}
	}

	logs, err := h.service.GetAllLogs(page, pageSize)
	if err != nil {
		h.logger.Error("Denetim günlükleri alınamadı", map[string]interface{}{"error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

func (h *AuditLogHandler) GetEntityLogs(w http.ResponseWriter, r *http.Request) {
	entityTypeStr := r.URL.Query().Get("entity_type")
	entityIDStr := r.URL.Query().Get("entity_id")

	if entityTypeStr == "" {
		writeError(w, fmt.Errorf("%w: entity_type parametresi eksik", domain.ErrValidation))
		return
	}

	if entityIDStr == "" {
		writeError(w, fmt.Errorf("%w: entity_id parametresi eksik", domain.ErrValidation))
		return
	}

	entityType := domain.EntityType(entityTypeStr)
	switch entityType {
	case domain.EntityTypeUser, domain.EntityTypeTool, domain.EntityTypeRating, domain.EntityTypeBookmark:
	default:
		h.logger.Error("Geçersiz entity_type", map[string]interface{}{"entity_type": entityTypeStr})
		writeError(w, fmt.Errorf("%w: geçersiz entity_type, geçerli değerler: user, tool, rating, bookmark", domain.ErrValidation))
		return
	}

	entityID, err := strconv.ParseInt(entityIDStr, 10, 64)
	if err != nil {
		h.logger.Error("Geçersiz entity_id formatı", map[string]interface{}{"error": err.Error()})
		writeError(w, fmt.Errorf("%w: geçersiz entity_id formatı", domain.ErrValidation))
		return
	}

	logs, err := h.service.GetEntityLogs(entityType, entityID)
	if err != nil {
		h.logger.Error("Varlık denetim günlükleri alınamadı", map[string]interface{}{
			"entity_type": entityType,
			"entity_id":   entityID,
			"error":       err.Error(),
		})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

func (h *AuditLogHandler) RegisterRoutes(mux *http.ServeMux) {
	adminOnly := middleware.RequireRole(h.authService, domain.RoleAdmin)

	mux.Handle("GET /api/audit-logs", adminOnly(http.HandlerFunc(h.GetAllLogs)))
	mux.Handle("GET /api/entity-logs", adminOnly(http.HandlerFunc(h.GetEntityLogs)))
}
