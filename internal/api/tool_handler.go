package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"toolhub/internal/api/middleware"
	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type ToolHandler struct {
	service     domain.ToolService
	authService domain.AuthService
	logger      logger.Logger
}

func NewToolHandler(service domain.ToolService, authService domain.AuthService, logger logger.Logger) *ToolHandler {
	return &ToolHandler{
		service:     service,
		authService: authService,
		logger:      logger,
	}
}

func (h *ToolHandler) GetTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.service.GetTools()
	if err != nil {
		h.logger.Error("Araç listesi hatası", map[string]interface{}{"error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tools)
}

func (h *ToolHandler) GetToolByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	tool, err := h.service.GetToolByID(id)
	if err != nil {
		h.logger.Error("Araç bulunamadı", map[string]interface{}{"id": id, "error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) GetFeaturedTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.service.GetFeaturedTools()
	if err != nil {
		h.logger.Error("Öne çıkan araçlar hatası", map[string]interface{}{"error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tools)
}

func (h *ToolHandler) GetTrendingTools(w http.ResponseWriter, r *http.Request) {
	limit := domain.DefaultTrendingLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			writeError(w, domain.ErrValidation)
			return
		}
		limit = parsed
	}

	tools, err := h.service.GetTrendingTools(limit)
	if err != nil {
		h.logger.Error("Trend araçlar hatası", map[string]interface{}{"error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tools)
}

func (h *ToolHandler) CreateTool(w http.ResponseWriter, r *http.Request) {
	var tool domain.Tool

	if err := json.NewDecoder(r.Body).Decode(&tool); err != nil {
		h.logger.Error("İstek gövdesi decode edilemedi", map[string]interface{}{"error": err.Error()})
		writeError(w, domain.ErrValidation)
		return
	}

	if err := h.service.CreateTool(&tool); err != nil {
		h.logger.Error("Araç oluşturma hatası", map[string]interface{}{"error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tool)
}

func (h *ToolHandler) UpdateTool(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var tool domain.Tool
	if err := json.NewDecoder(r.Body).Decode(&tool); err != nil {
		h.logger.Error("İstek gövdesi decode edilemedi", map[string]interface{}{"error": err.Error()})
		writeError(w, domain.ErrValidation)
		return
	}
	tool.ID = id

	if err := h.service.UpdateTool(&tool); err != nil {
		h.logger.Error("Araç güncelleme hatası", map[string]interface{}{"id": id, "error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) DeleteTool(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteTool(id); err != nil {
		h.logger.Error("Araç silme hatası", map[string]interface{}{"id": id, "error": err.Error()})
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ToolHandler) RegisterRoutes(mux *http.ServeMux) {
	adminOnly := middleware.RequireRole(h.authService, domain.RoleAdmin)

	mux.HandleFunc("GET /api/tools", h.GetTools)
	mux.HandleFunc("GET /api/tools/featured", h.GetFeaturedTools)
	mux.HandleFunc("GET /api/tools/trending", h.GetTrendingTools)
	mux.HandleFunc("GET /api/tools/{id}", h.GetToolByID)
	mux.Handle("POST /api/tools", adminOnly(http.HandlerFunc(h.CreateTool)))
	mux.Handle("PUT /api/tools/{id}", adminOnly(http.HandlerFunc(h.UpdateTool)))
	mux.Handle("DELETE /api/tools/{id}", adminOnly(http.HandlerFunc(h.DeleteTool)))
}
