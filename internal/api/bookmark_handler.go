package api

import (
	"net/http"

	"toolhub/internal/api/middleware"
	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type BookmarkHandler struct {
	service     domain.BookmarkService
	authService domain.AuthService
	logger      logger.Logger
}

func NewBookmarkHandler(service domain.BookmarkService, authService domain.AuthService, logger logger.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		service:     service,
		authService: authService,
		logger:      logger,
	}
}

// AddBookmark saves the tool for the caller. A repeat of an existing
// bookmark returns 200 instead of 201; neither case is an error.
func (h *BookmarkHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	toolID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, domain.ErrInvalidToken)
		return
	}

	created, err := h.service.AddBookmark(principal.UserID, toolID)
	if err != nil {
		h.logger.Error("Bookmark ekleme hatası", map[string]interface{}{
			"tool_id": toolID,
			"user_id": principal.UserID,
			"error":   err.Error(),
		})
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	writeJSON(w, status, map[string]interface{}{
		"tool_id":    toolID,
		"bookmarked": true,
		"created":    created,
	})
}

func (h *BookmarkHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	toolID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, domain.ErrInvalidToken)
		return
	}

	removed, err := h.service.RemoveBookmark(principal.UserID, toolID)
	if err != nil {
		h.logger.Error("Bookmark silme hatası", map[string]interface{}{
			"tool_id": toolID,
			"user_id": principal.UserID,
			"error":   err.Error(),
		})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tool_id":    toolID,
		"bookmarked": false,
		"removed":    removed,
	})
}

func (h *BookmarkHandler) CheckBookmark(w http.ResponseWriter, r *http.Request) {
	toolID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, domain.ErrInvalidToken)
		return
	}

	bookmarked, err := h.service.IsBookmarked(principal.UserID, toolID)
	if err != nil {
		h.logger.Error("Bookmark kontrol hatası", map[string]interface{}{
			"tool_id": toolID,
			"user_id": principal.UserID,
			"error":   err.Error(),
		})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tool_id":    toolID,
		"bookmarked": bookmarked,
	})
}

func (h *BookmarkHandler) GetBookmarkedTools(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, domain.ErrInvalidToken)
		return
	}

	tools, err := h.service.GetBookmarkedTools(principal.UserID)
	if err != nil {
		h.logger.Error("Bookmark listesi hatası", map[string]interface{}{
			"user_id": principal.UserID,
			"error":   err.Error(),
		})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tools)
}

func (h *BookmarkHandler) RegisterRoutes(mux *http.ServeMux) {
	authed := middleware.RequireAuth(h.authService)

	mux.Handle("POST /api/tools/{id}/bookmark", authed(http.HandlerFunc(h.AddBookmark)))
	mux.Handle("DELETE /api/tools/{id}/bookmark", authed(http.HandlerFunc(h.RemoveBookmark)))
	mux.Handle("GET /api/tools/{id}/bookmark", authed(http.HandlerFunc(h.CheckBookmark)))
	mux.Handle("GET /api/bookmarks", authed(http.HandlerFunc(h.GetBookmarkedTools)))
}
