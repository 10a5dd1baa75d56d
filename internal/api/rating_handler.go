package api

import (
	"encoding/json"
	"net/http"

	"toolhub/internal/api/middleware"
	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type RatingHandler struct {
	service     domain.RatingService
	authService domain.AuthService
	logger      logger.Logger
}

func NewRatingHandler(service domain.RatingService, authService domain.AuthService, logger logger.Logger) *RatingHandler {
	return &RatingHandler{
		service:     service,
		authService: authService,
		logger:      logger,
	}
}

type submitRatingRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// SubmitRating records the caller's rating for the tool in the path. The
// user id comes from the token, never from the body.
func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
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

	var req submitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("İstek gövdesi decode edilemedi", map[string]interface{}{"error": err.Error()})
		writeError(w, domain.ErrValidation)
		return
	}

	rating, err := h.service.SubmitRating(toolID, principal.UserID, req.Score, req.Comment)
	if err != nil {
		h.logger.Error("Değerlendirme hatası", map[string]interface{}{
			"tool_id": toolID,
			"user_id": principal.UserID,
			"error":   err.Error(),
		})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rating)
}

func (h *RatingHandler) GetRatingsByTool(w http.ResponseWriter, r *http.Request) {
	toolID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	ratings, err := h.service.GetRatingsByTool(toolID)
	if err != nil {
		h.logger.Error("Değerlendirme listesi hatası", map[string]interface{}{"tool_id": toolID, "error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ratings)
}

func (h *RatingHandler) GetAverageForTool(w http.ResponseWriter, r *http.Request) {
	toolID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	average, err := h.service.GetAverageForTool(toolID)
	if err != nil {
		h.logger.Error("Ortalama hatası", map[string]interface{}{"tool_id": toolID, "error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tool_id": toolID,
		"average": average,
	})
}

func (h *RatingHandler) RegisterRoutes(mux *http.ServeMux) {
	authed := middleware.RequireAuth(h.authService)

	mux.Handle("POST /api/tools/{id}/ratings", authed(http.HandlerFunc(h.SubmitRating)))
	mux.HandleFunc("GET /api/tools/{id}/ratings", h.GetRatingsByTool)
	mux.HandleFunc("GET /api/tools/{id}/ratings/average", h.GetAverageForTool)
}
