package api

import (
	"encoding/json"
	"net/http"

	"toolhub/internal/api/middleware"
	"toolhub/internal/domain"
	"toolhub/pkg/logger"
)

type UserHandler struct {
	service     domain.UserService
	authService domain.AuthService
	logger      logger.Logger
}

func NewUserHandler(service domain.UserService, authService domain.AuthService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		service:     service,
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("İstek gövdesi decode edilemedi", map[string]interface{}{"error": err.Error()})
		writeError(w, domain.ErrValidation)
		return
	}

	user, err := h.service.RegisterUser(req.Username, req.Email, req.Password, req.City)
	if err != nil {
		h.logger.Error("Kullanıcı kaydı hatası", map[string]interface{}{"error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetUsers()
	if err != nil {
		h.logger.Error("Kullanıcı listesi hatası", map[string]interface{}{"error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.GetUserByID(id)
	if err != nil {
		h.logger.Error("Kullanıcı bulunamadı", map[string]interface{}{"id": id, "error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteUser(id); err != nil {
		h.logger.Error("Kullanıcı silme hatası", map[string]interface{}{"id": id, "error": err.Error()})
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the profile of the token's owner.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, domain.ErrInvalidToken)
		return
	}

	user, err := h.service.GetUserByID(principal.UserID)
	if err != nil {
		h.logger.Error("Profil hatası", map[string]interface{}{"user_id": principal.UserID, "error": err.Error()})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) RegisterRoutes(mux *http.ServeMux) {
	authed := middleware.RequireAuth(h.authService)
	adminOnly := middleware.RequireRole(h.authService, domain.RoleAdmin)

	mux.HandleFunc("POST /api/users", h.Register)
	mux.Handle("GET /api/users/me", authed(http.HandlerFunc(h.Me)))
	mux.Handle("GET /api/users", adminOnly(http.HandlerFunc(h.GetUsers)))
	mux.Handle("GET /api/users/{id}", adminOnly(http.HandlerFunc(h.GetUserByID)))
	mux.Handle("DELETE /api/users/{id}", adminOnly(http.HandlerFunc(h.DeleteUser)))
}
