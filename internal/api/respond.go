package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"toolhub/internal/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps domain sentinel errors onto stable error codes so
// clients can branch on the code instead of parsing Turkish messages.
func writeError(w http.ResponseWriter, err error) {
	var code string
	var status int

	switch {
	case errors.Is(err, domain.ErrValidation):
		code, status = "validation_error", http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthentication):
		code, status = "authentication_error", http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidToken):
		code, status = "invalid_token", http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		code, status = "forbidden", http.StatusForbidden
	case errors.Is(err, domain.ErrToolNotFound), errors.Is(err, domain.ErrUserNotFound):
		code, status = "not_found", http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		code, status = "validation_error", http.StatusConflict
	default:
		code, status = "persistence_error", http.StatusInternalServerError
	}

	writeJSON(w, status, errorResponse{Error: code, Message: err.Error()})
}

func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, domain.ErrValidation
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation
	}

	return id, nil
}
