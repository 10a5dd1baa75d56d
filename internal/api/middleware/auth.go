package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"toolhub/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFromContext returns the identity placed by RequireAuth, or nil
// when the request never passed through it.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	principal, _ := ctx.Value(principalKey).(*domain.Principal)
	return principal
}

// RequireAuth validates the Bearer token and stores the resulting
// principal in the request context. No database access happens here; the
// signature is the whole proof.
func RequireAuth(authService domain.AuthService) func(http.Handler) http.Handler {
	return requireRole(authService, "")
}

// RequireRole is RequireAuth plus a role check against the signed payload.
func RequireRole(authService domain.AuthService, role string) func(http.Handler) http.Handler {
	return requireRole(authService, role)
}

func requireRole(authService domain.AuthService, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "invalid_token", "Authorization başlığı eksik veya hatalı")
				return
			}

			principal, err := authService.Authorize(token, role)
			if err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					writeAuthError(w, http.StatusForbidden, "forbidden", err.Error())
					return
				}
				writeAuthError(w, http.StatusUnauthorized, "invalid_token", err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
