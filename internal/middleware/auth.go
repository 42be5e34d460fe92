package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"campus-complaints-api/internal/auth"
	"campus-complaints-api/internal/model"
)

type ctxKey string

const userKey ctxKey = "user"

// AuthUser is the authenticated caller placed on the request context.
type AuthUser struct {
	ComputerNumber string
	Role           model.Role
}

// Auth validates the bearer token (or the access_token cookie the login
// endpoint sets for browsers) and attaches the caller to the context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			if h := r.Header.Get("Authorization"); h != "" {
				raw = strings.TrimPrefix(h, "Bearer ")
			} else if c, err := r.Cookie("access_token"); err == nil {
				raw = c.Value
			}

			if raw == "" {
				unauthorized(w, "no token")
				return
			}

			claims, err := auth.ParseToken(raw, secret)
			if err != nil {
				unauthorized(w, "bad token")
				return
			}

			u := AuthUser{ComputerNumber: claims.ComputerNumber, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
		})
	}
}

// RequireAdmin guards the admin subtree. Must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r.Context())
		if !ok || u.Role != model.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Access denied"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom returns the authenticated caller set by Auth.
func UserFrom(ctx context.Context) (AuthUser, bool) {
	u, ok := ctx.Value(userKey).(AuthUser)
	return u, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
