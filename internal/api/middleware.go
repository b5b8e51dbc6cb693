// Package api implements the daylink REST API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/hanlee/daylink/internal/auth"
)

// AuthMiddleware returns middleware that establishes the request identity.
// With enabled false every request acts as userID (single-user deployments).
// With enabled true requests must carry "Authorization: Bearer <token>"; a
// valid token maps to userID, anything else is rejected before the handlers.
func AuthMiddleware(enabled bool, token, userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), userID)))
				return
			}
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") != token {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), userID)))
		})
	}
}
