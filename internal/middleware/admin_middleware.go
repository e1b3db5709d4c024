// File: internal/middleware/admin_middleware.go
package middleware

import (
	"net/http"
)

// RequireAdmin checks that the authenticated user has admin privileges.
// It must be used after RequireAuth.
func RequireAdmin(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w, "Not authenticated")
				return
			}
			if !u.IsAdmin {
				logger.Warn("non-admin user attempted admin route", "user_id", u.ID, "path", r.URL.Path)
				writeJSONError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
