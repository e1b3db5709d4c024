// File: internal/middleware/constants.go
package middleware

import (
	"context"

	"github.com/iyunix/go-legalist/internal/domain"
)

// Context keys for middleware communication
type contextKey string

const (
	UserIDKey contextKey = "user_id"
	UserKey   contextKey = "user"
)

// AuthCookieName is the cookie browsers may carry the access token in.
const AuthCookieName = "auth_token"

// WithUser stores the authenticated user on ctx.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	ctx = context.WithValue(ctx, UserKey, u)
	return context.WithValue(ctx, UserIDKey, u.ID)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok && u != nil
}

// UserIDFromContext returns the authenticated user's ID, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok && id != 0
}

// OptionalUserID is nil for guests.
func OptionalUserID(ctx context.Context) *uint {
	if id, ok := UserIDFromContext(ctx); ok {
		return &id
	}
	return nil
}
