// Package ctxutil carries the authenticated caller and request id through
// request contexts.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	userRoleKey
	requestIDKey
)

// WithIdentity stores the caller's user id and role.
func WithIdentity(ctx context.Context, id uuid.UUID, role domain.UserRole) context.Context {
	return WithUserRole(WithUserID(ctx, id), role)
}

// WithUserID stores the user ID in the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx extracts the user ID from the context.
// Returns uuid.Nil and false if the value is missing or nil.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithUserRole stores the caller's role in the context.
func WithUserRole(ctx context.Context, role domain.UserRole) context.Context {
	return context.WithValue(ctx, userRoleKey, role)
}

// UserRoleFromCtx extracts the caller's role. Returns an empty role if absent.
func UserRoleFromCtx(ctx context.Context) domain.UserRole {
	role, _ := ctx.Value(userRoleKey).(domain.UserRole)
	return role
}

// IsAdminCtx reports whether the caller has the admin role.
func IsAdminCtx(ctx context.Context) bool {
	return UserRoleFromCtx(ctx).IsAdmin()
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// LogAttrs returns request_id and user_id for log lines, omitting the ones
// ctx does not carry.
func LogAttrs(ctx context.Context) []slog.Attr {
	attrs := make([]slog.Attr, 0, 2)
	if id := RequestIDFromCtx(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if id, ok := UserIDFromCtx(ctx); ok {
		attrs = append(attrs, slog.String("user_id", id.String()))
	}
	return attrs
}
