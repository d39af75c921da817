package contextutil

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is private so keys cannot collide with other packages.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	nameKey      contextKey = "name"
	roleKey      contextKey = "role"
	loggerKey    contextKey = "logger"
)

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

func GetUserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKey).(string); ok {
		return uid
	}
	return ""
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, falling back to defaultLogger
// and then to a nop logger so callers never receive nil.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}

	if defaultLogger != nil {
		return defaultLogger
	}

	return zap.NewNop()
}

// Identity is the authenticated session identity carried through a request:
// created on login, populated by the auth middleware, torn down on logout.
type Identity struct {
	UserID string
	Name   string
	Role   string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = WithUserID(ctx, id.UserID)
	ctx = context.WithValue(ctx, nameKey, id.Name)
	return WithRole(ctx, id.Role)
}

// GetIdentity reports the session identity and whether one is present.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id := Identity{
		UserID: GetUserID(ctx),
		Role:   GetRole(ctx),
	}
	if name, ok := ctx.Value(nameKey).(string); ok {
		id.Name = name
	}
	return id, id.UserID != ""
}
