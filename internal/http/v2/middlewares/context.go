package middlewares

import (
	"context"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
)

type ctxKey string

const (
	ctxUserKey      ctxKey = "user"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithUser inyecta el usuario autenticado en el contexto.
func WithUser(ctx context.Context, u *repository.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

// CurrentUser obtiene el usuario autenticado.
// Retorna nil si la ruta no pasó por RequireAuth.
func CurrentUser(ctx context.Context) *repository.User {
	if u, ok := ctx.Value(ctxUserKey).(*repository.User); ok {
		return u
	}
	return nil
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return s
	}
	return ""
}
