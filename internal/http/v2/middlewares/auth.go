package middlewares

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/http/v2/errors"
	authsvc "github.com/dropDatabas3/authkit/internal/http/v2/services/auth"
	"github.com/dropDatabas3/authkit/internal/i18n"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	"github.com/dropDatabas3/authkit/internal/security/authz"
)

// UserResolver resuelve el usuario dueño de un access token.
type UserResolver interface {
	CurrentUser(ctx context.Context, accessToken string) (*repository.User, error)
}

// BearerToken extrae el token de "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RequireAuth valida el access token y guarda el usuario en el contexto.
// También fija el idioma de las respuestas al del usuario.
func RequireAuth(resolver UserResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := BearerToken(r)
			if tok == "" {
				w.Header().Set("WWW-Authenticate", `Bearer`)
				errors.Write(w, r, errors.ErrUnauthorized)
				return
			}

			u, err := resolver.CurrentUser(r.Context(), tok)
			if err != nil {
				if stderrors.Is(err, authsvc.ErrNotFound) {
					errors.Write(w, r, errors.ErrNotFound.WithDetail("user not found").WithCause(err))
					return
				}
				errors.Write(w, r, err)
				return
			}

			ctx := WithUser(r.Context(), u)
			ctx = i18n.WithLanguage(ctx, string(u.Language))
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(u.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin exige rol admin. Debe ir después de RequireAuth.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz.RequireAdmin(CurrentUser(r.Context())); err != nil {
				errors.Write(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
