package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
	"github.com/dropDatabas3/authkit/internal/i18n"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	"github.com/dropDatabas3/authkit/internal/security/authz"
)

// errorResponse controla exactamente qué campos se envían al cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe la respuesta en inglés. Acepta *AppError o cualquier error.
func WriteError(w http.ResponseWriter, err error) {
	write(w, FromError(err))
}

// Write escribe la respuesta en el idioma del request y loguea los 5xx.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("request failed",
			logger.String("code", appErr.Code), logger.Err(appErr.Unwrap()))
	}
	write(w, appErr.Localize(i18n.Detect(r)))
}

func write(w http.ResponseWriter, appErr *AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

// FromError convierte un error en AppError. Reconoce los sentinels de las
// capas compartidas (jwt, authz, repository, providers); el resto termina en 500
// conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	switch {
	case stderrors.Is(err, jwtx.ErrTokenExpired):
		return ErrTokenExpired.WithCause(err)
	case stderrors.Is(err, jwtx.ErrTokenContextMismatch):
		return ErrTokenContextMismatch.WithCause(err)
	case stderrors.Is(err, jwtx.ErrTokenSignatureInvalid):
		return ErrTokenInvalid.WithCause(err)
	case stderrors.Is(err, jwtx.ErrResetTokenInvalid):
		return ErrInvalidResetToken.WithCause(err)
	case stderrors.Is(err, authz.ErrPermissionDenied):
		return ErrForbidden.WithCause(err)
	case stderrors.Is(err, repository.ErrNotFound):
		return ErrNotFound.WithCause(err)
	case stderrors.Is(err, repository.ErrConflict):
		return ErrEmailTaken.WithCause(err)
	case stderrors.Is(err, repository.ErrInvalidInput):
		return ErrInvalidFormat.WithCause(err)
	case stderrors.Is(err, providers.ErrEmailUnverified):
		return ErrEmailUnverified.WithCause(err)
	case stderrors.Is(err, providers.ErrEmailMissing):
		return ErrEmailUnverified.WithCause(err)
	case stderrors.Is(err, providers.ErrIDTokenInvalid):
		return ErrTokenInvalid.WithCause(err)
	case stderrors.Is(err, providers.ErrExchangeFailed),
		stderrors.Is(err, providers.ErrUserInfoFailed):
		return ErrProviderFailed.WithCause(err)
	case stderrors.Is(err, providers.ErrNotConfigured):
		return ErrProviderNotEnabled.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}
