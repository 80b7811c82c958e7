package errors

import (
	"fmt"
	"net/http"

	"github.com/dropDatabas3/authkit/internal/i18n"
)

// AppError define la estructura estándar para errores de la API.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // Causa original, sólo para logs
}

// Error implementa la interfaz error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original
func (e *AppError) Unwrap() error {
	return e.Err
}

// New crea un nuevo AppError
func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// WithDetail devuelve una COPIA con el detalle dado.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa original.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// Localize devuelve una COPIA con Message traducido a lang (en|fr).
func (e *AppError) Localize(lang string) *AppError {
	newErr := *e
	newErr.Message = i18n.Translate(lang, e.Code, e.Message)
	return &newErr
}

// =================================================================================
// LISTA DE ERRORES PREDEFINIDOS
// Message es el texto en inglés; las traducciones viven en messages.go.
// =================================================================================

// 400 Bad Request
var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request is malformed or has missing parameters.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "The request body is not valid JSON.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Required fields are missing.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidFormat = &AppError{
		Code:       "INVALID_FORMAT",
		Message:    "One or more fields have an invalid format.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrPolicyViolation = &AppError{
		Code:       "POLICY_VIOLATION",
		Message:    "The password does not meet the password policy.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidResetToken = &AppError{
		Code:       "INVALID_RESET_TOKEN",
		Message:    "Invalid or expired password reset token.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidState = &AppError{
		Code:       "INVALID_STATE",
		Message:    "The login attempt expired or was already used. Please start again.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrReturnURLNotAllowed = &AppError{
		Code:       "RETURN_URL_NOT_ALLOWED",
		Message:    "The return URL is missing or not allowed.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrPasswordNotAllowed = &AppError{
		Code:       "PASSWORD_NOT_ALLOWED",
		Message:    "Accounts signed in with a provider cannot set a password.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrBodyTooLarge = &AppError{
		Code:       "BODY_TOO_LARGE",
		Message:    "The request body is too large.",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
)

// 401 Unauthorized
var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Authentication required.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Incorrect email or password.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// 403 Forbidden. Los errores de token usan 403 como el resto de la API.
var (
	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "You do not have enough privileges.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrTokenInvalid = &AppError{
		Code:       "TOKEN_INVALID",
		Message:    "Could not validate credentials.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrTokenExpired = &AppError{
		Code:       "TOKEN_EXPIRED",
		Message:    "The token has expired.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrSSOCodeMismatch = &AppError{
		Code:       "SSO_CODE_MISMATCH",
		Message:    "This sign-in link is no longer valid.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrAccountArchived = &AppError{
		Code:       "ACCOUNT_ARCHIVED",
		Message:    "This account has been archived.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrEmailUnverified = &AppError{
		Code:       "EMAIL_UNVERIFIED",
		Message:    "The provider did not verify this email address.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrRegistrationClosed = &AppError{
		Code:       "REGISTRATION_CLOSED",
		Message:    "Open user registration is forbidden on this server.",
		HTTPStatus: http.StatusForbidden,
	}
)

// 404 Not Found
var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "The requested resource was not found.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrProviderNotEnabled = &AppError{
		Code:       "PROVIDER_NOT_ENABLED",
		Message:    "This sign-in provider is not enabled.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrRouteNotFound = &AppError{
		Code:       "ROUTE_NOT_FOUND",
		Message:    "Route not found.",
		HTTPStatus: http.StatusNotFound,
	}
)

// 405 Method Not Allowed
var ErrMethodNotAllowed = &AppError{
	Code:       "METHOD_NOT_ALLOWED",
	Message:    "Method not allowed for this route.",
	HTTPStatus: http.StatusMethodNotAllowed,
}

// 409 Conflict
var (
	ErrEmailTaken = &AppError{
		Code:       "EMAIL_TAKEN",
		Message:    "A user with this email already exists.",
		HTTPStatus: http.StatusConflict,
	}

	ErrSSOEmailConflict = &AppError{
		Code:       "SSO_EMAIL_CONFLICT",
		Message:    "An account with this email already exists. Sign in with your original method.",
		HTTPStatus: http.StatusConflict,
	}
)

// 422 Unprocessable Entity
var ErrTokenContextMismatch = &AppError{
	Code:       "TOKEN_CONTEXT_MISMATCH",
	Message:    "This token cannot be used here.",
	HTTPStatus: http.StatusUnprocessableEntity,
}

// 429 Too Many Requests
var ErrRateLimited = &AppError{
	Code:       "RATE_LIMITED",
	Message:    "Too many requests. Please try again later.",
	HTTPStatus: http.StatusTooManyRequests,
}

// 5xx
var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrProviderFailed = &AppError{
		Code:       "SSO_PROVIDER_ERROR",
		Message:    "The sign-in provider could not be reached.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "The service is temporarily unavailable.",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)
