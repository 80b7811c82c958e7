// Package audit emite eventos de seguridad como logs estructurados con
// audit=true, separables del resto por el pipeline de logs.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

type Event string

const (
	EventRegistered     Event = "user.registered"
	EventLoginSucceeded Event = "login.succeeded"
	EventLoginFailed    Event = "login.failed"
	EventResetRequested Event = "password.reset_requested"
	EventPasswordReset  Event = "password.reset"
	EventSSOConfirmed   Event = "sso.confirmed"
	EventUserArchived   Event = "user.archived"
	EventUserRestored   Event = "user.unarchived"
	EventUserDeleted    Event = "user.deleted"
)

// Log escribe el evento con el logger del contexto (request_id incluido).
func Log(ctx context.Context, ev Event, fields ...zap.Field) {
	all := make([]zap.Field, 0, len(fields)+2)
	all = append(all, zap.Bool("audit", true), zap.String("event", string(ev)))
	all = append(all, fields...)
	logger.From(ctx).Info("audit", all...)
}
