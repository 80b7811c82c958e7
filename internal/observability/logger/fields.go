package logger

import (
	"time"

	"go.uber.org/zap"
)

// HTTP

func RequestID(v string) zap.Field       { return zap.String("request_id", v) }
func Method(v string) zap.Field          { return zap.String("method", v) }
func Path(v string) zap.Field            { return zap.String("path", v) }
func Status(v int) zap.Field             { return zap.Int("status", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func ClientIP(v string) zap.Field        { return zap.String("client_ip", v) }

// Negocio

func UserID(v string) zap.Field   { return zap.String("user_id", v) }
func ItemID(v string) zap.Field   { return zap.String("item_id", v) }
func Provider(v string) zap.Field { return zap.String("provider", v) }
func Template(v string) zap.Field { return zap.String("template", v) }
func Role(v string) zap.Field     { return zap.String("role", v) }

// Email enmascara la parte local del correo (a***@dominio).
func Email(v string) zap.Field { return zap.String("email", maskEmail(v)) }

// Estructura

func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }

// Err agrega el error; nil produce un campo vacío.
func Err(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.Error(err)
}

func String(k, v string) zap.Field    { return zap.String(k, v) }
func Int(k string, v int) zap.Field   { return zap.Int(k, v) }
func Bool(k string, v bool) zap.Field { return zap.Bool(k, v) }
func Any(k string, v any) zap.Field   { return zap.Any(k, v) }

func maskEmail(e string) string {
	for i := 0; i < len(e); i++ {
		if e[i] == '@' {
			if i == 0 {
				return e
			}
			return e[:1] + "***" + e[i:]
		}
	}
	return e
}
