package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFrom_FallsBackToGlobal(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Replace(zap.New(core))
	t.Cleanup(func() { Replace(nil) })

	From(context.Background()).Info("hola")
	require.Equal(t, 1, logs.Len())
}

func TestFrom_UsesScopedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	scoped := zap.New(core).With(RequestID("rid-1"))

	ctx := ToContext(context.Background(), scoped)
	From(ctx).Info("scoped")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "rid-1", logs.All()[0].ContextMap()["request_id"])
}

func TestEmail_Masked(t *testing.T) {
	assert.Equal(t, "a***@x.com", maskEmail("alice@x.com"))
	assert.Equal(t, "@x.com", maskEmail("@x.com"))
	assert.Equal(t, "nomail", maskEmail("nomail"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}
