package logger_test

import (
	"context"
	"testing"

	"github.com/straye-as/elevator-api/internal/auth"
	"github.com/straye-as/elevator-api/internal/config"
	"github.com/straye-as/elevator-api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	log, err := logger.NewLogger(&config.LoggingConfig{Level: "debug", Format: "json"}, &config.AppConfig{Name: "test", Environment: "test"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	_, err = logger.NewLogger(&config.LoggingConfig{Level: "loud"}, &config.AppConfig{})
	assert.Error(t, err)
}

func TestForContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := logger.ContextWithRequestID(context.Background(), "req-1")
	ctx = auth.WithUserContext(ctx, &auth.UserContext{UserID: 9, Username: "tech", AuthType: auth.AuthTypeBasic})

	logger.ForContext(ctx, base).Info("sale created from proforma")
	logger.ForContext(context.Background(), base).Info("background")

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, uint64(9), fields["user_id"])
	assert.Equal(t, "tech", fields["username"])
	assert.Empty(t, entries[1].ContextMap())
	assert.Equal(t, "req-1", logger.RequestID(ctx))
}
