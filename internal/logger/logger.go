package logger

import (
	"context"
	"fmt"

	"github.com/straye-as/elevator-api/internal/auth"
	"github.com/straye-as/elevator-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. JSON output is used when
// logging.format is "json" and always in production.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.DisableStacktrace = true
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

type requestIDKey struct{}

// ContextWithRequestID stores the request id for ForContext
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the id stored by ContextWithRequestID, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ForContext derives a logger carrying the request id and the
// authenticated user found in ctx. Background contexts get base unchanged.
func ForContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	log := base
	if id := RequestID(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}
	if user, ok := auth.FromContext(ctx); ok {
		log = WithUser(log, user)
	}
	return log
}

// WithRequest adds request context to logger
func WithRequest(log *zap.Logger, method, path, requestID string) *zap.Logger {
	return log.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
}

// WithUser adds the authenticated user to logger
func WithUser(log *zap.Logger, user *auth.UserContext) *zap.Logger {
	if user == nil {
		return log
	}
	return log.With(
		zap.Uint("user_id", user.UserID),
		zap.String("username", user.Username),
		zap.String("auth_type", user.AuthType),
	)
}
