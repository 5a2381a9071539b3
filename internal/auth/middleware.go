package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/straye-as/elevator-api/internal/domain"
	"go.uber.org/zap"
)

// UserStore looks up accounts for Basic authentication
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenIssuer
	users  UserStore
	apiKey string
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenIssuer, users UserStore, apiKey string, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		apiKey: apiKey,
		logger: logger,
	}
}

// Authenticate accepts, in order, an x-api-key header, HTTP Basic credentials
// or a Bearer session token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if apiKey := r.Header.Get("x-api-key"); apiKey != "" {
			if !m.validateAPIKey(apiKey) {
				m.logger.Warn("invalid API key attempt",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			m.serveAuthenticated(w, r, next, systemUser(), start)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		switch {
		case strings.EqualFold(parts[0], "Basic"):
			userCtx, ok := m.authenticateBasic(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="elevator-api"`)
				http.Error(w, "Unauthorized: invalid credentials", http.StatusUnauthorized)
				return
			}
			m.serveAuthenticated(w, r, next, userCtx, start)

		case strings.EqualFold(parts[0], "Bearer"):
			userCtx, err := m.tokens.Validate(parts[1])
			if err != nil {
				m.logger.Warn("token validation failed",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
				return
			}
			m.serveAuthenticated(w, r, next, userCtx, start)

		default:
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
		}
	})
}

// RequireAdmin middleware ensures user has admin role or valid API key
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "Forbidden: no user context", http.StatusForbidden)
			return
		}

		if !userCtx.IsAdmin() {
			http.Error(w, "Forbidden: admin access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) serveAuthenticated(w http.ResponseWriter, r *http.Request, next http.Handler, userCtx *UserContext, start time.Time) {
	m.logger.Debug("request authenticated",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("auth_type", userCtx.AuthType),
		zap.Uint("user_id", userCtx.UserID),
		zap.String("username", userCtx.Username),
		zap.Duration("auth_duration", time.Since(start)),
	)
	next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
}

func (m *Middleware) authenticateBasic(r *http.Request) (*UserContext, bool) {
	username, password, ok := r.BasicAuth()
	if !ok || username == "" || m.users == nil {
		return nil, false
	}

	user, err := m.users.GetByUsername(r.Context(), username)
	if err != nil {
		m.logger.Debug("basic auth lookup failed", zap.String("username", username), zap.Error(err))
		return nil, false
	}
	if !user.IsActive || !CheckPassword(user.PasswordHash, password) {
		m.logger.Warn("basic auth rejected",
			zap.String("username", username),
			zap.String("remote_addr", r.RemoteAddr),
		)
		return nil, false
	}
	return NewUserContext(user, AuthTypeBasic), true
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}
