package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/straye-as/elevator-api/internal/auth"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type memoryUserStore map[string]*domain.User

func (s memoryUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := s[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func newTestMiddleware(t *testing.T) (*auth.Middleware, *auth.TokenIssuer) {
	t.Helper()
	hash, err := auth.HashPassword("technician-pass")
	require.NoError(t, err)

	store := memoryUserStore{
		"tech": {ID: 3, Username: "tech", PasswordHash: hash, Role: domain.UserRoleTechnician, IsActive: true},
		"gone": {ID: 4, Username: "gone", PasswordHash: hash, Role: domain.UserRoleTechnician, IsActive: false},
	}
	issuer := newIssuer()
	return auth.NewMiddleware(issuer, store, "system-key", zap.NewNop()), issuer
}

// captureUser records the user context seen by the wrapped handler
func captureUser(seen **auth.UserContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_Authenticate(t *testing.T) {
	mw, issuer := newTestMiddleware(t)
	token, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	tests := []struct {
		name         string
		setup        func(r *http.Request)
		wantStatus   int
		wantAuthType string
	}{
		{
			name:         "api key",
			setup:        func(r *http.Request) { r.Header.Set("x-api-key", "system-key") },
			wantStatus:   http.StatusOK,
			wantAuthType: auth.AuthTypeAPIKey,
		},
		{
			name:       "wrong api key",
			setup:      func(r *http.Request) { r.Header.Set("x-api-key", "guess") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:         "bearer token",
			setup:        func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantStatus:   http.StatusOK,
			wantAuthType: auth.AuthTypeJWT,
		},
		{
			name:       "invalid bearer token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:         "basic credentials",
			setup:        func(r *http.Request) { r.SetBasicAuth("tech", "technician-pass") },
			wantStatus:   http.StatusOK,
			wantAuthType: auth.AuthTypeBasic,
		},
		{
			name:       "basic with wrong password",
			setup:      func(r *http.Request) { r.SetBasicAuth("tech", "nope") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "basic for inactive user",
			setup:      func(r *http.Request) { r.SetBasicAuth("gone", "technician-pass") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing header",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown scheme",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Digest abc") },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *auth.UserContext
			req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			mw.Authenticate(captureUser(&seen)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantAuthType == "" {
				assert.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, tt.wantAuthType, seen.AuthType)
		})
	}
}

func TestMiddleware_RequireAdmin(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name       string
		user       *auth.UserContext
		wantStatus int
	}{
		{"no user", nil, http.StatusForbidden},
		{"technician", &auth.UserContext{UserID: 1, Role: domain.UserRoleTechnician}, http.StatusForbidden},
		{"admin", &auth.UserContext{UserID: 2, Role: domain.UserRoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
			if tt.user != nil {
				req = req.WithContext(auth.WithUserContext(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()

			mw.RequireAdmin(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
