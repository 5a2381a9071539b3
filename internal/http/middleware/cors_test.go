package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/straye-as/elevator-api/internal/config"
	"github.com/straye-as/elevator-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func preflight(cfg *config.CORSConfig, environment, origin string) *httptest.ResponseRecorder {
	handler := middleware.CORS(cfg, environment, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/clients", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS(t *testing.T) {
	base := config.CORSConfig{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	tests := []struct {
		name        string
		origins     []string
		environment string
		origin      string
		allowed     bool
	}{
		{"development allows any origin", nil, "development", "http://localhost:3000", true},
		{"explicit origin allowed", []string{"https://lift.example.com"}, "production", "https://lift.example.com", true},
		{"explicit origin rejects others", []string{"https://lift.example.com"}, "production", "https://evil.example.com", false},
		{"wildcard", []string{"*"}, "production", "https://any.example.com", true},
		{"empty list in production denies", nil, "production", "https://lift.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.AllowedOrigins = tt.origins
			rec := preflight(&cfg, tt.environment, tt.origin)

			if tt.allowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
