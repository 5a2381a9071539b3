package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/http/handler"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"github.com/straye-as/elevator-api/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newRequest builds a request with chi URL params already routed
func newRequest(t *testing.T, method, target string, body interface{}, params map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func newAssignmentHandler(db *gorm.DB) *handler.AssignmentHandler {
	svc := service.NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewProjectRepository(db),
		repository.NewPersonnelRepository(db),
		repository.NewCatalogRepository[domain.AreaType](db, "name"),
		repository.NewCatalogRepository[domain.AreaStatus](db, "description"),
		zap.NewNop(),
	)
	return handler.NewAssignmentHandler(svc, zap.NewNop())
}

func newProformaHandler(t *testing.T, db *gorm.DB) *handler.ProformaHandler {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := service.NewProformaService(
		db,
		repository.NewProformaRepository(db),
		repository.NewSaleRepository(db),
		repository.NewClientRepository(db),
		store,
		zap.NewNop(),
	)
	return handler.NewProformaHandler(svc, 5, zap.NewNop())
}

func newReportHandler(db *gorm.DB) *handler.ReportHandler {
	svc := service.NewReportService(repository.NewReportRepository(db), repository.NewMaintenanceRepository(db), zap.NewNop())
	return handler.NewReportHandler(svc, zap.NewNop())
}
