package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/report"
	"github.com/straye-as/elevator-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestReportHandler_Sales(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newReportHandler(db)
	client := testutil.CreateTestClient(t, db, "Report Client")
	proforma := testutil.CreateTestProforma(t, db, client.ID, "Report Proforma", domain.ProformaStatusAccepted)
	sale := &domain.Sale{ProformaID: &proforma.ID, ClientID: client.ID, Price: decimal.NewFromInt(1000)}
	require.NoError(t, db.Omit(clause.Associations).Create(sale).Error)

	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Sales(rec, newRequest(t, http.MethodGet, "/api/v1/reports/sales", nil, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Rows []domain.SaleReportRow `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Rows, 1)
		assert.Equal(t, "Report Client", body.Rows[0].ClientName)
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Sales(rec, newRequest(t, http.MethodGet, "/api/v1/reports/sales?format=xlsx", nil, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, report.ContentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "sales-report-")
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("bad date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Sales(rec, newRequest(t, http.MethodGet, "/api/v1/reports/sales?date_from=01.05.2024", nil, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Contains(t, apiErr.Errors, "date_from")
	})
}
