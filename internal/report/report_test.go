package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX_UnitsTable(t *testing.T) {
	rows := []domain.UnitReportRow{
		{ID: "U-R1", ProjectID: "R1", Site: "Paid Site", UnitType: "Passenger", Status: "Operational", LastInspection: "2024-03-01"},
		{ID: "U-R2", ProjectID: "R2", Site: "Open Site", Status: "Maintenance", OpenIssues: 2},
	}

	data, err := report.WriteXLSX(report.UnitsTable(rows))
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"Units"}, book.GetSheetList())

	header, err := book.GetCellValue("Units", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Unit", header)

	site, err := book.GetCellValue("Units", "C3")
	require.NoError(t, err)
	assert.Equal(t, "Open Site", site)

	issues, err := book.GetCellValue("Units", "G3")
	require.NoError(t, err)
	assert.Equal(t, "2", issues)

	sheetRows, err := book.GetRows("Units")
	require.NoError(t, err)
	assert.Len(t, sheetRows, 3)
}

func TestWriteXLSX_SalesTableFormatsMoney(t *testing.T) {
	proformaID := uint(4)
	data, err := report.WriteXLSX(report.SalesTable([]domain.SaleReportRow{
		{SaleID: 1, ClientID: 2, ClientName: "Bergen Heis", Price: decimal.RequireFromString("98000.5"), ProformaID: &proformaID},
	}))
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	price, err := book.GetCellValue("Sales", "F2")
	require.NoError(t, err)
	assert.Equal(t, "98000.50", price)

	model, err := book.GetCellValue("Sales", "D2")
	require.NoError(t, err)
	assert.Empty(t, model)
}

func TestWriteXLSX_DefaultSheetName(t *testing.T) {
	data, err := report.WriteXLSX(report.Table{Headers: []string{"A"}})
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{"Report"}, book.GetSheetList())
}

func TestRenderProformaPDF(t *testing.T) {
	proforma := &domain.Proforma{
		ID:           12,
		ProjectName:  "Bjørvika Tower",
		ProformaDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		ValidUntil:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		Description:  "Two passenger lifts",
		TotalAmount:  decimal.RequireFromString("125000.00"),
		Status:       domain.ProformaStatusAccepted,
		Client:       &domain.Client{Name: "Østlandet Eiendom", City: "Oslo"},
	}

	tests := []struct {
		name string
		sale *domain.Sale
	}{
		{"without sale", nil},
		{"with sale", &domain.Sale{ID: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := report.RenderProformaPDF(proforma, tt.sale)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
		})
	}

	t.Run("missing client", func(t *testing.T) {
		data, err := report.RenderProformaPDF(&domain.Proforma{ID: 1, ProjectName: "Bare"}, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})
}
