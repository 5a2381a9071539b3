package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"github.com/straye-as/elevator-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func createReportService(db *gorm.DB) *service.ReportService {
	return service.NewReportService(repository.NewReportRepository(db), repository.NewMaintenanceRepository(db), zap.NewNop())
}

// seedReportData creates one paid project, one unpaid project and an open
// maintenance request on the unpaid one
func seedReportData(t *testing.T, db *gorm.DB) {
	t.Helper()
	client := testutil.CreateTestClient(t, db, "Report Client")
	paidDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	paidProforma := testutil.CreateTestProforma(t, db, client.ID, "Paid Proforma", domain.ProformaStatusAccepted)
	paidSale := &domain.Sale{ProformaID: &paidProforma.ID, ClientID: client.ID, Price: decimal.NewFromInt(2000), Paid: true, PaymentDate: &paidDate}
	require.NoError(t, db.Omit(clause.Associations).Create(paidSale).Error)

	openProforma := testutil.CreateTestProforma(t, db, client.ID, "Open Proforma", domain.ProformaStatusPending)
	openSale := &domain.Sale{ProformaID: &openProforma.ID, ClientID: client.ID, Price: decimal.NewFromInt(3000)}
	require.NoError(t, db.Omit(clause.Associations).Create(openSale).Error)

	paidProject := &domain.Project{ID: "R1", Name: "Paid Site", SaleID: &paidSale.ID}
	require.NoError(t, db.Omit(clause.Associations).Create(paidProject).Error)
	openProject := &domain.Project{ID: "R2", Name: "Open Site", SaleID: &openSale.ID}
	require.NoError(t, db.Omit(clause.Associations).Create(openProject).Error)

	request := &domain.MaintenanceRequest{ProjectID: "R2", Description: "Alarm fault", Status: domain.MaintenanceStatusPending}
	require.NoError(t, db.Omit(clause.Associations).Create(request).Error)
}

func TestReportService_Units(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createReportService(db)
	ctx := context.Background()
	seedReportData(t, db)

	rows, err := svc.Units(ctx, &repository.ReportFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byProject := map[string]domain.UnitReportRow{}
	for _, row := range rows {
		byProject[row.ProjectID] = row
	}
	assert.Equal(t, service.UnitStatusOperational, byProject["R1"].Status)
	assert.Equal(t, service.UnitStatusMaintenance, byProject["R2"].Status)
	assert.Equal(t, int64(1), byProject["R2"].OpenIssues)
	assert.Equal(t, "2024-03-01", byProject["R1"].LastInspection)

	operational, err := svc.Units(ctx, &repository.ReportFilters{Status: service.UnitStatusOperational})
	require.NoError(t, err)
	require.Len(t, operational, 1)
	assert.Equal(t, "R1", operational[0].ProjectID)
}

func TestReportService_Proformas(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createReportService(db)
	ctx := context.Background()
	seedReportData(t, db)

	rows, err := svc.Proformas(ctx, &repository.ReportFilters{Status: string(domain.ProformaStatusAccepted)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Paid Proforma", rows[0].ProjectName)
	assert.Equal(t, "Report Client", rows[0].ClientName)

	searched, err := svc.Proformas(ctx, &repository.ReportFilters{Query: "open"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "Open Proforma", searched[0].ProjectName)
}

func TestReportService_SalesAndProjects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createReportService(db)
	ctx := context.Background()
	seedReportData(t, db)

	paid := true
	sales, err := svc.Sales(ctx, &repository.ReportFilters{Paid: &paid})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "2024-03-01", sales[0].PaymentDate)

	projects, err := svc.Projects(ctx, &repository.ReportFilters{})
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "R2", projects[0].ProjectID)
	require.NotNil(t, projects[0].Price)
	assert.True(t, decimal.NewFromInt(3000).Equal(*projects[0].Price))
}
