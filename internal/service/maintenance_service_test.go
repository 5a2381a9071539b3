package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/straye-as/elevator-api/internal/auth"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"github.com/straye-as/elevator-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createMaintenanceService(db *gorm.DB) *service.MaintenanceService {
	return service.NewMaintenanceService(
		repository.NewMaintenanceRepository(db),
		repository.NewProjectRepository(db),
		repository.NewPersonnelRepository(db),
		zap.NewNop(),
	)
}

func maintenanceStatusPtr(s domain.MaintenanceStatus) *domain.MaintenanceStatus {
	return &s
}

func TestMaintenanceService_ResolvedAtFollowsStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createMaintenanceService(db)
	ctx := context.Background()
	project := testutil.CreateTestProject(t, db, "M1", "Clinic")
	tech := testutil.CreateTestPersonnel(t, db, "Per", "Olsen")

	request, err := svc.Create(ctx, &domain.CreateMaintenanceRequest{
		ProjectID:   project.ID,
		Description: "Door does not close",
		AssignedTo:  &tech.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MaintenanceStatusPending, request.Status)
	assert.Empty(t, request.ResolvedAt)
	assert.Equal(t, "Per Olsen", request.AssigneeName)

	resolved, err := svc.Update(ctx, request.ID, &domain.UpdateMaintenanceRequest{Status: maintenanceStatusPtr(domain.MaintenanceStatusResolved)})
	require.NoError(t, err)
	assert.NotEmpty(t, resolved.ResolvedAt)

	reopened, err := svc.Update(ctx, request.ID, &domain.UpdateMaintenanceRequest{Status: maintenanceStatusPtr(domain.MaintenanceStatusInProgress)})
	require.NoError(t, err)
	assert.Empty(t, reopened.ResolvedAt)

	t.Run("created resolved is stamped", func(t *testing.T) {
		created, err := svc.Create(ctx, &domain.CreateMaintenanceRequest{
			ProjectID:   project.ID,
			Description: "Already fixed on site",
			Status:      domain.MaintenanceStatusResolved,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ResolvedAt)
	})

	t.Run("unknown project is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateMaintenanceRequest{ProjectID: "NOPE", Description: "x"})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "projectId")
	})

	t.Run("status filter", func(t *testing.T) {
		status := domain.MaintenanceStatusResolved
		list, err := svc.List(ctx, &repository.MaintenanceFilters{ProjectID: project.ID, Status: &status})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestMaintenanceService_Logs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createMaintenanceService(db)
	project := testutil.CreateTestProject(t, db, "M2", "Mall")

	request, err := svc.Create(context.Background(), &domain.CreateMaintenanceRequest{ProjectID: project.ID, Description: "Noisy motor"})
	require.NoError(t, err)

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{UserID: 7, Username: "tech", AuthType: auth.AuthTypeJWT})
	hours := decimal.RequireFromString("1.5")
	entry, err := svc.AddLog(ctx, request.ID, &domain.CreateMaintenanceLogRequest{
		WorkDone:   "Replaced bearing",
		PartsUsed:  "Bearing 6204",
		HoursSpent: &hours,
	})
	require.NoError(t, err)
	require.NotNil(t, entry.UpdatedBy)
	assert.Equal(t, uint(7), *entry.UpdatedBy)
	assert.Equal(t, "1.50", entry.HoursSpent.StringFixed(2))

	logs, err := svc.ListLogs(ctx, request.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	_, err = svc.AddLog(ctx, 9999, &domain.CreateMaintenanceLogRequest{WorkDone: "x"})
	assert.ErrorIs(t, err, service.ErrMaintenanceNotFound)

	require.NoError(t, svc.Delete(ctx, request.ID))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &domain.MaintenanceLog{}))
}
