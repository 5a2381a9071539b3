package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"github.com/straye-as/elevator-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

func TestClientService_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewClientService(repository.NewClientRepository(db), zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.ClientRequest{Name: "Bergen Heis", City: "Bergen", Email: "post@bergenheis.no"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	updated, err := svc.Update(ctx, created.ID, &domain.ClientRequest{Name: "Bergen Heis AS", City: "Bergen"})
	require.NoError(t, err)
	assert.Equal(t, "Bergen Heis AS", updated.Name)

	_, err = svc.Create(ctx, &domain.ClientRequest{Name: "Oslo Lift"})
	require.NoError(t, err)

	page, err := svc.List(ctx, 1, 10, "bergen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	t.Run("client with a proforma cannot be deleted", func(t *testing.T) {
		testutil.CreateTestProforma(t, db, created.ID, "Blocking", domain.ProformaStatusPending)
		err := svc.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, service.ErrClientInUse)
	})

	t.Run("missing client", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, service.ErrClientNotFound)
	})
}

func TestCatalogService_AreaTypes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAreaTypeService(repository.NewCatalogRepository[domain.AreaType](db, "name"), zap.NewNop())
	ctx := context.Background()

	shaft, err := svc.Create(ctx, &domain.AreaTypeRequest{Name: "Shaft"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.AreaTypeRequest{Name: "Cabin"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &domain.AreaTypeRequest{Name: "Shaft"})
	assert.ErrorIs(t, err, service.ErrDuplicateCatalog)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cabin", list[0].Name)

	renamed, err := svc.Update(ctx, shaft.ID, &domain.AreaTypeRequest{Name: "Pit"})
	require.NoError(t, err)
	assert.Equal(t, "Pit", renamed.Name)

	require.NoError(t, svc.Delete(ctx, shaft.ID))
	_, err = svc.GetByID(ctx, shaft.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProjectService_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	statusRepo := repository.NewCatalogRepository[domain.ProjectStatus](db, "description")
	typeRepo := repository.NewCatalogRepository[domain.ProjectType](db, "type_name")
	svc := service.NewProjectService(repository.NewProjectRepository(db), repository.NewSaleRepository(db), statusRepo, typeRepo, zap.NewNop())
	ctx := context.Background()

	status := &domain.ProjectStatus{Description: "Installing"}
	require.NoError(t, db.Create(status).Error)
	client := testutil.CreateTestClient(t, db, "Project Client")
	proforma := testutil.CreateTestProforma(t, db, client.ID, "Project Sale", domain.ProformaStatusAccepted)
	sale := &domain.Sale{ProformaID: &proforma.ID, ClientID: client.ID, Price: decimal.NewFromInt(1000)}
	require.NoError(t, db.Omit(clause.Associations).Create(sale).Error)

	created, err := svc.Create(ctx, &domain.CreateProjectRequest{
		ID:        "TRD-01",
		Name:      "Trondheim Station",
		StartDate: "2024-01-15",
		SaleID:    &sale.ID,
		StatusID:  &status.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRD-01", created.ID)
	assert.Equal(t, "Installing", created.StatusName)
	assert.Equal(t, "2024-01-15", created.StartDate)

	_, err = svc.Create(ctx, &domain.CreateProjectRequest{ID: "TRD-01", Name: "Again"})
	assert.ErrorIs(t, err, service.ErrDuplicateProject)

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, "TRD-01", &domain.UpdateProjectRequest{
			Name:      "Trondheim Station",
			StartDate: "2024-02-01",
			EndDate:   "2024-01-01",
		})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "endDate")
	})

	t.Run("unknown references are rejected", func(t *testing.T) {
		missing := uint(9999)
		_, err := svc.Create(ctx, &domain.CreateProjectRequest{ID: "X1", Name: "Bad", TypeID: &missing})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "typeId")
	})

	page, err := svc.List(ctx, 1, 20, &repository.ProjectFilters{StatusID: &status.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.Delete(ctx, "TRD-01"))
	_, err = svc.GetByID(ctx, "TRD-01")
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestPersonnelService_AreaFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	areaRepo := repository.NewCatalogRepository[domain.AreaType](db, "name")
	svc := service.NewPersonnelService(repository.NewPersonnelRepository(db), areaRepo, zap.NewNop())
	ctx := context.Background()
	shaft := testutil.CreateTestAreaType(t, db, "Shaft")

	_, err := svc.Create(ctx, &domain.PersonnelRequest{FirstName: "Ingrid", LastName: "Berg", AreaID: &shaft.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.PersonnelRequest{FirstName: "Lars", LastName: "Dahl"})
	require.NoError(t, err)

	inShaft, err := svc.List(ctx, &shaft.ID)
	require.NoError(t, err)
	require.Len(t, inShaft, 1)
	assert.Equal(t, "Ingrid Berg", inShaft[0].FullName)
	assert.Equal(t, "Shaft", inShaft[0].AreaName)

	missing := uint(404)
	_, err = svc.Create(ctx, &domain.PersonnelRequest{FirstName: "No", LastName: "Area", AreaID: &missing})
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
