package service_test

import (
	"context"
	"testing"

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

type assignmentFixture struct {
	project   *domain.Project
	area      *domain.AreaType
	personnel *domain.Personnel
	status    *domain.AreaStatus
}

func createAssignmentService(db *gorm.DB) *service.AssignmentService {
	return service.NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewProjectRepository(db),
		repository.NewPersonnelRepository(db),
		repository.NewCatalogRepository[domain.AreaType](db, "name"),
		repository.NewCatalogRepository[domain.AreaStatus](db, "description"),
		zap.NewNop(),
	)
}

func seedAssignmentFixture(t *testing.T, db *gorm.DB, projectID string) assignmentFixture {
	return assignmentFixture{
		project:   testutil.CreateTestProject(t, db, projectID, "Tower "+projectID),
		area:      testutil.CreateTestAreaType(t, db, "Shaft"),
		personnel: testutil.CreateTestPersonnel(t, db, "Kari", "Nordmann"),
		status:    testutil.CreateTestAreaStatus(t, db, "In progress"),
	}
}

func TestAssignmentService_GetOrCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAssignmentService(db)
	ctx := context.Background()
	f := seedAssignmentFixture(t, db, "P-1")

	req := &domain.CreateAssignmentRequest{
		Project:    f.project.ID,
		Area:       f.area.ID,
		Personnel:  f.personnel.ID,
		AreaStatus: &f.status.ID,
	}

	first, created, err := svc.GetOrCreate(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.EncodeAssignmentKey("P-1", f.area.ID, f.personnel.ID), first.ID)
	assert.Equal(t, "Shaft", first.AreaName)
	assert.Equal(t, "Kari Nordmann", first.PersonnelName)
	assert.Equal(t, "In progress", first.StatusDescription)

	t.Run("second call returns the existing row", func(t *testing.T) {
		second, created, err := svc.GetOrCreate(ctx, req)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, int64(1), testutil.CountRows(t, db, &domain.ProjectAssignment{}))
	})

	t.Run("unknown references are rejected", func(t *testing.T) {
		_, _, err := svc.GetOrCreate(ctx, &domain.CreateAssignmentRequest{
			Project:   "NOPE",
			Area:      9999,
			Personnel: 9999,
		})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "project")
		assert.Contains(t, validationErr.Fields, "area")
		assert.Contains(t, validationErr.Fields, "personnel")
	})
}

func TestAssignmentService_ResolveIdentifier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAssignmentService(db)
	ctx := context.Background()
	f := seedAssignmentFixture(t, db, "OSL-2024")

	created, _, err := svc.GetOrCreate(ctx, &domain.CreateAssignmentRequest{
		Project:   f.project.ID,
		Area:      f.area.ID,
		Personnel: f.personnel.ID,
	})
	require.NoError(t, err)

	t.Run("project id containing dashes", func(t *testing.T) {
		assignment, err := svc.ResolveIdentifier(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "OSL-2024", assignment.ProjectID)
		assert.Equal(t, f.area.ID, assignment.AreaID)
		assert.Equal(t, f.personnel.ID, assignment.PersonnelID)
	})

	t.Run("unknown triple is not found", func(t *testing.T) {
		_, err := svc.ResolveIdentifier(ctx, domain.EncodeAssignmentKey("OSL-2024", f.area.ID, f.personnel.ID+100))
		assert.ErrorIs(t, err, service.ErrAssignmentNotFound)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("malformed identifiers fail before lookup", func(t *testing.T) {
		for _, identifier := range []string{"", "abc", "P1-x-2", "P1-2", "-1-2", "P1-1-"} {
			_, err := svc.ResolveIdentifier(ctx, identifier)
			assert.ErrorIs(t, err, domain.ErrMalformedIdentifier, "identifier %q", identifier)
		}
	})
}

func TestAssignmentService_Resolve_DuplicateRowsIsIntegrityFault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAssignmentService(db)
	f := seedAssignmentFixture(t, db, "P7")

	// Simulate a store that lost its uniqueness constraint
	require.NoError(t, db.Exec("DROP INDEX idx_assignment_triple").Error)
	for i := 0; i < 2; i++ {
		row := &domain.ProjectAssignment{ProjectID: f.project.ID, AreaID: f.area.ID, PersonnelID: f.personnel.ID}
		require.NoError(t, db.Omit(clause.Associations).Create(row).Error)
	}

	key := domain.AssignmentKey{ProjectID: f.project.ID, AreaID: f.area.ID, PersonnelID: f.personnel.ID}
	_, err := svc.Resolve(context.Background(), key)
	assert.ErrorIs(t, err, service.ErrIntegrityFault)
	assert.NotErrorIs(t, err, service.ErrNotFound)
}

func TestAssignmentService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAssignmentService(db)
	ctx := context.Background()
	f := seedAssignmentFixture(t, db, "P2")
	done := testutil.CreateTestAreaStatus(t, db, "Done")

	created, _, err := svc.GetOrCreate(ctx, &domain.CreateAssignmentRequest{
		Project:    f.project.ID,
		Area:       f.area.ID,
		Personnel:  f.personnel.ID,
		AreaStatus: &f.status.ID,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &domain.UpdateAssignmentRequest{AreaStatus: &done.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.AreaStatus)
	assert.Equal(t, done.ID, *updated.AreaStatus)
	assert.Equal(t, created.ID, updated.ID)

	missing := uint(4242)
	_, err = svc.Update(ctx, created.ID, &domain.UpdateAssignmentRequest{AreaStatus: &missing})
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	cleared, err := svc.Update(ctx, created.ID, &domain.UpdateAssignmentRequest{AreaStatus: nil})
	require.NoError(t, err)
	assert.Nil(t, cleared.AreaStatus)
}

func TestAssignmentService_DeleteAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAssignmentService(db)
	ctx := context.Background()
	f := seedAssignmentFixture(t, db, "P3")
	other := testutil.CreateTestProject(t, db, "P4", "Harbour")
	helper := testutil.CreateTestPersonnel(t, db, "Ola", "Hansen")

	a, _, err := svc.GetOrCreate(ctx, &domain.CreateAssignmentRequest{Project: f.project.ID, Area: f.area.ID, Personnel: f.personnel.ID})
	require.NoError(t, err)
	_, _, err = svc.GetOrCreate(ctx, &domain.CreateAssignmentRequest{Project: f.project.ID, Area: f.area.ID, Personnel: helper.ID})
	require.NoError(t, err)
	_, _, err = svc.GetOrCreate(ctx, &domain.CreateAssignmentRequest{Project: other.ID, Area: f.area.ID, Personnel: helper.ID})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forProject, err := svc.List(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Len(t, forProject, 2)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.GetByKey(ctx, a.ID)
	assert.ErrorIs(t, err, service.ErrAssignmentNotFound)

	err = svc.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, service.ErrAssignmentNotFound)
}
