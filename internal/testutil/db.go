package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/straye-as/elevator-api/internal/database"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetupTestDB opens a fresh in-memory SQLite database with every domain table migrated.
// The pool holds a single connection, so concurrent transactions run one after another.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg := database.Config()
	cfg.DisableForeignKeyConstraintWhenMigrating = true

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err, "Failed to open in-memory test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateTestClient creates a client and returns it
func CreateTestClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	t.Helper()
	client := &domain.Client{
		Name:    name,
		Email:   "office@example.com",
		City:    "Oslo",
		Country: "Norway",
	}
	require.NoError(t, db.Omit(clause.Associations).Create(client).Error)
	return client
}

// CreateTestAreaType creates an area type and returns it
func CreateTestAreaType(t *testing.T, db *gorm.DB, name string) *domain.AreaType {
	t.Helper()
	area := &domain.AreaType{Name: name}
	require.NoError(t, db.Create(area).Error)
	return area
}

// CreateTestAreaStatus creates an area status and returns it
func CreateTestAreaStatus(t *testing.T, db *gorm.DB, description string) *domain.AreaStatus {
	t.Helper()
	status := &domain.AreaStatus{Description: description}
	require.NoError(t, db.Create(status).Error)
	return status
}

// CreateTestPersonnel creates a technician and returns it
func CreateTestPersonnel(t *testing.T, db *gorm.DB, firstName, lastName string) *domain.Personnel {
	t.Helper()
	person := &domain.Personnel{FirstName: firstName, LastName: lastName}
	require.NoError(t, db.Omit(clause.Associations).Create(person).Error)
	return person
}

// CreateTestProject creates a project with the given caller-supplied id
func CreateTestProject(t *testing.T, db *gorm.DB, id, name string) *domain.Project {
	t.Helper()
	project := &domain.Project{ID: id, Name: name}
	require.NoError(t, db.Omit(clause.Associations).Create(project).Error)
	return project
}

// CreateTestProforma inserts a proforma directly, bypassing the lifecycle service
func CreateTestProforma(t *testing.T, db *gorm.DB, clientID uint, projectName string, status domain.ProformaStatus) *domain.Proforma {
	t.Helper()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	proforma := &domain.Proforma{
		ClientID:     clientID,
		ProjectName:  projectName,
		ProformaDate: today,
		ValidUntil:   today.AddDate(0, 1, 0),
		TotalAmount:  decimal.RequireFromString("1000.00"),
		Status:       status,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(proforma).Error)
	return proforma
}

// CountRows returns the number of rows in the table backing model
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
