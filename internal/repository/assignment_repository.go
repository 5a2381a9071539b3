package repository

import (
	"context"

	"github.com/straye-as/elevator-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssignmentRepository handles database operations for project assignments
type AssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Area").
		Preload("Personnel").
		Preload("AreaStatus")
}

// FindByKey returns every row matching the triple, at most two. Callers treat
// more than one row as a broken uniqueness invariant.
func (r *AssignmentRepository) FindByKey(ctx context.Context, key domain.AssignmentKey) ([]domain.ProjectAssignment, error) {
	var assignments []domain.ProjectAssignment
	err := r.withRelations(ctx).
		Where("project_id = ? AND area_id = ? AND personnel_id = ?", key.ProjectID, key.AreaID, key.PersonnelID).
		Order("id ASC").
		Limit(2).
		Find(&assignments).Error
	return assignments, err
}

// CreateIfAbsent inserts the assignment unless the triple already exists.
// It reports whether a new row was written.
func (r *AssignmentRepository) CreateIfAbsent(ctx context.Context, assignment *domain.ProjectAssignment) (bool, error) {
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "project_id"},
				{Name: "area_id"},
				{Name: "personnel_id"},
			},
			DoNothing: true,
		}).
		Create(assignment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateAreaStatus sets or clears the area status of an assignment
func (r *AssignmentRepository) UpdateAreaStatus(ctx context.Context, id uint, areaStatusID *uint) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ProjectAssignment{}).
		Where("id = ?", id).
		Update("area_status_id", areaStatusID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.ProjectAssignment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns assignments, optionally for a single project
func (r *AssignmentRepository) List(ctx context.Context, projectID string) ([]domain.ProjectAssignment, error) {
	var assignments []domain.ProjectAssignment
	query := r.withRelations(ctx)
	if projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	err := query.Order("project_id ASC, area_id ASC, personnel_id ASC").Find(&assignments).Error
	return assignments, err
}
