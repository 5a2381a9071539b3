package repository

import (
	"context"

	"github.com/straye-as/elevator-api/internal/domain"
	"gorm.io/gorm"
)

// ProjectFilters holds optional list filters for projects
type ProjectFilters struct {
	Search   string
	StatusID *uint
	TypeID   *uint
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Sale").
		Preload("Sale.Client").
		Preload("Status").
		Preload("Type")
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Omit("Sale", "Status", "Type").Create(project).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	err := r.withRelations(ctx).Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Omit("Sale", "Status", "Type").Save(project).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepository) List(ctx context.Context, page, pageSize int, filters *ProjectFilters) ([]domain.Project, int64, error) {
	var projects []domain.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Project{})
	if filters != nil {
		if filters.Search != "" {
			pattern := likePattern(filters.Search)
			query = query.Where("LOWER(id) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
		}
		if filters.StatusID != nil {
			query = query.Where("status_id = ?", *filters.StatusID)
		}
		if filters.TypeID != nil {
			query = query.Where("type_id = ?", *filters.TypeID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Preload("Sale").
		Preload("Sale.Client").
		Preload("Status").
		Preload("Type").
		Order("id DESC").
		Find(&projects).Error
	return projects, total, err
}
