package repository

import (
	"context"

	"github.com/straye-as/elevator-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaintenanceFilters holds optional list filters for maintenance requests
type MaintenanceFilters struct {
	ProjectID  string
	Status     *domain.MaintenanceStatus
	AssignedTo *uint
}

type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) Create(ctx context.Context, req *domain.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
}

func (r *MaintenanceRepository) GetByID(ctx context.Context, id uint) (*domain.MaintenanceRequest, error) {
	var req domain.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Assignee").
		First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *MaintenanceRepository) Update(ctx context.Context, req *domain.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(req).Error
}

// Delete removes a request together with its logs
func (r *MaintenanceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", id).Delete(&domain.MaintenanceLog{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.MaintenanceRequest{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *MaintenanceRepository) List(ctx context.Context, filters *MaintenanceFilters) ([]domain.MaintenanceRequest, error) {
	var reqs []domain.MaintenanceRequest
	query := r.db.WithContext(ctx).Preload("Project").Preload("Assignee")
	if filters != nil {
		if filters.ProjectID != "" {
			query = query.Where("project_id = ?", filters.ProjectID)
		}
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.AssignedTo != nil {
			query = query.Where("assigned_to = ?", *filters.AssignedTo)
		}
	}
	err := query.Order("created_at DESC, id DESC").Find(&reqs).Error
	return reqs, err
}

// CountOpenByProject returns the number of unresolved requests per project id
func (r *MaintenanceRepository) CountOpenByProject(ctx context.Context, projectIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ProjectID string
		OpenCount int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.MaintenanceRequest{}).
		Select("project_id, COUNT(*) AS open_count").
		Where("project_id IN ? AND status <> ?", projectIDs, domain.MaintenanceStatusResolved).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ProjectID] = row.OpenCount
	}
	return counts, nil
}

func (r *MaintenanceRepository) CreateLog(ctx context.Context, log *domain.MaintenanceLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *MaintenanceRepository) ListLogs(ctx context.Context, requestID uint) ([]domain.MaintenanceLog, error) {
	var logs []domain.MaintenanceLog
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	return logs, err
}
