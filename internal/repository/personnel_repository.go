package repository

import (
	"context"

	"github.com/straye-as/elevator-api/internal/domain"
	"gorm.io/gorm"
)

type PersonnelRepository struct {
	db *gorm.DB
}

func NewPersonnelRepository(db *gorm.DB) *PersonnelRepository {
	return &PersonnelRepository{db: db}
}

func (r *PersonnelRepository) Create(ctx context.Context, person *domain.Personnel) error {
	return r.db.WithContext(ctx).Omit("Area").Create(person).Error
}

func (r *PersonnelRepository) GetByID(ctx context.Context, id uint) (*domain.Personnel, error) {
	var person domain.Personnel
	err := r.db.WithContext(ctx).Preload("Area").First(&person, id).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *PersonnelRepository) Update(ctx context.Context, person *domain.Personnel) error {
	return r.db.WithContext(ctx).Omit("Area").Save(person).Error
}

func (r *PersonnelRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Personnel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns personnel, optionally restricted to one area
func (r *PersonnelRepository) List(ctx context.Context, areaID *uint) ([]domain.Personnel, error) {
	var people []domain.Personnel
	query := r.db.WithContext(ctx).Preload("Area")
	if areaID != nil {
		query = query.Where("area_id = ?", *areaID)
	}
	err := query.Order("last_name ASC, first_name ASC").Find(&people).Error
	return people, err
}
