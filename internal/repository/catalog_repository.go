package repository

import (
	"context"

	"gorm.io/gorm"
)

// CatalogRepository handles the small lookup tables (area types, statuses,
// project types, elevator models). They all share the same shape of access.
type CatalogRepository[T any] struct {
	db      *gorm.DB
	orderBy string
}

// NewCatalogRepository creates a lookup repository ordered by the given column
func NewCatalogRepository[T any](db *gorm.DB, orderBy string) *CatalogRepository[T] {
	return &CatalogRepository[T]{db: db, orderBy: orderBy}
}

func (r *CatalogRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *CatalogRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	entity := new(T)
	if err := r.db.WithContext(ctx).First(entity, id).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *CatalogRepository[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *CatalogRepository[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository[T]) List(ctx context.Context) ([]T, error) {
	var entities []T
	err := r.db.WithContext(ctx).Order(r.orderBy).Find(&entities).Error
	return entities, err
}

// Exists reports whether a row with the given id is present
func (r *CatalogRepository[T]) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
