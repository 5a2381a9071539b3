package repository

import (
	"context"
	"errors"

	"github.com/straye-as/elevator-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleFilters holds optional list filters for sales
type SaleFilters struct {
	Paid     *bool
	ClientID *uint
}

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Client").
		Preload("Model").
		Preload("Proforma")
}

// Create inserts a sale, inside tx when one is given
func (r *SaleRepository) Create(ctx context.Context, tx *gorm.DB, sale *domain.Sale) error {
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Create(sale).Error
}

// CreateForProforma inserts a sale unless one already references the same
// proforma. It reports false, without error, when the insert lost that race.
func (r *SaleRepository) CreateForProforma(ctx context.Context, tx *gorm.DB, sale *domain.Sale) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "proforma_id"}},
			DoNothing: true,
		}).
		Create(sale)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByProformaID returns the sale referencing a proforma, or nil when none does
func (r *SaleRepository) FindByProformaID(ctx context.Context, tx *gorm.DB, proformaID uint) (*domain.Sale, error) {
	var sale domain.Sale
	err := conn(r.db, tx).WithContext(ctx).Where("proforma_id = ?", proformaID).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// CountByProformaID returns how many sales reference a proforma
func (r *SaleRepository) CountByProformaID(ctx context.Context, proformaID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Sale{}).Where("proforma_id = ?", proformaID).Count(&count).Error
	return count, err
}

func (r *SaleRepository) GetByID(ctx context.Context, id uint) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.withRelations(ctx).First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// LockByID reads a sale with a row lock held until tx ends
func (r *SaleRepository) LockByID(ctx context.Context, tx *gorm.DB, id uint) (*domain.Sale, error) {
	var sale domain.Sale
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *SaleRepository) Update(ctx context.Context, tx *gorm.DB, sale *domain.Sale) error {
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Save(sale).Error
}

func (r *SaleRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := conn(r.db, tx).WithContext(ctx).Delete(&domain.Sale{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SaleRepository) List(ctx context.Context, page, pageSize int, filters *SaleFilters) ([]domain.Sale, int64, error) {
	var sales []domain.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Sale{})
	if filters != nil {
		if filters.Paid != nil {
			query = query.Where("paid = ?", *filters.Paid)
		}
		if filters.ClientID != nil {
			query = query.Where("client_id = ?", *filters.ClientID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Preload("Client").
		Preload("Model").
		Preload("Proforma").
		Order("id DESC").
		Find(&sales).Error
	return sales, total, err
}
