package repository

import (
	"context"

	"github.com/straye-as/elevator-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProformaFilters holds optional list filters for proformas
type ProformaFilters struct {
	Status    *domain.ProformaStatus
	ClientID  *uint
	Converted *bool
}

type ProformaRepository struct {
	db *gorm.DB
}

func NewProformaRepository(db *gorm.DB) *ProformaRepository {
	return &ProformaRepository{db: db}
}

// Create inserts a proforma, inside tx when one is given
func (r *ProformaRepository) Create(ctx context.Context, tx *gorm.DB, proforma *domain.Proforma) error {
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Create(proforma).Error
}

func (r *ProformaRepository) GetByID(ctx context.Context, id uint) (*domain.Proforma, error) {
	var proforma domain.Proforma
	err := r.db.WithContext(ctx).Preload("Client").First(&proforma, id).Error
	if err != nil {
		return nil, err
	}
	return &proforma, nil
}

// LockByID reads a proforma with a row lock held until tx ends.
// Concurrent writers on the same row block here.
func (r *ProformaRepository) LockByID(ctx context.Context, tx *gorm.DB, id uint) (*domain.Proforma, error) {
	var proforma domain.Proforma
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&proforma, id).Error
	if err != nil {
		return nil, err
	}
	return &proforma, nil
}

// Save writes every column of the proforma, inside tx when one is given
func (r *ProformaRepository) Save(ctx context.Context, tx *gorm.DB, proforma *domain.Proforma) error {
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Save(proforma).Error
}

// MarkConverted flags the proforma as converted to a sale
func (r *ProformaRepository) MarkConverted(ctx context.Context, tx *gorm.DB, id uint) error {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&domain.Proforma{}).
		Where("id = ?", id).
		Update("is_converted_to_sale", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearConverted resets the converted flag once no sale references the proforma
func (r *ProformaRepository) ClearConverted(ctx context.Context, tx *gorm.DB, id uint) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&domain.Proforma{}).
		Where("id = ?", id).
		Update("is_converted_to_sale", false).Error
}

// SetAttachment replaces the technical details document reference
func (r *ProformaRepository) SetAttachment(ctx context.Context, id uint, storagePath string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Proforma{}).
		Where("id = ?", id).
		Update("technical_details_pdf", storagePath)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProformaRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Proforma{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProformaRepository) List(ctx context.Context, page, pageSize int, filters *ProformaFilters) ([]domain.Proforma, int64, error) {
	var proformas []domain.Proforma
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Proforma{})
	if filters != nil {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.ClientID != nil {
			query = query.Where("client_id = ?", *filters.ClientID)
		}
		if filters.Converted != nil {
			query = query.Where("is_converted_to_sale = ?", *filters.Converted)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Preload("Client").
		Order("id DESC").
		Find(&proformas).Error
	return proformas, total, err
}
