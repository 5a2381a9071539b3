package repository

import (
	"context"

	"github.com/straye-as/elevator-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *InventoryRepository) GetByID(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).Preload("Model").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

func (r *InventoryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.InventoryItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns inventory items; lowStockOnly keeps items at or below their reorder level
func (r *InventoryRepository) List(ctx context.Context, lowStockOnly bool) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	query := r.db.WithContext(ctx).Preload("Model")
	if lowStockOnly {
		query = query.Where("quantity <= reorder_level")
	}
	err := query.Order("item_name ASC").Find(&items).Error
	return items, err
}

// LockItem reads an item with a row lock held until tx ends
func (r *InventoryRepository) LockItem(ctx context.Context, tx *gorm.DB, id uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetQuantity writes a new stock level for an item
func (r *InventoryRepository) SetQuantity(ctx context.Context, tx *gorm.DB, id uint, quantity int) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&domain.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *InventoryRepository) CreateTransaction(ctx context.Context, tx *gorm.DB, txn *domain.InventoryTransaction) error {
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Create(txn).Error
}

func (r *InventoryRepository) ListTransactions(ctx context.Context, itemID uint) ([]domain.InventoryTransaction, error) {
	var txns []domain.InventoryTransaction
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Find(&txns).Error
	return txns, err
}
