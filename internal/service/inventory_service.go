package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/logger"
	"github.com/straye-as/elevator-api/internal/mapper"
	"github.com/straye-as/elevator-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService struct {
	db            *gorm.DB
	inventoryRepo *repository.InventoryRepository
	modelRepo     *repository.CatalogRepository[domain.ElevatorModel]
	projectRepo   *repository.ProjectRepository
	logger        *zap.Logger
}

func NewInventoryService(
	db *gorm.DB,
	inventoryRepo *repository.InventoryRepository,
	modelRepo *repository.CatalogRepository[domain.ElevatorModel],
	projectRepo *repository.ProjectRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		db:            db,
		inventoryRepo: inventoryRepo,
		modelRepo:     modelRepo,
		projectRepo:   projectRepo,
		logger:        logger,
	}
}

func (s *InventoryService) Create(ctx context.Context, req *domain.InventoryItemRequest) (*domain.InventoryItemDTO, error) {
	item := &domain.InventoryItem{}
	if err := s.apply(ctx, item, req); err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return s.GetByID(ctx, item.ID)
}

func (s *InventoryService) GetByID(ctx context.Context, id uint) (*domain.InventoryItemDTO, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	dto := mapper.ToInventoryItemDTO(item)
	return &dto, nil
}

func (s *InventoryService) Update(ctx context.Context, id uint, req *domain.InventoryItemRequest) (*domain.InventoryItemDTO, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	if err := s.apply(ctx, item, req); err != nil {
		return nil, err
	}
	item.Model = nil

	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	if err := s.inventoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInventoryNotFound
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: inventory item has transactions", ErrConflict)
		}
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}

// List returns inventory items; lowStockOnly keeps items at or below their reorder level
func (s *InventoryService) List(ctx context.Context, lowStockOnly bool) ([]domain.InventoryItemDTO, error) {
	items, err := s.inventoryRepo.List(ctx, lowStockOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	dtos := make([]domain.InventoryItemDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToInventoryItemDTO(&items[i])
	}
	return dtos, nil
}

// RecordTransaction books a stock movement and adjusts the item quantity in
// one transaction. The item row stays locked until the movement is stored.
func (s *InventoryService) RecordTransaction(ctx context.Context, itemID uint, req *domain.CreateInventoryTransactionRequest) (*domain.InventoryTransactionDTO, error) {
	if req.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", domain.GetValidationMessage("gt"))
	}
	if req.ProjectID != nil && *req.ProjectID != "" {
		exists, err := s.projectRepo.Exists(ctx, *req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to check project: %w", err)
		}
		if !exists {
			return nil, domain.NewValidationError("projectId", "Project does not exist")
		}
	} else {
		req.ProjectID = nil
	}

	txn := &domain.InventoryTransaction{
		ItemID:    itemID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		ProjectID: req.ProjectID,
		Notes:     req.Notes,
	}

	var remaining int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.inventoryRepo.LockItem(ctx, tx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInventoryNotFound
			}
			return err
		}

		switch req.Type {
		case domain.InventoryTransactionIn:
			remaining = item.Quantity + req.Quantity
		case domain.InventoryTransactionOut:
			if req.Quantity > item.Quantity {
				return ErrInsufficientStock
			}
			remaining = item.Quantity - req.Quantity
		default:
			return domain.NewValidationError("type", domain.GetValidationMessage("oneof"))
		}

		if err := s.inventoryRepo.SetQuantity(ctx, tx, itemID, remaining); err != nil {
			return err
		}
		return s.inventoryRepo.CreateTransaction(ctx, tx, txn)
	})
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.Is(err, ErrInventoryNotFound) || errors.Is(err, ErrInsufficientStock) || errors.As(err, &validationErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record inventory transaction: %w", err)
	}

	logger.ForContext(ctx, s.logger).Info("inventory transaction recorded",
		zap.Uint("item_id", itemID),
		zap.String("type", string(txn.Type)),
		zap.Int("quantity", txn.Quantity),
		zap.Int("remaining", remaining),
	)

	dto := mapper.ToInventoryTransactionDTO(txn)
	return &dto, nil
}

func (s *InventoryService) ListTransactions(ctx context.Context, itemID uint) ([]domain.InventoryTransactionDTO, error) {
	if _, err := s.inventoryRepo.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	txns, err := s.inventoryRepo.ListTransactions(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory transactions: %w", err)
	}

	dtos := make([]domain.InventoryTransactionDTO, len(txns))
	for i := range txns {
		dtos[i] = mapper.ToInventoryTransactionDTO(&txns[i])
	}
	return dtos, nil
}

func (s *InventoryService) apply(ctx context.Context, item *domain.InventoryItem, req *domain.InventoryItemRequest) error {
	if req.ModelID != nil {
		exists, err := s.modelRepo.Exists(ctx, *req.ModelID)
		if err != nil {
			return fmt.Errorf("failed to check model: %w", err)
		}
		if !exists {
			return domain.NewValidationError("modelId", "Model does not exist")
		}
	}

	item.ItemName = req.ItemName
	item.ModelID = req.ModelID
	item.Quantity = req.Quantity
	item.ReorderLevel = req.ReorderLevel
	return nil
}
