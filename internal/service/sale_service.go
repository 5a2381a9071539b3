package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/logger"
	"github.com/straye-as/elevator-api/internal/mapper"
	"github.com/straye-as/elevator-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaleService manages sales. Every write keeps the converted flag of the
// referenced proforma in step with the sales table, in one transaction.
type SaleService struct {
	db           *gorm.DB
	saleRepo     *repository.SaleRepository
	proformaRepo *repository.ProformaRepository
	modelRepo    *repository.CatalogRepository[domain.ElevatorModel]
	logger       *zap.Logger
}

func NewSaleService(
	db *gorm.DB,
	saleRepo *repository.SaleRepository,
	proformaRepo *repository.ProformaRepository,
	modelRepo *repository.CatalogRepository[domain.ElevatorModel],
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		db:           db,
		saleRepo:     saleRepo,
		proformaRepo: proformaRepo,
		modelRepo:    modelRepo,
		logger:       logger,
	}
}

// Create records a sale entered by hand. The proforma must exist, belong to
// the same client and not already have a sale.
func (s *SaleService) Create(ctx context.Context, req *domain.SaleRequest) (*domain.SaleDTO, error) {
	sale := &domain.Sale{}
	if err := s.apply(ctx, sale, req); err != nil {
		return nil, err
	}

	count, err := s.saleRepo.CountByProformaID(ctx, *sale.ProformaID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing sale: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateSale
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.saleRepo.Create(ctx, tx, sale); err != nil {
			return err
		}
		return s.proformaRepo.MarkConverted(ctx, tx, *sale.ProformaID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSale
		}
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	logger.ForContext(ctx, s.logger).Info("sale created",
		zap.Uint("sale_id", sale.ID),
		zap.Uint("proforma_id", *sale.ProformaID),
	)
	return s.GetByID(ctx, sale.ID)
}

func (s *SaleService) GetByID(ctx context.Context, id uint) (*domain.SaleDTO, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	dto := mapper.ToSaleDTO(sale)
	return &dto, nil
}

func (s *SaleService) Update(ctx context.Context, id uint, req *domain.SaleRequest) (*domain.SaleDTO, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	previousProforma := sale.ProformaID
	if err := s.apply(ctx, sale, req); err != nil {
		return nil, err
	}

	if previousProforma == nil || *previousProforma != *sale.ProformaID {
		count, err := s.saleRepo.CountByProformaID(ctx, *sale.ProformaID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing sale: %w", err)
		}
		if count > 0 {
			return nil, ErrDuplicateSale
		}
	}

	sale.Client, sale.Model, sale.Proforma = nil, nil, nil
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.saleRepo.Update(ctx, tx, sale); err != nil {
			return err
		}
		if previousProforma != nil && *previousProforma != *sale.ProformaID {
			if err := s.proformaRepo.ClearConverted(ctx, tx, *previousProforma); err != nil {
				return err
			}
		}
		return s.proformaRepo.MarkConverted(ctx, tx, *sale.ProformaID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSale
		}
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes a sale and clears the converted flag of its proforma
func (s *SaleService) Delete(ctx context.Context, id uint) error {
	var proformaID *uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		proformaID = sale.ProformaID

		if err := s.saleRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		if proformaID == nil {
			return nil
		}
		return s.proformaRepo.ClearConverted(ctx, tx, *proformaID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSaleNotFound
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: sale is referenced by a project", ErrConflict)
		}
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	fields := []zap.Field{zap.Uint("sale_id", id)}
	if proformaID != nil {
		fields = append(fields, zap.Uint("proforma_id", *proformaID))
	}
	logger.ForContext(ctx, s.logger).Info("sale deleted", fields...)
	return nil
}

func (s *SaleService) List(ctx context.Context, page, pageSize int, filters *repository.SaleFilters) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	sales, total, err := s.saleRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	dtos := make([]domain.SaleDTO, len(sales))
	for i := range sales {
		dtos[i] = mapper.ToSaleDTO(&sales[i])
	}
	return newPaginatedResponse(dtos, total, page, pageSize), nil
}

// apply validates req against the stored proforma and copies it onto sale
func (s *SaleService) apply(ctx context.Context, sale *domain.Sale, req *domain.SaleRequest) error {
	if req.ProformaID == nil {
		return domain.NewValidationError("proformaId", "Proforma is required")
	}
	if req.Price == nil || req.Price.IsNegative() {
		return domain.NewValidationError("price", "Must be a non-negative amount")
	}

	proforma, err := s.proformaRepo.GetByID(ctx, *req.ProformaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewValidationError("proformaId", "Proforma does not exist")
		}
		return fmt.Errorf("failed to get proforma: %w", err)
	}
	if proforma.ClientID != req.ClientID {
		return domain.NewValidationError("clientId", "Client does not match proforma")
	}

	if req.ModelID != nil {
		exists, err := s.modelRepo.Exists(ctx, *req.ModelID)
		if err != nil {
			return fmt.Errorf("failed to check model: %w", err)
		}
		if !exists {
			return domain.NewValidationError("modelId", "Model does not exist")
		}
	}

	var paymentDate *time.Time
	if req.PaymentDate != "" {
		d, err := time.Parse(domain.DateFormat, req.PaymentDate)
		if err != nil {
			return domain.NewValidationError("paymentDate", domain.GetValidationMessage("datetime"))
		}
		paymentDate = &d
	}

	proformaID := proforma.ID
	sale.ProformaID = &proformaID
	sale.ClientID = req.ClientID
	sale.ModelID = req.ModelID
	sale.PaymentMethod = req.PaymentMethod
	sale.Notes = req.Notes
	sale.Price = req.Price.Round(2)
	sale.Paid = req.Paid
	sale.PaymentDate = paymentDate
	return nil
}
