package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/logger"
	"github.com/straye-as/elevator-api/internal/mapper"
	"github.com/straye-as/elevator-api/internal/report"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrAttachmentNotFound is returned when a proforma has no technical details document
var ErrAttachmentNotFound = fmt.Errorf("attachment %w", ErrNotFound)

// ProformaService owns the proforma lifecycle. Moving a proforma into
// Accepted converts it into exactly one sale, inside the same transaction
// that writes the proforma.
type ProformaService struct {
	db           *gorm.DB
	proformaRepo *repository.ProformaRepository
	saleRepo     *repository.SaleRepository
	clientRepo   *repository.ClientRepository
	storage      storage.Storage
	logger       *zap.Logger
}

// NewProformaService creates a new proforma service
func NewProformaService(
	db *gorm.DB,
	proformaRepo *repository.ProformaRepository,
	saleRepo *repository.SaleRepository,
	clientRepo *repository.ClientRepository,
	store storage.Storage,
	logger *zap.Logger,
) *ProformaService {
	return &ProformaService{
		db:           db,
		proformaRepo: proformaRepo,
		saleRepo:     saleRepo,
		clientRepo:   clientRepo,
		storage:      store,
		logger:       logger,
	}
}

// Create stores a new proforma. A proforma created directly as Accepted is
// converted to a sale in the same transaction.
func (s *ProformaService) Create(ctx context.Context, req *domain.CreateProformaRequest) (*domain.ProformaDTO, error) {
	proformaDate, validUntil, err := parseProformaDates(req.ProformaDate, req.ValidUntil)
	if err != nil {
		return nil, err
	}
	if req.TotalAmount == nil || req.TotalAmount.IsNegative() {
		return nil, domain.NewValidationError("totalAmount", "Must be a non-negative amount")
	}
	if err := s.ensureClient(ctx, req.ClientID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.ProformaStatusPending
	}

	proforma := &domain.Proforma{
		ClientID:     req.ClientID,
		ProjectName:  strings.TrimSpace(req.ProjectName),
		ProformaDate: proformaDate,
		ValidUntil:   validUntil,
		Description:  req.Description,
		TotalAmount:  req.TotalAmount.Round(2),
		Status:       status,
	}

	var saleID *uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.proformaRepo.Create(ctx, tx, proforma); err != nil {
			return err
		}
		if proforma.Status != domain.ProformaStatusAccepted {
			return nil
		}
		id, err := s.convertToSale(ctx, tx, proforma)
		saleID = id
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateProformaName
		}
		return nil, fmt.Errorf("failed to create proforma: %w", err)
	}

	logger.ForContext(ctx, s.logger).Info("proforma created",
		zap.Uint("proforma_id", proforma.ID),
		zap.String("status", string(proforma.Status)),
		zap.Bool("converted", saleID != nil),
	)

	return s.toDTO(ctx, proforma.ID, saleID)
}

// Update applies a partial update. The previous status is read under a row
// lock, so only the writer that actually moves the proforma into Accepted
// runs the conversion.
func (s *ProformaService) Update(ctx context.Context, id uint, req *domain.UpdateProformaRequest) (*domain.ProformaDTO, error) {
	if req.ClientID != nil {
		if err := s.ensureClient(ctx, *req.ClientID); err != nil {
			return nil, err
		}
	}
	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return nil, domain.NewValidationError("totalAmount", "Must be a non-negative amount")
	}

	var saleID *uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proforma, err := s.proformaRepo.LockByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProformaNotFound
			}
			return err
		}

		oldStatus := proforma.Status
		if err := applyProformaUpdate(proforma, req); err != nil {
			return err
		}

		if err := s.proformaRepo.Save(ctx, tx, proforma); err != nil {
			return err
		}

		if oldStatus == domain.ProformaStatusAccepted || proforma.Status != domain.ProformaStatusAccepted {
			return nil
		}

		logger.ForContext(ctx, s.logger).Info("proforma accepted",
			zap.Uint("proforma_id", proforma.ID),
			zap.String("previous_status", string(oldStatus)),
		)
		saleID, err = s.convertToSale(ctx, tx, proforma)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrProformaNotFound) {
			return nil, err
		}
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateProformaName
		}
		return nil, fmt.Errorf("failed to update proforma: %w", err)
	}

	return s.toDTO(ctx, id, saleID)
}

// convertToSale creates the sale for an accepted proforma and marks the
// proforma converted. It runs inside the caller's transaction. A sale that
// already exists is returned unchanged.
func (s *ProformaService) convertToSale(ctx context.Context, tx *gorm.DB, proforma *domain.Proforma) (*uint, error) {
	existing, err := s.saleRepo.FindByProformaID(ctx, tx, proforma.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing sale: %w", err)
	}
	if existing != nil {
		logger.ForContext(ctx, s.logger).Info("proforma already has a sale, skipping conversion",
			zap.Uint("proforma_id", proforma.ID),
			zap.Uint("sale_id", existing.ID),
		)
		if err := s.markConverted(ctx, tx, proforma); err != nil {
			return nil, err
		}
		return &existing.ID, nil
	}

	proformaID := proforma.ID
	sale := &domain.Sale{
		ProformaID: &proformaID,
		ClientID:   proforma.ClientID,
		Price:      proforma.TotalAmount,
		Paid:       false,
	}

	if err := s.insertSale(ctx, tx, sale); err != nil {
		if !errors.Is(err, ErrConversionConflict) {
			return nil, err
		}
		logger.ForContext(ctx, s.logger).Info("sale conversion lost race, using existing sale",
			zap.Uint("proforma_id", proforma.ID),
		)
		winner, err := s.saleRepo.FindByProformaID(ctx, tx, proforma.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing sale: %w", err)
		}
		if winner == nil {
			return nil, nil
		}
		if err := s.markConverted(ctx, tx, proforma); err != nil {
			return nil, err
		}
		return &winner.ID, nil
	}

	if err := s.markConverted(ctx, tx, proforma); err != nil {
		return nil, err
	}

	logger.ForContext(ctx, s.logger).Info("sale created from proforma",
		zap.Uint("proforma_id", proforma.ID),
		zap.Uint("sale_id", sale.ID),
		zap.String("price", sale.Price.StringFixed(2)),
	)
	return &sale.ID, nil
}

// insertSale writes the sale for its proforma. ErrConversionConflict means
// another transaction already inserted one.
func (s *ProformaService) insertSale(ctx context.Context, tx *gorm.DB, sale *domain.Sale) error {
	created, err := s.saleRepo.CreateForProforma(ctx, tx, sale)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	if !created {
		return ErrConversionConflict
	}
	return nil
}

func (s *ProformaService) markConverted(ctx context.Context, tx *gorm.DB, proforma *domain.Proforma) error {
	if proforma.IsConvertedToSale {
		return nil
	}
	if err := s.proformaRepo.MarkConverted(ctx, tx, proforma.ID); err != nil {
		return fmt.Errorf("failed to mark proforma converted: %w", err)
	}
	proforma.IsConvertedToSale = true
	return nil
}

// GetByID returns a proforma together with the id of its sale, if any
func (s *ProformaService) GetByID(ctx context.Context, id uint) (*domain.ProformaDTO, error) {
	return s.toDTO(ctx, id, nil)
}

// List returns a page of proformas
func (s *ProformaService) List(ctx context.Context, page, pageSize int, filters *repository.ProformaFilters) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	proformas, total, err := s.proformaRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list proformas: %w", err)
	}

	dtos := make([]domain.ProformaDTO, len(proformas))
	for i := range proformas {
		dtos[i] = mapper.ToProformaDTO(&proformas[i], nil)
	}

	return newPaginatedResponse(dtos, total, page, pageSize), nil
}

// Delete removes a proforma that has not been converted to a sale
func (s *ProformaService) Delete(ctx context.Context, id uint) error {
	proforma, err := s.proformaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProformaNotFound
		}
		return fmt.Errorf("failed to get proforma: %w", err)
	}

	sales, err := s.saleRepo.CountByProformaID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check sales: %w", err)
	}
	if sales > 0 {
		return ErrProformaHasSale
	}

	if err := s.proformaRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProformaNotFound
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrProformaHasSale
		}
		return fmt.Errorf("failed to delete proforma: %w", err)
	}

	s.removeStoredObject(ctx, proforma.TechnicalDetailsPDF)
	logger.ForContext(ctx, s.logger).Info("proforma deleted", zap.Uint("proforma_id", id))
	return nil
}

// UploadAttachment stores a technical details PDF and replaces the previous one
func (s *ProformaService) UploadAttachment(ctx context.Context, id uint, filename, contentType string, data io.Reader) (*domain.ProformaDTO, error) {
	if !isPDF(filename, contentType) {
		return nil, domain.NewValidationError("file", "Only PDF documents are accepted")
	}

	proforma, err := s.proformaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProformaNotFound
		}
		return nil, fmt.Errorf("failed to get proforma: %w", err)
	}

	storagePath, size, err := s.storage.Upload(ctx, filename, "application/pdf", data)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	if err := s.proformaRepo.SetAttachment(ctx, id, storagePath); err != nil {
		s.removeStoredObject(ctx, storagePath)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProformaNotFound
		}
		return nil, fmt.Errorf("failed to save attachment reference: %w", err)
	}

	s.removeStoredObject(ctx, proforma.TechnicalDetailsPDF)
	logger.ForContext(ctx, s.logger).Info("proforma attachment uploaded",
		zap.Uint("proforma_id", id),
		zap.String("storage_path", storagePath),
		zap.Int64("size", size),
	)

	return s.toDTO(ctx, id, nil)
}

// DownloadAttachment opens the stored technical details PDF
func (s *ProformaService) DownloadAttachment(ctx context.Context, id uint) (io.ReadCloser, string, error) {
	proforma, err := s.proformaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrProformaNotFound
		}
		return nil, "", fmt.Errorf("failed to get proforma: %w", err)
	}
	if proforma.TechnicalDetailsPDF == "" {
		return nil, "", ErrAttachmentNotFound
	}

	reader, err := s.storage.Download(ctx, proforma.TechnicalDetailsPDF)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", ErrAttachmentNotFound
		}
		return nil, "", fmt.Errorf("failed to open attachment: %w", err)
	}

	filename := fmt.Sprintf("proforma-%d-technical-details.pdf", proforma.ID)
	return reader, filename, nil
}

// RenderPDF produces the printable proforma document
func (s *ProformaService) RenderPDF(ctx context.Context, id uint) ([]byte, string, error) {
	proforma, err := s.proformaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrProformaNotFound
		}
		return nil, "", fmt.Errorf("failed to get proforma: %w", err)
	}

	sale, err := s.saleRepo.FindByProformaID(ctx, nil, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get sale: %w", err)
	}

	doc, err := report.RenderProformaPDF(proforma, sale)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render proforma: %w", err)
	}
	return doc, fmt.Sprintf("proforma-%d.pdf", proforma.ID), nil
}

func (s *ProformaService) toDTO(ctx context.Context, id uint, saleID *uint) (*domain.ProformaDTO, error) {
	proforma, err := s.proformaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProformaNotFound
		}
		return nil, fmt.Errorf("failed to get proforma: %w", err)
	}

	if saleID == nil {
		sale, err := s.saleRepo.FindByProformaID(ctx, nil, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get sale: %w", err)
		}
		if sale != nil {
			saleID = &sale.ID
		}
	}

	dto := mapper.ToProformaDTO(proforma, saleID)
	return &dto, nil
}

func (s *ProformaService) ensureClient(ctx context.Context, clientID uint) error {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewValidationError("clientId", "Client does not exist")
		}
		return fmt.Errorf("failed to get client: %w", err)
	}
	return nil
}

func (s *ProformaService) removeStoredObject(ctx context.Context, storagePath string) {
	if storagePath == "" {
		return
	}
	if err := s.storage.Delete(ctx, storagePath); err != nil {
		logger.ForContext(ctx, s.logger).Warn("failed to delete stored attachment",
			zap.String("storage_path", storagePath),
			zap.Error(err),
		)
	}
}

// applyProformaUpdate copies the set fields of req onto proforma. The
// attachment reference is never taken from the request: an empty or echoed
// value keeps the stored one and anything else is rejected.
func applyProformaUpdate(proforma *domain.Proforma, req *domain.UpdateProformaRequest) error {
	if req.ClientID != nil {
		proforma.ClientID = *req.ClientID
	}
	if req.ProjectName != nil {
		proforma.ProjectName = strings.TrimSpace(*req.ProjectName)
	}
	if req.ProformaDate != nil {
		d, err := time.Parse(domain.DateFormat, *req.ProformaDate)
		if err != nil {
			return domain.NewValidationError("proformaDate", domain.GetValidationMessage("datetime"))
		}
		proforma.ProformaDate = d
	}
	if req.ValidUntil != nil {
		d, err := time.Parse(domain.DateFormat, *req.ValidUntil)
		if err != nil {
			return domain.NewValidationError("validUntil", domain.GetValidationMessage("datetime"))
		}
		proforma.ValidUntil = d
	}
	if proforma.ValidUntil.Before(proforma.ProformaDate) {
		return domain.NewValidationError("validUntil", "Must not be before the proforma date")
	}
	if req.Description != nil {
		proforma.Description = *req.Description
	}
	if req.TotalAmount != nil {
		proforma.TotalAmount = req.TotalAmount.Round(2)
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return domain.NewValidationError("status", domain.GetValidationMessage("oneof"))
		}
		proforma.Status = *req.Status
	}
	if req.TechnicalDetailsPDF != nil && *req.TechnicalDetailsPDF != "" &&
		*req.TechnicalDetailsPDF != proforma.TechnicalDetailsPDF {
		return domain.NewValidationError("technicalDetailsPdf", "Upload attachments through the attachment endpoint")
	}
	return nil
}

func parseProformaDates(proformaDate, validUntil string) (time.Time, time.Time, error) {
	from, err := time.Parse(domain.DateFormat, proformaDate)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("proformaDate", domain.GetValidationMessage("datetime"))
	}
	until, err := time.Parse(domain.DateFormat, validUntil)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("validUntil", domain.GetValidationMessage("datetime"))
	}
	if until.Before(from) {
		return time.Time{}, time.Time{}, domain.NewValidationError("validUntil", "Must not be before the proforma date")
	}
	return from, until, nil
}

func isPDF(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(contentType), "application/pdf")
}
