package service

import (
	"context"
	"fmt"
	"time"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/mapper"
	"github.com/straye-as/elevator-api/internal/repository"
	"go.uber.org/zap"
)

// Unit statuses derived from the payment state of a project's sale
const (
	UnitStatusOperational = "Operational"
	UnitStatusMaintenance = "Maintenance"
)

type ReportService struct {
	reportRepo      *repository.ReportRepository
	maintenanceRepo *repository.MaintenanceRepository
	logger          *zap.Logger
}

func NewReportService(
	reportRepo *repository.ReportRepository,
	maintenanceRepo *repository.MaintenanceRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:      reportRepo,
		maintenanceRepo: maintenanceRepo,
		logger:          logger,
	}
}

func (s *ReportService) Projects(ctx context.Context, filters *repository.ReportFilters) ([]domain.ProjectReportRow, error) {
	records, err := s.reportRepo.Projects(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to build projects report: %w", err)
	}

	rows := make([]domain.ProjectReportRow, len(records))
	for i, r := range records {
		row := domain.ProjectReportRow{
			ProjectID:     r.ProjectID,
			ProjectName:   r.ProjectName,
			StartDate:     mapper.FormatDate(r.StartDate),
			EndDate:       mapper.FormatDate(r.EndDate),
			StatusID:      r.StatusID,
			Status:        deref(r.Status),
			TypeID:        r.TypeID,
			Type:          deref(r.Type),
			SaleID:        r.SaleID,
			ClientID:      r.ClientID,
			Paid:          r.Paid != nil && *r.Paid,
			PaymentDate:   mapper.FormatDate(r.PaymentDate),
			PaymentMethod: deref(r.PaymentMethod),
			ProformaID:    r.ProformaID,
		}
		if r.Price.Valid {
			price := r.Price.Decimal
			row.Price = &price
		}
		rows[i] = row
	}
	return rows, nil
}

// Units reports one unit per project. The status filter applies to the derived
// unit status, so it runs after the query.
func (s *ReportService) Units(ctx context.Context, filters *repository.ReportFilters) ([]domain.UnitReportRow, error) {
	records, err := s.reportRepo.Units(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to build units report: %w", err)
	}

	projectIDs := make([]string, len(records))
	for i, r := range records {
		projectIDs[i] = r.ProjectID
	}
	openIssues, err := s.maintenanceRepo.CountOpenByProject(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count open maintenance requests: %w", err)
	}

	rows := make([]domain.UnitReportRow, 0, len(records))
	for _, r := range records {
		status := UnitStatusMaintenance
		if r.Paid != nil && *r.Paid {
			status = UnitStatusOperational
		}
		if filters.Status != "" && filters.Status != status {
			continue
		}

		rows = append(rows, domain.UnitReportRow{
			ID:             r.ProjectID,
			ProjectID:      r.ProjectID,
			Site:           r.ProjectName,
			UnitType:       "Project",
			Status:         status,
			LastInspection: lastInspection(r.StartDate, r.PaymentDate),
			OpenIssues:     openIssues[r.ProjectID],
		})
	}
	return rows, nil
}

func (s *ReportService) Proformas(ctx context.Context, filters *repository.ReportFilters) ([]domain.ProformaReportRow, error) {
	records, err := s.reportRepo.Proformas(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to build proformas report: %w", err)
	}

	rows := make([]domain.ProformaReportRow, len(records))
	for i, r := range records {
		rows[i] = domain.ProformaReportRow{
			ProformaID:          r.ProformaID,
			ClientID:            r.ClientID,
			ClientName:          deref(r.ClientName),
			ProjectName:         r.ProjectName,
			ProformaDate:        mapper.FormatDate(r.ProformaDate),
			ValidUntil:          mapper.FormatDate(r.ValidUntil),
			TotalAmount:         r.TotalAmount,
			Status:              r.Status,
			IsConvertedToSale:   r.IsConvertedToSale,
			TechnicalDetailsPDF: deref(r.TechnicalDetailsPDF),
		}
	}
	return rows, nil
}

func (s *ReportService) Sales(ctx context.Context, filters *repository.ReportFilters) ([]domain.SaleReportRow, error) {
	records, err := s.reportRepo.Sales(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to build sales report: %w", err)
	}

	rows := make([]domain.SaleReportRow, len(records))
	for i, r := range records {
		rows[i] = domain.SaleReportRow{
			SaleID:        r.SaleID,
			ClientID:      r.ClientID,
			ClientName:    deref(r.ClientName),
			ModelID:       r.ModelID,
			ModelName:     deref(r.ModelName),
			Price:         r.Price,
			Paid:          r.Paid,
			PaymentDate:   mapper.FormatDate(r.PaymentDate),
			PaymentMethod: deref(r.PaymentMethod),
			ProformaID:    r.ProformaID,
			Notes:         deref(r.Notes),
		}
	}
	return rows, nil
}

func lastInspection(startDate, paymentDate *time.Time) string {
	if startDate != nil {
		return mapper.FormatDate(startDate)
	}
	return mapper.FormatDate(paymentDate)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
