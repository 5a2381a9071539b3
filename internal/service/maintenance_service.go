package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/straye-as/elevator-api/internal/auth"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/logger"
	"github.com/straye-as/elevator-api/internal/mapper"
	"github.com/straye-as/elevator-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MaintenanceService struct {
	maintenanceRepo *repository.MaintenanceRepository
	projectRepo     *repository.ProjectRepository
	personnelRepo   *repository.PersonnelRepository
	logger          *zap.Logger
}

func NewMaintenanceService(
	maintenanceRepo *repository.MaintenanceRepository,
	projectRepo *repository.ProjectRepository,
	personnelRepo *repository.PersonnelRepository,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		maintenanceRepo: maintenanceRepo,
		projectRepo:     projectRepo,
		personnelRepo:   personnelRepo,
		logger:          logger,
	}
}

func (s *MaintenanceService) Create(ctx context.Context, req *domain.CreateMaintenanceRequest) (*domain.MaintenanceRequestDTO, error) {
	exists, err := s.projectRepo.Exists(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return nil, domain.NewValidationError("projectId", "Project does not exist")
	}
	if err := s.ensureAssignee(ctx, req.AssignedTo); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.MaintenanceStatusPending
	}

	request := &domain.MaintenanceRequest{
		ProjectID:   req.ProjectID,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	setMaintenanceStatus(request, status, time.Now().UTC())

	if err := s.maintenanceRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create maintenance request: %w", err)
	}

	logger.ForContext(ctx, s.logger).Info("maintenance request created",
		zap.Uint("request_id", request.ID),
		zap.String("project_id", request.ProjectID),
	)
	return s.GetByID(ctx, request.ID)
}

func (s *MaintenanceService) GetByID(ctx context.Context, id uint) (*domain.MaintenanceRequestDTO, error) {
	request, err := s.maintenanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		return nil, fmt.Errorf("failed to get maintenance request: %w", err)
	}
	dto := mapper.ToMaintenanceRequestDTO(request)
	return &dto, nil
}

// Update applies a partial update. Resolving a request stamps resolved_at and
// reopening it clears the stamp.
func (s *MaintenanceService) Update(ctx context.Context, id uint, req *domain.UpdateMaintenanceRequest) (*domain.MaintenanceRequestDTO, error) {
	request, err := s.maintenanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		return nil, fmt.Errorf("failed to get maintenance request: %w", err)
	}

	if req.AssignedTo != nil {
		if err := s.ensureAssignee(ctx, req.AssignedTo); err != nil {
			return nil, err
		}
		request.AssignedTo = req.AssignedTo
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.Status != nil {
		setMaintenanceStatus(request, *req.Status, time.Now().UTC())
	}
	request.Project, request.Assignee = nil, nil

	if err := s.maintenanceRepo.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update maintenance request: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *MaintenanceService) Delete(ctx context.Context, id uint) error {
	if err := s.maintenanceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaintenanceNotFound
		}
		return fmt.Errorf("failed to delete maintenance request: %w", err)
	}
	return nil
}

func (s *MaintenanceService) List(ctx context.Context, filters *repository.MaintenanceFilters) ([]domain.MaintenanceRequestDTO, error) {
	requests, err := s.maintenanceRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance requests: %w", err)
	}

	dtos := make([]domain.MaintenanceRequestDTO, len(requests))
	for i := range requests {
		dtos[i] = mapper.ToMaintenanceRequestDTO(&requests[i])
	}
	return dtos, nil
}

// AddLog records work done against a request. The author is taken from the
// authenticated user when present.
func (s *MaintenanceService) AddLog(ctx context.Context, requestID uint, req *domain.CreateMaintenanceLogRequest) (*domain.MaintenanceLogDTO, error) {
	if _, err := s.maintenanceRepo.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		return nil, fmt.Errorf("failed to get maintenance request: %w", err)
	}

	hours := decimal.Zero
	if req.HoursSpent != nil {
		if req.HoursSpent.IsNegative() {
			return nil, domain.NewValidationError("hoursSpent", "Must be a non-negative amount")
		}
		hours = req.HoursSpent.Round(2)
	}

	log := &domain.MaintenanceLog{
		RequestID:  requestID,
		WorkDone:   req.WorkDone,
		PartsUsed:  req.PartsUsed,
		HoursSpent: hours,
	}
	if userCtx, ok := auth.FromContext(ctx); ok && userCtx.UserID != 0 {
		userID := userCtx.UserID
		log.UpdatedBy = &userID
	}

	if err := s.maintenanceRepo.CreateLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create maintenance log: %w", err)
	}

	dto := mapper.ToMaintenanceLogDTO(log)
	return &dto, nil
}

func (s *MaintenanceService) ListLogs(ctx context.Context, requestID uint) ([]domain.MaintenanceLogDTO, error) {
	if _, err := s.maintenanceRepo.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		return nil, fmt.Errorf("failed to get maintenance request: %w", err)
	}

	logs, err := s.maintenanceRepo.ListLogs(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance logs: %w", err)
	}

	dtos := make([]domain.MaintenanceLogDTO, len(logs))
	for i := range logs {
		dtos[i] = mapper.ToMaintenanceLogDTO(&logs[i])
	}
	return dtos, nil
}

func (s *MaintenanceService) ensureAssignee(ctx context.Context, personnelID *uint) error {
	if personnelID == nil {
		return nil
	}
	if _, err := s.personnelRepo.GetByID(ctx, *personnelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewValidationError("assignedTo", "Personnel does not exist")
		}
		return fmt.Errorf("failed to check personnel: %w", err)
	}
	return nil
}

func setMaintenanceStatus(request *domain.MaintenanceRequest, status domain.MaintenanceStatus, now time.Time) {
	if status == domain.MaintenanceStatusResolved {
		if request.Status != domain.MaintenanceStatusResolved || request.ResolvedAt == nil {
			request.ResolvedAt = &now
		}
	} else {
		request.ResolvedAt = nil
	}
	request.Status = status
}
