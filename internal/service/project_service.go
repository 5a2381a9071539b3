package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/logger"
	"github.com/straye-as/elevator-api/internal/mapper"
	"github.com/straye-as/elevator-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	saleRepo    *repository.SaleRepository
	statusRepo  *repository.CatalogRepository[domain.ProjectStatus]
	typeRepo    *repository.CatalogRepository[domain.ProjectType]
	logger      *zap.Logger
}

func NewProjectService(
	projectRepo *repository.ProjectRepository,
	saleRepo *repository.SaleRepository,
	statusRepo *repository.CatalogRepository[domain.ProjectStatus],
	typeRepo *repository.CatalogRepository[domain.ProjectType],
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		saleRepo:    saleRepo,
		statusRepo:  statusRepo,
		typeRepo:    typeRepo,
		logger:      logger,
	}
}

// Create stores a project under its caller-supplied id
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, domain.NewValidationError("id", domain.GetValidationMessage("required"))
	}

	exists, err := s.projectRepo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check project: %w", err)
	}
	if exists {
		return nil, ErrDuplicateProject
	}

	project := &domain.Project{ID: id}
	if err := s.apply(ctx, project, req.Name, req.StartDate, req.EndDate, req.Notes, req.SaleID, req.StatusID, req.TypeID); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateProject
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	logger.ForContext(ctx, s.logger).Info("project created", zap.String("project_id", project.ID))
	return s.GetByID(ctx, project.ID)
}

func (s *ProjectService) GetByID(ctx context.Context, id string) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := s.apply(ctx, project, req.Name, req.StartDate, req.EndDate, req.Notes, req.SaleID, req.StatusID, req.TypeID); err != nil {
		return nil, err
	}
	project.Sale, project.Status, project.Type = nil, nil, nil

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: project has assignments or maintenance requests", ErrConflict)
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	logger.ForContext(ctx, s.logger).Info("project deleted", zap.String("project_id", id))
	return nil
}

func (s *ProjectService) List(ctx context.Context, page, pageSize int, filters *repository.ProjectFilters) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	projects, total, err := s.projectRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	dtos := make([]domain.ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = mapper.ToProjectDTO(&projects[i])
	}
	return newPaginatedResponse(dtos, total, page, pageSize), nil
}

func (s *ProjectService) apply(ctx context.Context, project *domain.Project, name, startDate, endDate, notes string, saleID, statusID, typeID *uint) error {
	fields := make(map[string]string)

	start, err := mapper.ParseDate(startDate)
	if err != nil {
		fields["startDate"] = domain.GetValidationMessage("datetime")
	}
	end, err := mapper.ParseDate(endDate)
	if err != nil {
		fields["endDate"] = domain.GetValidationMessage("datetime")
	}
	if start != nil && end != nil && end.Before(*start) {
		fields["endDate"] = "Must not be before the start date"
	}

	if saleID != nil {
		if _, err := s.saleRepo.GetByID(ctx, *saleID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check sale: %w", err)
			}
			fields["saleId"] = "Sale does not exist"
		}
	}
	if statusID != nil {
		exists, err := s.statusRepo.Exists(ctx, *statusID)
		if err != nil {
			return fmt.Errorf("failed to check project status: %w", err)
		}
		if !exists {
			fields["statusId"] = "Project status does not exist"
		}
	}
	if typeID != nil {
		exists, err := s.typeRepo.Exists(ctx, *typeID)
		if err != nil {
			return fmt.Errorf("failed to check project type: %w", err)
		}
		if !exists {
			fields["typeId"] = "Project type does not exist"
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}

	project.Name = name
	project.StartDate = start
	project.EndDate = end
	project.Notes = notes
	project.SaleID = saleID
	project.StatusID = statusID
	project.TypeID = typeID
	return nil
}
