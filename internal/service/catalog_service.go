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

// CatalogService serves one lookup table. T is the model, D its DTO and R the
// create/update request.
type CatalogService[T any, D any, R any] struct {
	repo     *repository.CatalogRepository[T]
	entity   string
	notFound error
	apply    func(*T, *R)
	toDTO    func(*T) D
	logger   *zap.Logger
}

// NewCatalogService wires a lookup table to its request and DTO mapping
func NewCatalogService[T any, D any, R any](
	repo *repository.CatalogRepository[T],
	entity string,
	apply func(*T, *R),
	toDTO func(*T) D,
	logger *zap.Logger,
) *CatalogService[T, D, R] {
	return &CatalogService[T, D, R]{
		repo:     repo,
		entity:   entity,
		notFound: fmt.Errorf("%s %w", entity, ErrNotFound),
		apply:    apply,
		toDTO:    toDTO,
		logger:   logger,
	}
}

func (s *CatalogService[T, D, R]) Create(ctx context.Context, req *R) (*D, error) {
	entity := new(T)
	s.apply(entity, req)

	if err := s.repo.Create(ctx, entity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCatalog
		}
		return nil, mapper.FormatError(s.entity, "create", err)
	}

	dto := s.toDTO(entity)
	return &dto, nil
}

func (s *CatalogService[T, D, R]) GetByID(ctx context.Context, id uint) (*D, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound
		}
		return nil, mapper.FormatError(s.entity, "get", err)
	}
	dto := s.toDTO(entity)
	return &dto, nil
}

func (s *CatalogService[T, D, R]) Update(ctx context.Context, id uint, req *R) (*D, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound
		}
		return nil, mapper.FormatError(s.entity, "get", err)
	}

	s.apply(entity, req)
	if err := s.repo.Update(ctx, entity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCatalog
		}
		return nil, mapper.FormatError(s.entity, "update", err)
	}

	dto := s.toDTO(entity)
	return &dto, nil
}

func (s *CatalogService[T, D, R]) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.notFound
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: %s is still in use", ErrConflict, s.entity)
		}
		return mapper.FormatError(s.entity, "delete", err)
	}
	logger.ForContext(ctx, s.logger).Info("catalog entry deleted", zap.String("entity", s.entity), zap.Uint("id", id))
	return nil
}

func (s *CatalogService[T, D, R]) List(ctx context.Context) ([]D, error) {
	entities, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError(s.entity, "list", err)
	}

	dtos := make([]D, len(entities))
	for i := range entities {
		dtos[i] = s.toDTO(&entities[i])
	}
	return dtos, nil
}

type (
	AreaTypeService      = CatalogService[domain.AreaType, domain.AreaTypeDTO, domain.AreaTypeRequest]
	AreaStatusService    = CatalogService[domain.AreaStatus, domain.StatusDTO, domain.StatusRequest]
	ProjectStatusService = CatalogService[domain.ProjectStatus, domain.StatusDTO, domain.StatusRequest]
	ProjectTypeService   = CatalogService[domain.ProjectType, domain.ProjectTypeDTO, domain.ProjectTypeRequest]
	ElevatorModelService = CatalogService[domain.ElevatorModel, domain.ElevatorModelDTO, domain.ElevatorModelRequest]
)

func NewAreaTypeService(repo *repository.CatalogRepository[domain.AreaType], logger *zap.Logger) *AreaTypeService {
	return NewCatalogService(repo, "area", func(a *domain.AreaType, r *domain.AreaTypeRequest) {
		a.Name = r.Name
	}, mapper.ToAreaTypeDTO, logger)
}

func NewAreaStatusService(repo *repository.CatalogRepository[domain.AreaStatus], logger *zap.Logger) *AreaStatusService {
	return NewCatalogService(repo, "area status", func(a *domain.AreaStatus, r *domain.StatusRequest) {
		a.Description = r.Description
	}, mapper.ToAreaStatusDTO, logger)
}

func NewProjectStatusService(repo *repository.CatalogRepository[domain.ProjectStatus], logger *zap.Logger) *ProjectStatusService {
	return NewCatalogService(repo, "project status", func(p *domain.ProjectStatus, r *domain.StatusRequest) {
		p.Description = r.Description
	}, mapper.ToProjectStatusDTO, logger)
}

func NewProjectTypeService(repo *repository.CatalogRepository[domain.ProjectType], logger *zap.Logger) *ProjectTypeService {
	return NewCatalogService(repo, "project type", func(p *domain.ProjectType, r *domain.ProjectTypeRequest) {
		p.Name = r.Name
	}, mapper.ToProjectTypeDTO, logger)
}

func NewElevatorModelService(repo *repository.CatalogRepository[domain.ElevatorModel], logger *zap.Logger) *ElevatorModelService {
	return NewCatalogService(repo, "elevator model", func(m *domain.ElevatorModel, r *domain.ElevatorModelRequest) {
		m.Name = r.Name
		m.Manufacturer = r.Manufacturer
		m.CapacityKg = r.CapacityKg
		m.MaxFloors = r.MaxFloors
		m.Description = r.Description
	}, mapper.ToElevatorModelDTO, logger)
}
