package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/mapper"
	"github.com/straye-as/elevator-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PersonnelService struct {
	personnelRepo *repository.PersonnelRepository
	areaRepo      *repository.CatalogRepository[domain.AreaType]
	logger        *zap.Logger
}

func NewPersonnelService(
	personnelRepo *repository.PersonnelRepository,
	areaRepo *repository.CatalogRepository[domain.AreaType],
	logger *zap.Logger,
) *PersonnelService {
	return &PersonnelService{
		personnelRepo: personnelRepo,
		areaRepo:      areaRepo,
		logger:        logger,
	}
}

func (s *PersonnelService) Create(ctx context.Context, req *domain.PersonnelRequest) (*domain.PersonnelDTO, error) {
	person := &domain.Personnel{}
	if err := s.apply(ctx, person, req); err != nil {
		return nil, err
	}

	if err := s.personnelRepo.Create(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to create personnel: %w", err)
	}

	return s.GetByID(ctx, person.ID)
}

func (s *PersonnelService) GetByID(ctx context.Context, id uint) (*domain.PersonnelDTO, error) {
	person, err := s.personnelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		return nil, fmt.Errorf("failed to get personnel: %w", err)
	}
	dto := mapper.ToPersonnelDTO(person)
	return &dto, nil
}

func (s *PersonnelService) Update(ctx context.Context, id uint, req *domain.PersonnelRequest) (*domain.PersonnelDTO, error) {
	person, err := s.personnelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		return nil, fmt.Errorf("failed to get personnel: %w", err)
	}

	if err := s.apply(ctx, person, req); err != nil {
		return nil, err
	}
	person.Area = nil

	if err := s.personnelRepo.Update(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to update personnel: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *PersonnelService) Delete(ctx context.Context, id uint) error {
	if err := s.personnelRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonnelNotFound
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: personnel has project assignments", ErrConflict)
		}
		return fmt.Errorf("failed to delete personnel: %w", err)
	}
	return nil
}

// List returns personnel, optionally only those working in one area
func (s *PersonnelService) List(ctx context.Context, areaID *uint) ([]domain.PersonnelDTO, error) {
	people, err := s.personnelRepo.List(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel: %w", err)
	}

	dtos := make([]domain.PersonnelDTO, len(people))
	for i := range people {
		dtos[i] = mapper.ToPersonnelDTO(&people[i])
	}
	return dtos, nil
}

func (s *PersonnelService) apply(ctx context.Context, person *domain.Personnel, req *domain.PersonnelRequest) error {
	if req.AreaID != nil {
		exists, err := s.areaRepo.Exists(ctx, *req.AreaID)
		if err != nil {
			return fmt.Errorf("failed to check area: %w", err)
		}
		if !exists {
			return domain.NewValidationError("areaId", "Area does not exist")
		}
	}

	person.FirstName = req.FirstName
	person.LastName = req.LastName
	person.Phone = req.Phone
	person.Email = req.Email
	person.AreaID = req.AreaID
	return nil
}
