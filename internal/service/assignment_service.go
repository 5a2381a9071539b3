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

// AssignmentService resolves project assignments by their composite key
// "{project}-{area}-{personnel}" and manages their lifecycle.
type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	projectRepo    *repository.ProjectRepository
	personnelRepo  *repository.PersonnelRepository
	areaRepo       *repository.CatalogRepository[domain.AreaType]
	areaStatusRepo *repository.CatalogRepository[domain.AreaStatus]
	logger         *zap.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	projectRepo *repository.ProjectRepository,
	personnelRepo *repository.PersonnelRepository,
	areaRepo *repository.CatalogRepository[domain.AreaType],
	areaStatusRepo *repository.CatalogRepository[domain.AreaStatus],
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		projectRepo:    projectRepo,
		personnelRepo:  personnelRepo,
		areaRepo:       areaRepo,
		areaStatusRepo: areaStatusRepo,
		logger:         logger,
	}
}

// Resolve returns the single assignment matching the key. Zero matches yield
// ErrAssignmentNotFound; more than one yields ErrIntegrityFault.
func (s *AssignmentService) Resolve(ctx context.Context, key domain.AssignmentKey) (*domain.ProjectAssignment, error) {
	matches, err := s.assignmentRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up assignment: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, ErrAssignmentNotFound
	case 1:
		return &matches[0], nil
	default:
		logger.ForContext(ctx, s.logger).Error("multiple assignments share one composite key",
			zap.String("key", key.String()),
			zap.Uint("first_id", matches[0].ID),
			zap.Uint("second_id", matches[1].ID),
		)
		return nil, fmt.Errorf("%w: duplicate assignments for %s", ErrIntegrityFault, key)
	}
}

// ResolveIdentifier decodes the external identifier and resolves it.
// Malformed identifiers fail before any lookup.
func (s *AssignmentService) ResolveIdentifier(ctx context.Context, identifier string) (*domain.ProjectAssignment, error) {
	key, err := domain.DecodeAssignmentKey(identifier)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, key)
}

// GetByKey returns the assignment for an external identifier as a DTO
func (s *AssignmentService) GetByKey(ctx context.Context, identifier string) (*domain.AssignmentDTO, error) {
	assignment, err := s.ResolveIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToAssignmentDTO(assignment)
	return &dto, nil
}

// GetOrCreate returns the assignment for the triple, creating it when absent.
// The boolean reports whether a new row was written.
func (s *AssignmentService) GetOrCreate(ctx context.Context, req *domain.CreateAssignmentRequest) (*domain.AssignmentDTO, bool, error) {
	if err := s.validateReferences(ctx, req.Project, req.Area, req.Personnel, req.AreaStatus); err != nil {
		return nil, false, err
	}

	assignment := &domain.ProjectAssignment{
		ProjectID:    req.Project,
		AreaID:       req.Area,
		PersonnelID:  req.Personnel,
		AreaStatusID: req.AreaStatus,
	}

	created, err := s.assignmentRepo.CreateIfAbsent(ctx, assignment)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create assignment: %w", err)
	}

	stored, err := s.Resolve(ctx, assignment.Key())
	if err != nil {
		return nil, false, err
	}

	if created {
		logger.ForContext(ctx, s.logger).Info("project assignment created", zap.String("key", stored.Key().String()))
	}

	dto := mapper.ToAssignmentDTO(stored)
	return &dto, created, nil
}

// Update changes the area status of an assignment
func (s *AssignmentService) Update(ctx context.Context, identifier string, req *domain.UpdateAssignmentRequest) (*domain.AssignmentDTO, error) {
	assignment, err := s.ResolveIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if req.AreaStatus != nil {
		exists, err := s.areaStatusRepo.Exists(ctx, *req.AreaStatus)
		if err != nil {
			return nil, fmt.Errorf("failed to check area status: %w", err)
		}
		if !exists {
			return nil, domain.NewValidationError("areaStatus", "Area status does not exist")
		}
	}

	if err := s.assignmentRepo.UpdateAreaStatus(ctx, assignment.ID, req.AreaStatus); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	updated, err := s.Resolve(ctx, assignment.Key())
	if err != nil {
		return nil, err
	}
	dto := mapper.ToAssignmentDTO(updated)
	return &dto, nil
}

// Delete removes the assignment identified by the composite key
func (s *AssignmentService) Delete(ctx context.Context, identifier string) error {
	assignment, err := s.ResolveIdentifier(ctx, identifier)
	if err != nil {
		return err
	}

	if err := s.assignmentRepo.Delete(ctx, assignment.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	logger.ForContext(ctx, s.logger).Info("project assignment deleted", zap.String("key", identifier))
	return nil
}

// List returns assignments, optionally restricted to one project
func (s *AssignmentService) List(ctx context.Context, projectID string) ([]domain.AssignmentDTO, error) {
	assignments, err := s.assignmentRepo.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	dtos := make([]domain.AssignmentDTO, len(assignments))
	for i := range assignments {
		dtos[i] = mapper.ToAssignmentDTO(&assignments[i])
	}
	return dtos, nil
}

func (s *AssignmentService) validateReferences(ctx context.Context, projectID string, areaID, personnelID uint, areaStatusID *uint) error {
	fields := make(map[string]string)

	projectExists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	if !projectExists {
		fields["project"] = "Project does not exist"
	}

	areaExists, err := s.areaRepo.Exists(ctx, areaID)
	if err != nil {
		return fmt.Errorf("failed to check area: %w", err)
	}
	if !areaExists {
		fields["area"] = "Area does not exist"
	}

	if _, err := s.personnelRepo.GetByID(ctx, personnelID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check personnel: %w", err)
		}
		fields["personnel"] = "Personnel does not exist"
	}

	if areaStatusID != nil {
		statusExists, err := s.areaStatusRepo.Exists(ctx, *areaStatusID)
		if err != nil {
			return fmt.Errorf("failed to check area status: %w", err)
		}
		if !statusExists {
			fields["areaStatus"] = "Area status does not exist"
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
