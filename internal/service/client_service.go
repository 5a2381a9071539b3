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

type ClientService struct {
	clientRepo *repository.ClientRepository
	logger     *zap.Logger
}

func NewClientService(clientRepo *repository.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

func (s *ClientService) Create(ctx context.Context, req *domain.ClientRequest) (*domain.ClientDTO, error) {
	client := &domain.Client{}
	mapper.ApplyClientRequest(client, req)

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.ForContext(ctx, s.logger).Info("client created", zap.Uint("client_id", client.ID))
	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uint) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) Update(ctx context.Context, id uint, req *domain.ClientRequest) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	mapper.ApplyClientRequest(client, req)
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// Delete removes a client that no proforma or sale references
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	inUse, err := s.clientRepo.HasDependents(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check client references: %w", err)
	}
	if inUse {
		return ErrClientInUse
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrClientInUse
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}

	logger.ForContext(ctx, s.logger).Info("client deleted", zap.Uint("client_id", id))
	return nil
}

func (s *ClientService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	clients, total, err := s.clientRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = mapper.ToClientDTO(&clients[i])
	}
	return newPaginatedResponse(dtos, total, page, pageSize), nil
}
