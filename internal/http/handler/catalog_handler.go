package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// catalogService is the CRUD surface shared by all lookup tables
type catalogService[D any, R any] interface {
	Create(ctx context.Context, req *R) (*D, error)
	GetByID(ctx context.Context, id uint) (*D, error)
	Update(ctx context.Context, id uint, req *R) (*D, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]D, error)
}

// CatalogHandler serves one lookup table (areas, statuses, project types,
// elevator models). D is the response DTO and R the request body.
type CatalogHandler[D any, R any] struct {
	service catalogService[D, R]
	entity  string
	logger  *zap.Logger
}

func NewCatalogHandler[D any, R any](svc catalogService[D, R], entity string, logger *zap.Logger) *CatalogHandler[D, R] {
	return &CatalogHandler[D, R]{
		service: svc,
		entity:  entity,
		logger:  logger,
	}
}

func (h *CatalogHandler[D, R]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *CatalogHandler[D, R]) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", h.entity)
	if !ok {
		return
	}

	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler[D, R]) Create(w http.ResponseWriter, r *http.Request) {
	req := new(R)
	if !decodeAndValidate(w, r, req) {
		return
	}

	item, err := h.service.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *CatalogHandler[D, R]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", h.entity)
	if !ok {
		return
	}

	req := new(R)
	if !decodeAndValidate(w, r, req) {
		return
	}

	item, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler[D, R]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", h.entity)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
