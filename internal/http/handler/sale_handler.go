package handler

import (
	"net/http"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"go.uber.org/zap"
)

type SaleHandler struct {
	saleService *service.SaleService
	logger      *zap.Logger
}

func NewSaleHandler(saleService *service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		logger:      logger,
	}
}

// List godoc
// @Summary List sales
// @Tags Sales
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param paid query bool false "Filter by paid flag"
// @Param client_id query int false "Filter by client"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.SaleDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales [get]
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	clientID, err := queryUint(r, "client_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := &repository.SaleFilters{
		Paid:     queryBool(r, "paid"),
		ClientID: clientID,
	}

	result, err := h.saleService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get sale
// @Tags Sales
// @Produce json
// @Param id path int true "Sale ID"
// @Success 200 {object} domain.SaleDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales/{id} [get]
func (h *SaleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, sale)
}

// Create godoc
// @Summary Create sale
// @Description A sale must reference an existing proforma and carry the same client
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body domain.SaleRequest true "Sale data"
// @Success 201 {object} domain.SaleDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Proforma already has a sale"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales [post]
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SaleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sale, err := h.saleService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, sale)
}

// Update godoc
// @Summary Update sale
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path int true "Sale ID"
// @Param request body domain.SaleRequest true "Sale data"
// @Success 200 {object} domain.SaleDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales/{id} [put]
func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "sale")
	if !ok {
		return
	}

	var req domain.SaleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sale, err := h.saleService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, sale)
}

// Delete godoc
// @Summary Delete sale
// @Tags Sales
// @Param id path int true "Sale ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales/{id} [delete]
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "sale")
	if !ok {
		return
	}

	if err := h.saleService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
