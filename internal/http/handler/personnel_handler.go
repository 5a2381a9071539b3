package handler

import (
	"net/http"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/service"
	"go.uber.org/zap"
)

type PersonnelHandler struct {
	personnelService *service.PersonnelService
	logger           *zap.Logger
}

func NewPersonnelHandler(personnelService *service.PersonnelService, logger *zap.Logger) *PersonnelHandler {
	return &PersonnelHandler{
		personnelService: personnelService,
		logger:           logger,
	}
}

// List godoc
// @Summary List personnel
// @Tags Personnel
// @Produce json
// @Param area_id query int false "Filter by area"
// @Success 200 {array} domain.PersonnelDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /personnel [get]
func (h *PersonnelHandler) List(w http.ResponseWriter, r *http.Request) {
	areaID, err := queryUint(r, "area_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	personnel, err := h.personnelService.List(r.Context(), areaID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, personnel)
}

// GetByID godoc
// @Summary Get personnel
// @Tags Personnel
// @Produce json
// @Param id path int true "Personnel ID"
// @Success 200 {object} domain.PersonnelDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /personnel/{id} [get]
func (h *PersonnelHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "personnel")
	if !ok {
		return
	}

	person, err := h.personnelService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, person)
}

// Create godoc
// @Summary Create personnel
// @Tags Personnel
// @Accept json
// @Produce json
// @Param request body domain.PersonnelRequest true "Personnel data"
// @Success 201 {object} domain.PersonnelDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /personnel [post]
func (h *PersonnelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.PersonnelRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	person, err := h.personnelService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, person)
}

// Update godoc
// @Summary Update personnel
// @Tags Personnel
// @Accept json
// @Produce json
// @Param id path int true "Personnel ID"
// @Param request body domain.PersonnelRequest true "Personnel data"
// @Success 200 {object} domain.PersonnelDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /personnel/{id} [put]
func (h *PersonnelHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "personnel")
	if !ok {
		return
	}

	var req domain.PersonnelRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	person, err := h.personnelService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, person)
}

// Delete godoc
// @Summary Delete personnel
// @Tags Personnel
// @Param id path int true "Personnel ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /personnel/{id} [delete]
func (h *PersonnelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "personnel")
	if !ok {
		return
	}

	if err := h.personnelService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
