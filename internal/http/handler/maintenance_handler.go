package handler

import (
	"net/http"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"go.uber.org/zap"
)

type MaintenanceHandler struct {
	maintenanceService *service.MaintenanceService
	logger             *zap.Logger
}

func NewMaintenanceHandler(maintenanceService *service.MaintenanceService, logger *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// List godoc
// @Summary List maintenance requests
// @Tags Maintenance
// @Produce json
// @Param project_id query string false "Filter by project"
// @Param status query string false "Filter by status" Enums(Pending, In Progress, Resolved)
// @Param assigned_to query int false "Filter by assignee"
// @Success 200 {array} domain.MaintenanceRequestDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /maintenance [get]
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	assignedTo, err := queryUint(r, "assigned_to")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := &repository.MaintenanceFilters{
		ProjectID:  r.URL.Query().Get("project_id"),
		AssignedTo: assignedTo,
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.MaintenanceStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of Pending, In Progress, Resolved")
			return
		}
		filters.Status = &status
	}

	requests, err := h.maintenanceService.List(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// GetByID godoc
// @Summary Get maintenance request
// @Tags Maintenance
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} domain.MaintenanceRequestDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /maintenance/{id} [get]
func (h *MaintenanceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "maintenance request")
	if !ok {
		return
	}

	request, err := h.maintenanceService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, request)
}

// Create godoc
// @Summary Create maintenance request
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body domain.CreateMaintenanceRequest true "Request data"
// @Success 201 {object} domain.MaintenanceRequestDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /maintenance [post]
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMaintenanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	request, err := h.maintenanceService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, request)
}

// Update godoc
// @Summary Update maintenance request
// @Description Moving to Resolved stamps resolvedAt; moving away clears it
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body domain.UpdateMaintenanceRequest true "Fields to change"
// @Success 200 {object} domain.MaintenanceRequestDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /maintenance/{id} [patch]
func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "maintenance request")
	if !ok {
		return
	}

	var req domain.UpdateMaintenanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	request, err := h.maintenanceService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, request)
}

// Delete godoc
// @Summary Delete maintenance request
// @Tags Maintenance
// @Param id path int true "Request ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /maintenance/{id} [delete]
func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "maintenance request")
	if !ok {
		return
	}

	if err := h.maintenanceService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddLog godoc
// @Summary Add a work log to a maintenance request
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body domain.CreateMaintenanceLogRequest true "Log entry"
// @Success 201 {object} domain.MaintenanceLogDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /maintenance/{id}/logs [post]
func (h *MaintenanceHandler) AddLog(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "maintenance request")
	if !ok {
		return
	}

	var req domain.CreateMaintenanceLogRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.maintenanceService.AddLog(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

// ListLogs godoc
// @Summary List work logs of a maintenance request
// @Tags Maintenance
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {array} domain.MaintenanceLogDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /maintenance/{id}/logs [get]
func (h *MaintenanceHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "maintenance request")
	if !ok {
		return
	}

	logs, err := h.maintenanceService.ListLogs(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, logs)
}
