package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/service"
	"go.uber.org/zap"
)

// AssignmentHandler handles HTTP requests for project assignments. Assignments
// are addressed by the composite key "{project}-{area}-{personnel}".
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
	logger            *zap.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignmentService *service.AssignmentService, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// List godoc
// @Summary List project assignments
// @Tags Assignments
// @Produce json
// @Param project_id query string false "Filter by project"
// @Success 200 {array} domain.AssignmentDTO
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /project-assignments [get]
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignmentService.List(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, assignments)
}

// Create godoc
// @Summary Get or create a project assignment
// @Description Returns the existing assignment for the (project, area, personnel) triple, or creates it.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param request body domain.CreateAssignmentRequest true "Assignment triple"
// @Success 200 {object} domain.AssignmentDTO "Assignment already existed"
// @Success 201 {object} domain.AssignmentDTO "Assignment created"
// @Failure 400 {object} domain.APIError "Invalid reference"
// @Failure 500 {object} domain.APIError "Duplicate rows for the triple"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /project-assignments [post]
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAssignmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	assignment, created, err := h.assignmentService.GetOrCreate(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, assignment)
}

// Get godoc
// @Summary Get project assignment
// @Tags Assignments
// @Produce json
// @Param key path string true "Composite key {project}-{area}-{personnel}"
// @Success 200 {object} domain.AssignmentDTO
// @Failure 400 {object} domain.APIError "Malformed key"
// @Failure 404 {object} domain.APIError "Assignment not found"
// @Failure 500 {object} domain.APIError "Duplicate rows for the key"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /project-assignments/{key} [get]
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.assignmentService.GetByKey(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, assignment)
}

// Update godoc
// @Summary Update project assignment status
// @Tags Assignments
// @Accept json
// @Produce json
// @Param key path string true "Composite key {project}-{area}-{personnel}"
// @Param request body domain.UpdateAssignmentRequest true "New area status"
// @Success 200 {object} domain.AssignmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /project-assignments/{key} [patch]
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAssignmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	assignment, err := h.assignmentService.Update(r.Context(), chi.URLParam(r, "key"), &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, assignment)
}

// Delete godoc
// @Summary Delete project assignment
// @Tags Assignments
// @Param key path string true "Composite key {project}-{area}-{personnel}"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /project-assignments/{key} [delete]
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.assignmentService.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
