package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"go.uber.org/zap"
)

// ProformaHandler handles proforma CRUD, the technical attachment and the
// rendered document. Create and update drive the proforma-to-sale conversion.
type ProformaHandler struct {
	proformaService *service.ProformaService
	maxUploadMB     int64
	logger          *zap.Logger
}

func NewProformaHandler(proformaService *service.ProformaService, maxUploadMB int64, logger *zap.Logger) *ProformaHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &ProformaHandler{
		proformaService: proformaService,
		maxUploadMB:     maxUploadMB,
		logger:          logger,
	}
}

// List godoc
// @Summary List proformas
// @Tags Proformas
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(Pending, Accepted, Rejected)
// @Param client_id query int false "Filter by client"
// @Param converted query bool false "Filter by conversion to sale"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ProformaDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proformas [get]
func (h *ProformaHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	clientID, err := queryUint(r, "client_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := &repository.ProformaFilters{
		ClientID:  clientID,
		Converted: queryBool(r, "converted"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.ProformaStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of Pending, Accepted, Rejected")
			return
		}
		filters.Status = &status
	}

	result, err := h.proformaService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get proforma
// @Tags Proformas
// @Produce json
// @Param id path int true "Proforma ID"
// @Success 200 {object} domain.ProformaDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proformas/{id} [get]
func (h *ProformaHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "proforma")
	if !ok {
		return
	}

	proforma, err := h.proformaService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, proforma)
}

// Create godoc
// @Summary Create proforma
// @Description Creating a proforma with status Accepted also creates its sale
// @Tags Proformas
// @Accept json
// @Produce json
// @Param request body domain.CreateProformaRequest true "Proforma data"
// @Success 201 {object} domain.ProformaDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proformas [post]
func (h *ProformaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProformaRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	proforma, err := h.proformaService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, proforma)
}

// Update godoc
// @Summary Update proforma
// @Description Moving the status to Accepted creates the sale once. Omitted fields are preserved.
// @Tags Proformas
// @Accept json
// @Produce json
// @Param id path int true "Proforma ID"
// @Param request body domain.UpdateProformaRequest true "Fields to change"
// @Success 200 {object} domain.ProformaDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proformas/{id} [put]
func (h *ProformaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "proforma")
	if !ok {
		return
	}

	var req domain.UpdateProformaRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	proforma, err := h.proformaService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, proforma)
}

// Delete godoc
// @Summary Delete proforma
// @Tags Proformas
// @Param id path int true "Proforma ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Proforma has a sale"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proformas/{id} [delete]
func (h *ProformaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "proforma")
	if !ok {
		return
	}

	if err := h.proformaService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadAttachment godoc
// @Summary Upload technical details PDF
// @Description Replaces any previously stored attachment
// @Tags Proformas
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Proforma ID"
// @Param file formData file true "PDF document"
// @Success 200 {object} domain.ProformaDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proformas/{id}/attachment [post]
func (h *ProformaHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "proforma")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	proforma, err := h.proformaService.UploadAttachment(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, proforma)
}

// DownloadAttachment godoc
// @Summary Download technical details PDF
// @Tags Proformas
// @Produce application/pdf
// @Param id path int true "Proforma ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proformas/{id}/attachment [get]
func (h *ProformaHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "proforma")
	if !ok {
		return
	}

	reader, filename, err := h.proformaService.DownloadAttachment(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "application/pdf")

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("attachment stream interrupted", zap.Uint("proforma_id", id), zap.Error(err))
	}
}

// RenderPDF godoc
// @Summary Render proforma document
// @Tags Proformas
// @Produce application/pdf
// @Param id path int true "Proforma ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /proformas/{id}/pdf [get]
func (h *ProformaHandler) RenderPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "proforma")
	if !ok {
		return
	}

	doc, filename, err := h.proformaService.RenderPDF(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondFile(w, "application/pdf", filename, doc)
}
