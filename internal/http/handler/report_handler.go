package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/mapper"
	"github.com/straye-as/elevator-api/internal/report"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"go.uber.org/zap"
)

// ReportHandler serves the read-only reports. Every report answers with
// {"rows": [...]} or, with format=xlsx, a workbook download.
type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Projects godoc
// @Summary Projects report
// @Tags Reports
// @Produce json
// @Param date_from query string false "Start date from (YYYY-MM-DD)"
// @Param date_to query string false "Start date to (YYYY-MM-DD)"
// @Param status query int false "Project status id"
// @Param type query int false "Project type id"
// @Param paid query bool false "Paid flag of the linked sale"
// @Param q query string false "Free text search"
// @Param format query string false "Output format" Enums(json, xlsx)
// @Success 200 {object} domain.ReportResponse{rows=[]domain.ProjectReportRow}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/projects [get]
func (h *ReportHandler) Projects(w http.ResponseWriter, r *http.Request) {
	filters, ok := parseReportFilters(w, r)
	if !ok {
		return
	}

	var err error
	if filters.StatusID, err = queryUint(r, "status"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filters.TypeID, err = queryUint(r, "type"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	filters.Paid = queryBool(r, "paid")

	rows, err := h.reportService.Projects(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	h.respondReport(w, r, "projects", rows, func() report.Table { return report.ProjectsTable(rows) })
}

// Units godoc
// @Summary Installed units report
// @Description A unit is Operational when its sale is paid, otherwise Maintenance
// @Tags Reports
// @Produce json
// @Param date_from query string false "Start date from (YYYY-MM-DD)"
// @Param date_to query string false "Start date to (YYYY-MM-DD)"
// @Param projectId query string false "Project id"
// @Param status query string false "Unit status" Enums(Operational, Maintenance)
// @Param q query string false "Free text search"
// @Param format query string false "Output format" Enums(json, xlsx)
// @Success 200 {object} domain.ReportResponse{rows=[]domain.UnitReportRow}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/units [get]
func (h *ReportHandler) Units(w http.ResponseWriter, r *http.Request) {
	filters, ok := parseReportFilters(w, r)
	if !ok {
		return
	}
	filters.ProjectID = r.URL.Query().Get("projectId")
	filters.Status = r.URL.Query().Get("status")

	rows, err := h.reportService.Units(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	h.respondReport(w, r, "units", rows, func() report.Table { return report.UnitsTable(rows) })
}

// Proformas godoc
// @Summary Proformas report
// @Tags Reports
// @Produce json
// @Param date_from query string false "Proforma date from (YYYY-MM-DD)"
// @Param date_to query string false "Proforma date to (YYYY-MM-DD)"
// @Param status query string false "Proforma status" Enums(Pending, Accepted, Rejected)
// @Param converted query bool false "Converted to sale"
// @Param q query string false "Free text search"
// @Param format query string false "Output format" Enums(json, xlsx)
// @Success 200 {object} domain.ReportResponse{rows=[]domain.ProformaReportRow}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/proformas [get]
func (h *ReportHandler) Proformas(w http.ResponseWriter, r *http.Request) {
	filters, ok := parseReportFilters(w, r)
	if !ok {
		return
	}
	filters.Status = r.URL.Query().Get("status")
	filters.Converted = queryBool(r, "converted")

	rows, err := h.reportService.Proformas(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	h.respondReport(w, r, "proformas", rows, func() report.Table { return report.ProformasTable(rows) })
}

// Sales godoc
// @Summary Sales report
// @Tags Reports
// @Produce json
// @Param date_from query string false "Payment date from (YYYY-MM-DD)"
// @Param date_to query string false "Payment date to (YYYY-MM-DD)"
// @Param paid query bool false "Paid flag"
// @Param q query string false "Free text search"
// @Param format query string false "Output format" Enums(json, xlsx)
// @Success 200 {object} domain.ReportResponse{rows=[]domain.SaleReportRow}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/sales [get]
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	filters, ok := parseReportFilters(w, r)
	if !ok {
		return
	}
	filters.Paid = queryBool(r, "paid")

	rows, err := h.reportService.Sales(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	h.respondReport(w, r, "sales", rows, func() report.Table { return report.SalesTable(rows) })
}

// parseReportFilters reads the date range and free text shared by all reports
func parseReportFilters(w http.ResponseWriter, r *http.Request) (*repository.ReportFilters, bool) {
	q := r.URL.Query()

	from, err := mapper.ParseDate(q.Get("date_from"))
	if err != nil {
		respondValidationError(w, domain.NewValidationError("date_from", "Must be a date in YYYY-MM-DD format"))
		return nil, false
	}
	to, err := mapper.ParseDate(q.Get("date_to"))
	if err != nil {
		respondValidationError(w, domain.NewValidationError("date_to", "Must be a date in YYYY-MM-DD format"))
		return nil, false
	}

	return &repository.ReportFilters{
		DateFrom: from,
		DateTo:   to,
		Query:    q.Get("q"),
	}, true
}

func (h *ReportHandler) respondReport(w http.ResponseWriter, r *http.Request, name string, rows interface{}, table func() report.Table) {
	if r.URL.Query().Get("format") != "xlsx" {
		respondJSON(w, http.StatusOK, domain.ReportResponse{Rows: rows})
		return
	}

	workbook, err := report.WriteXLSX(table())
	if err != nil {
		h.logger.Error("failed to render report workbook", zap.String("report", name), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	filename := fmt.Sprintf("%s-report-%s.xlsx", name, time.Now().Format("20060102"))
	respondFile(w, report.ContentTypeXLSX, filename, workbook)
}
