package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Row caps for report queries
const (
	ReportRowLimit     = 1000
	UnitReportRowLimit = 500
)

// ReportFilters holds the query-string filters shared by the report endpoints.
// Each report only reads the fields that apply to it.
type ReportFilters struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	Status    string
	StatusID  *uint
	TypeID    *uint
	ProjectID string
	Paid      *bool
	Converted *bool
	Query     string
}

// ProjectReportRecord is one joined row of the projects report
type ProjectReportRecord struct {
	ProjectID     string
	ProjectName   string
	StartDate     *time.Time
	EndDate       *time.Time
	StatusID      *uint
	Status        *string
	TypeID        *uint
	Type          *string
	SaleID        *uint
	ClientID      *uint
	Price         decimal.NullDecimal
	Paid          *bool
	PaymentDate   *time.Time
	PaymentMethod *string
	ProformaID    *uint
}

// ProformaReportRecord is one joined row of the proformas report
type ProformaReportRecord struct {
	ProformaID          uint
	ClientID            uint
	ClientName          *string
	ProjectName         string
	ProformaDate        *time.Time
	ValidUntil          *time.Time
	TotalAmount         decimal.Decimal
	Status              string
	IsConvertedToSale   bool
	TechnicalDetailsPDF *string
}

// SaleReportRecord is one joined row of the sales report
type SaleReportRecord struct {
	SaleID        uint
	ClientID      uint
	ClientName    *string
	ModelID       *uint
	ModelName     *string
	Price         decimal.Decimal
	Paid          bool
	PaymentDate   *time.Time
	PaymentMethod *string
	ProformaID    *uint
	Notes         *string
}

// ReportRepository runs the read-only joined queries behind /reports
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// dateRange keeps rows whose column is inside the range or unset
func dateRange(query *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where("("+column+" >= ? OR "+column+" IS NULL)", *from)
	}
	if to != nil {
		query = query.Where("("+column+" <= ? OR "+column+" IS NULL)", *to)
	}
	return query
}

func (r *ReportRepository) projectsBase(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("projects AS p").
		Joins("LEFT JOIN sales AS s ON s.id = p.sale_id").
		Joins("LEFT JOIN clients AS c ON c.id = s.client_id").
		Joins("LEFT JOIN project_statuses AS ps ON ps.id = p.status_id").
		Joins("LEFT JOIN project_types AS pt ON pt.id = p.type_id")
}

// Projects returns the projects report ordered by project id descending
func (r *ReportRepository) Projects(ctx context.Context, f *ReportFilters) ([]ProjectReportRecord, error) {
	query := r.projectsBase(ctx).Select(`p.id AS project_id, p.name AS project_name,
		p.start_date, p.end_date,
		p.status_id, ps.description AS status,
		p.type_id, pt.type_name AS type,
		p.sale_id, s.client_id, s.price, s.paid, s.payment_date, s.payment_method, s.proforma_id`)

	query = dateRange(query, "p.start_date", f.DateFrom, f.DateTo)
	if f.StatusID != nil {
		query = query.Where("p.status_id = ?", *f.StatusID)
	}
	if f.TypeID != nil {
		query = query.Where("p.type_id = ?", *f.TypeID)
	}
	if f.Paid != nil {
		query = query.Where("s.paid = ?", *f.Paid)
	}
	if f.Query != "" {
		pattern := likePattern(f.Query)
		query = query.Where("LOWER(p.id) LIKE ? OR LOWER(p.name) LIKE ? OR LOWER(c.name) LIKE ?", pattern, pattern, pattern)
	}

	var rows []ProjectReportRecord
	err := query.Order("p.id DESC").Limit(ReportRowLimit).Scan(&rows).Error
	return rows, err
}

// Units returns the project rows behind the units report
func (r *ReportRepository) Units(ctx context.Context, f *ReportFilters) ([]ProjectReportRecord, error) {
	query := r.projectsBase(ctx).Select(`p.id AS project_id, p.name AS project_name,
		p.start_date, p.end_date, p.sale_id, s.paid, s.payment_date`)

	if f.ProjectID != "" {
		query = query.Where("p.id = ?", f.ProjectID)
	}
	if f.Query != "" {
		pattern := likePattern(f.Query)
		query = query.Where("LOWER(p.id) LIKE ? OR LOWER(p.name) LIKE ?", pattern, pattern)
	}
	query = dateRange(query, "p.start_date", f.DateFrom, f.DateTo)

	var rows []ProjectReportRecord
	err := query.Order("p.id DESC").Limit(UnitReportRowLimit).Scan(&rows).Error
	return rows, err
}

// Proformas returns the proformas report ordered by id descending
func (r *ReportRepository) Proformas(ctx context.Context, f *ReportFilters) ([]ProformaReportRecord, error) {
	query := r.db.WithContext(ctx).
		Table("proformas AS p").
		Joins("LEFT JOIN clients AS c ON c.id = p.client_id").
		Select(`p.id AS proforma_id, p.client_id, c.name AS client_name, p.project_name,
			p.proforma_date, p.valid_until, p.total_amount, p.status,
			p.is_converted_to_sale, p.technical_details_pdf`)

	query = dateRange(query, "p.proforma_date", f.DateFrom, f.DateTo)
	if f.Status != "" {
		query = query.Where("p.status = ?", f.Status)
	}
	if f.Converted != nil {
		query = query.Where("p.is_converted_to_sale = ?", *f.Converted)
	}
	if f.Query != "" {
		pattern := likePattern(f.Query)
		query = query.Where("CAST(p.id AS TEXT) LIKE ? OR LOWER(p.project_name) LIKE ? OR LOWER(c.name) LIKE ?", pattern, pattern, pattern)
	}

	var rows []ProformaReportRecord
	err := query.Order("p.id DESC").Limit(ReportRowLimit).Scan(&rows).Error
	return rows, err
}

// Sales returns the sales report ordered by id descending
func (r *ReportRepository) Sales(ctx context.Context, f *ReportFilters) ([]SaleReportRecord, error) {
	query := r.db.WithContext(ctx).
		Table("sales AS s").
		Joins("LEFT JOIN clients AS c ON c.id = s.client_id").
		Joins("LEFT JOIN elevator_models AS m ON m.id = s.model_id").
		Select(`s.id AS sale_id, s.client_id, c.name AS client_name,
			s.model_id, m.model_name, s.price, s.paid, s.payment_date,
			s.payment_method, s.proforma_id, s.notes`)

	query = dateRange(query, "s.payment_date", f.DateFrom, f.DateTo)
	if f.Paid != nil {
		query = query.Where("s.paid = ?", *f.Paid)
	}
	if f.Query != "" {
		pattern := likePattern(f.Query)
		query = query.Where(`CAST(s.id AS TEXT) LIKE ? OR LOWER(c.name) LIKE ? OR LOWER(m.model_name) LIKE ?
			OR LOWER(s.payment_method) LIKE ? OR LOWER(s.notes) LIKE ?`, pattern, pattern, pattern, pattern, pattern)
	}

	var rows []SaleReportRecord
	err := query.Order("s.id DESC").Limit(ReportRowLimit).Scan(&rows).Error
	return rows, err
}
