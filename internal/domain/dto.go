package domain

import (
	"github.com/shopspring/decimal"
)

// DateFormat is the wire format for calendar dates
const DateFormat = "2006-01-02"

// TimestampFormat is the wire format for timestamps
const TimestampFormat = "2006-01-02T15:04:05Z"

// Client DTOs

type ClientDTO struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Abbreviation  string `json:"abbreviation,omitempty"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	City          string `json:"city,omitempty"`
	Country       string `json:"country,omitempty"`
	Email         string `json:"email,omitempty"`
	ProjectCount  int    `json:"projectCount"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

type ClientRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Abbreviation  string `json:"abbreviation,omitempty" validate:"max=8"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=100"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty" validate:"max=255"`
	PostalCode    string `json:"postalCode,omitempty" validate:"max=20"`
	City          string `json:"city,omitempty" validate:"max=100"`
	Country       string `json:"country,omitempty" validate:"max=100"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	ProjectCount  int    `json:"projectCount" validate:"gte=0"`
}

// Catalog DTOs

type AreaTypeDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type AreaTypeRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type StatusDTO struct {
	ID          uint   `json:"id"`
	Description string `json:"description"`
}

type StatusRequest struct {
	Description string `json:"description" validate:"required,max=100"`
}

type ProjectTypeDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ProjectTypeRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type ElevatorModelDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`
	CapacityKg   int    `json:"capacityKg"`
	MaxFloors    int    `json:"maxFloors"`
	Description  string `json:"description,omitempty"`
}

type ElevatorModelRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Manufacturer string `json:"manufacturer,omitempty" validate:"max=100"`
	CapacityKg   int    `json:"capacityKg" validate:"gte=0"`
	MaxFloors    int    `json:"maxFloors" validate:"gte=0"`
	Description  string `json:"description,omitempty"`
}

// Personnel DTOs

type PersonnelDTO struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	AreaID    *uint  `json:"areaId,omitempty"`
	AreaName  string `json:"areaName,omitempty"`
}

type PersonnelRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone,omitempty" validate:"max=50"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	AreaID    *uint  `json:"areaId,omitempty"`
}

// Project DTOs

type ProjectDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	Notes      string `json:"notes,omitempty"`
	SaleID     *uint  `json:"saleId,omitempty"`
	ClientID   *uint  `json:"clientId,omitempty"`
	ClientName string `json:"clientName,omitempty"`
	StatusID   *uint  `json:"statusId,omitempty"`
	StatusName string `json:"statusName,omitempty"`
	TypeID     *uint  `json:"typeId,omitempty"`
	TypeName   string `json:"typeName,omitempty"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type CreateProjectRequest struct {
	ID        string `json:"id" validate:"required,max=10"`
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes     string `json:"notes,omitempty"`
	SaleID    *uint  `json:"saleId,omitempty"`
	StatusID  *uint  `json:"statusId,omitempty"`
	TypeID    *uint  `json:"typeId,omitempty"`
}

type UpdateProjectRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes     string `json:"notes,omitempty"`
	SaleID    *uint  `json:"saleId,omitempty"`
	StatusID  *uint  `json:"statusId,omitempty"`
	TypeID    *uint  `json:"typeId,omitempty"`
}

// Proforma DTOs

type ProformaDTO struct {
	ID                  uint            `json:"id"`
	ClientID            uint            `json:"clientId"`
	ClientName          string          `json:"clientName,omitempty"`
	ProjectName         string          `json:"projectName"`
	ProformaDate        string          `json:"proformaDate"`
	ValidUntil          string          `json:"validUntil"`
	Description         string          `json:"description,omitempty"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	Status              ProformaStatus  `json:"status"`
	TechnicalDetailsPDF string          `json:"technicalDetailsPdf,omitempty"`
	IsConvertedToSale   bool            `json:"isConvertedToSale"`
	SaleID              *uint           `json:"saleId,omitempty"`
	CreatedAt           string          `json:"createdAt"`
	UpdatedAt           string          `json:"updatedAt"`
}

type CreateProformaRequest struct {
	ClientID     uint             `json:"clientId" validate:"required"`
	ProjectName  string           `json:"projectName" validate:"required,max=50"`
	ProformaDate string           `json:"proformaDate" validate:"required,datetime=2006-01-02"`
	ValidUntil   string           `json:"validUntil" validate:"required,datetime=2006-01-02"`
	Description  string           `json:"description,omitempty"`
	TotalAmount  *decimal.Decimal `json:"totalAmount" validate:"required"`
	Status       ProformaStatus   `json:"status,omitempty" validate:"omitempty,oneof=Pending Accepted Rejected"`
}

// UpdateProformaRequest is a partial update; nil fields keep their stored value.
// TechnicalDetailsPDF may only echo the stored reference; new documents go
// through the attachment upload.
type UpdateProformaRequest struct {
	ClientID            *uint            `json:"clientId,omitempty" validate:"omitempty,gt=0"`
	ProjectName         *string          `json:"projectName,omitempty" validate:"omitempty,min=1,max=50"`
	ProformaDate        *string          `json:"proformaDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil          *string          `json:"validUntil,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description         *string          `json:"description,omitempty"`
	TotalAmount         *decimal.Decimal `json:"totalAmount,omitempty"`
	Status              *ProformaStatus  `json:"status,omitempty" validate:"omitempty,oneof=Pending Accepted Rejected"`
	TechnicalDetailsPDF *string          `json:"technicalDetailsPdf,omitempty" validate:"omitempty,max=500"`
}

// Sale DTOs

type SaleDTO struct {
	ID            uint            `json:"id"`
	ProformaID    *uint           `json:"proformaId,omitempty"`
	ProformaDate  string          `json:"proformaDate,omitempty"`
	ProjectName   string          `json:"projectName,omitempty"`
	ClientID      uint            `json:"clientId"`
	ClientName    string          `json:"clientName,omitempty"`
	ModelID       *uint           `json:"modelId,omitempty"`
	ModelName     string          `json:"modelName,omitempty"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Paid          bool            `json:"paid"`
	PaymentDate   string          `json:"paymentDate,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type SaleRequest struct {
	ProformaID    *uint            `json:"proformaId" validate:"required"`
	ClientID      uint             `json:"clientId" validate:"required"`
	ModelID       *uint            `json:"modelId,omitempty"`
	PaymentMethod PaymentMethod    `json:"paymentMethod,omitempty" validate:"omitempty,oneof=BANK_TRANSFER SEPA_DIRECT_DEBIT INVOICE CREDIT_CARD CASH"`
	Notes         string           `json:"notes,omitempty" validate:"max=256"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	Paid          bool             `json:"paid"`
	PaymentDate   string           `json:"paymentDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Project assignment DTOs

type AssignmentDTO struct {
	ID                string `json:"id"`
	Project           string `json:"project"`
	Area              uint   `json:"area"`
	AreaName          string `json:"areaName,omitempty"`
	Personnel         uint   `json:"personnel"`
	PersonnelName     string `json:"personnelName,omitempty"`
	AreaStatus        *uint  `json:"areaStatus,omitempty"`
	StatusDescription string `json:"statusDescription,omitempty"`
}

type CreateAssignmentRequest struct {
	Project    string `json:"project" validate:"required,max=10"`
	Area       uint   `json:"area" validate:"required"`
	Personnel  uint   `json:"personnel" validate:"required"`
	AreaStatus *uint  `json:"areaStatus,omitempty"`
}

type UpdateAssignmentRequest struct {
	AreaStatus *uint `json:"areaStatus"`
}

// Inventory DTOs

type InventoryItemDTO struct {
	ID           uint   `json:"id"`
	ItemName     string `json:"itemName"`
	ModelID      *uint  `json:"modelId,omitempty"`
	ModelName    string `json:"modelName,omitempty"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel"`
	LowStock     bool   `json:"lowStock"`
	LastUpdated  string `json:"lastUpdated"`
}

type InventoryItemRequest struct {
	ItemName     string `json:"itemName" validate:"required,max=100"`
	ModelID      *uint  `json:"modelId,omitempty"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
	ReorderLevel int    `json:"reorderLevel" validate:"gte=0"`
}

type InventoryTransactionDTO struct {
	ID        uint                     `json:"id"`
	ItemID    uint                     `json:"itemId"`
	Type      InventoryTransactionType `json:"type"`
	Quantity  int                      `json:"quantity"`
	ProjectID *string                  `json:"projectId,omitempty"`
	Notes     string                   `json:"notes,omitempty"`
	CreatedAt string                   `json:"createdAt"`
}

type CreateInventoryTransactionRequest struct {
	Type      InventoryTransactionType `json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int                      `json:"quantity" validate:"required,gt=0"`
	ProjectID *string                  `json:"projectId,omitempty" validate:"omitempty,max=10"`
	Notes     string                   `json:"notes,omitempty"`
}

// Maintenance DTOs

type MaintenanceRequestDTO struct {
	ID           uint              `json:"id"`
	ProjectID    string            `json:"projectId"`
	ProjectName  string            `json:"projectName,omitempty"`
	Description  string            `json:"description"`
	Status       MaintenanceStatus `json:"status"`
	AssignedTo   *uint             `json:"assignedTo,omitempty"`
	AssigneeName string            `json:"assigneeName,omitempty"`
	ResolvedAt   string            `json:"resolvedAt,omitempty"`
	CreatedAt    string            `json:"createdAt"`
	UpdatedAt    string            `json:"updatedAt"`
}

type CreateMaintenanceRequest struct {
	ProjectID   string            `json:"projectId" validate:"required,max=10"`
	Description string            `json:"description" validate:"required"`
	Status      MaintenanceStatus `json:"status,omitempty" validate:"omitempty,oneof=Pending 'In Progress' Resolved"`
	AssignedTo  *uint             `json:"assignedTo,omitempty"`
}

type UpdateMaintenanceRequest struct {
	Description *string            `json:"description,omitempty" validate:"omitempty,min=1"`
	Status      *MaintenanceStatus `json:"status,omitempty" validate:"omitempty,oneof=Pending 'In Progress' Resolved"`
	AssignedTo  *uint              `json:"assignedTo,omitempty"`
}

type MaintenanceLogDTO struct {
	ID         uint            `json:"id"`
	RequestID  uint            `json:"requestId"`
	WorkDone   string          `json:"workDone"`
	PartsUsed  string          `json:"partsUsed,omitempty"`
	HoursSpent decimal.Decimal `json:"hoursSpent"`
	UpdatedBy  *uint           `json:"updatedBy,omitempty"`
	CreatedAt  string          `json:"createdAt"`
}

type CreateMaintenanceLogRequest struct {
	WorkDone   string           `json:"workDone" validate:"required"`
	PartsUsed  string           `json:"partsUsed,omitempty"`
	HoursSpent *decimal.Decimal `json:"hoursSpent,omitempty"`
}

// User DTOs

type UserDTO struct {
	ID          uint     `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	Role        UserRole `json:"role"`
	IsActive    bool     `json:"isActive"`
	LastLoginAt string   `json:"lastLoginAt,omitempty"`
}

type RegisterUserRequest struct {
	Username  string   `json:"username" validate:"required,max=150"`
	Email     string   `json:"email" validate:"required,email,max=255"`
	Password  string   `json:"password" validate:"required,min=8,max=72"`
	Role      UserRole `json:"role,omitempty" validate:"omitempty,oneof=Admin Technician"`
	FirstName string   `json:"firstName,omitempty" validate:"max=100"`
	LastName  string   `json:"lastName,omitempty" validate:"max=100"`
}

type UpdateUserRequest struct {
	Email *string   `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Role  *UserRole `json:"role,omitempty" validate:"omitempty,oneof=Admin Technician"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

// Report rows

type ProjectReportRow struct {
	ProjectID     string           `json:"projectId"`
	ProjectName   string           `json:"projectName"`
	StartDate     string           `json:"startDate"`
	EndDate       string           `json:"endDate"`
	StatusID      *uint            `json:"statusId"`
	Status        string           `json:"status"`
	TypeID        *uint            `json:"typeId"`
	Type          string           `json:"type"`
	SaleID        *uint            `json:"saleId"`
	ClientID      *uint            `json:"clientId"`
	Price         *decimal.Decimal `json:"price"`
	Paid          bool             `json:"paid"`
	PaymentDate   string           `json:"paymentDate"`
	PaymentMethod string           `json:"paymentMethod"`
	ProformaID    *uint            `json:"proformaId"`
}

type UnitReportRow struct {
	ID             string `json:"id"`
	ProjectID      string `json:"projectId"`
	Site           string `json:"site"`
	UnitType       string `json:"unitType"`
	Status         string `json:"status"`
	LastInspection string `json:"lastInspection"`
	OpenIssues     int64  `json:"openIssues"`
}

type ProformaReportRow struct {
	ProformaID          uint            `json:"proformaId"`
	ClientID            uint            `json:"clientId"`
	ClientName          string          `json:"clientName"`
	ProjectName         string          `json:"projectName"`
	ProformaDate        string          `json:"proformaDate"`
	ValidUntil          string          `json:"validUntil"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	Status              string          `json:"status"`
	IsConvertedToSale   bool            `json:"isConvertedToSale"`
	TechnicalDetailsPDF string          `json:"technicalDetailsPdf"`
}

type SaleReportRow struct {
	SaleID        uint            `json:"saleId"`
	ClientID      uint            `json:"clientId"`
	ClientName    string          `json:"clientName"`
	ModelID       *uint           `json:"modelId"`
	ModelName     string          `json:"modelName"`
	Price         decimal.Decimal `json:"price"`
	Paid          bool            `json:"paid"`
	PaymentDate   string          `json:"paymentDate"`
	PaymentMethod string          `json:"paymentMethod"`
	ProformaID    *uint           `json:"proformaId"`
	Notes         string          `json:"notes"`
}

// ReportResponse wraps report rows
type ReportResponse struct {
	Rows interface{} `json:"rows"`
}

// Pagination

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// MessageResponse is returned by endpoints that only report a message
type MessageResponse struct {
	Message string `json:"message"`
}
