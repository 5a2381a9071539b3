package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Base model with common timestamp fields
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// ProformaStatus represents the acceptance state of a proforma
type ProformaStatus string

const (
	ProformaStatusPending  ProformaStatus = "Pending"
	ProformaStatusAccepted ProformaStatus = "Accepted"
	ProformaStatusRejected ProformaStatus = "Rejected"
)

// IsValid checks if the proforma status is one of the known values
func (s ProformaStatus) IsValid() bool {
	switch s {
	case ProformaStatusPending, ProformaStatusAccepted, ProformaStatusRejected:
		return true
	}
	return false
}

// PaymentMethod represents how a sale is settled
type PaymentMethod string

const (
	PaymentMethodBankTransfer    PaymentMethod = "BANK_TRANSFER"
	PaymentMethodSEPADirectDebit PaymentMethod = "SEPA_DIRECT_DEBIT"
	PaymentMethodInvoice         PaymentMethod = "INVOICE"
	PaymentMethodCreditCard      PaymentMethod = "CREDIT_CARD"
	PaymentMethodCash            PaymentMethod = "CASH"
)

// UserRole is the single role a user holds
type UserRole string

const (
	UserRoleAdmin      UserRole = "Admin"
	UserRoleTechnician UserRole = "Technician"
)

// InventoryTransactionType is the direction of a stock movement
type InventoryTransactionType string

const (
	InventoryTransactionIn  InventoryTransactionType = "IN"
	InventoryTransactionOut InventoryTransactionType = "OUT"
)

// MaintenanceStatus represents the progress of a maintenance request
type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "Pending"
	MaintenanceStatusInProgress MaintenanceStatus = "In Progress"
	MaintenanceStatusResolved   MaintenanceStatus = "Resolved"
)

func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceStatusPending, MaintenanceStatusInProgress, MaintenanceStatusResolved:
		return true
	}
	return false
}

// Client represents a customer buying elevator installations
type Client struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"type:varchar(100);not null;index"`
	Abbreviation  string `gorm:"type:varchar(8)"`
	ContactPerson string `gorm:"type:varchar(100);column:contact_person"`
	Phone         string `gorm:"type:varchar(50)"`
	Address       string `gorm:"type:varchar(255)"`
	PostalCode    string `gorm:"type:varchar(20);column:postal_code"`
	City          string `gorm:"type:varchar(100)"`
	Country       string `gorm:"type:varchar(100)"`
	Email         string `gorm:"type:varchar(255)"`
	ProjectCount  int    `gorm:"not null;default:0;column:project_count"`
	BaseModel
}

// AreaType is a work area on an installation (cabin, shaft, machine room...)
type AreaType struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (AreaType) TableName() string { return "area_types" }

// AreaStatus describes the progress of an assignment area
type AreaStatus struct {
	ID          uint   `gorm:"primaryKey"`
	Description string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (AreaStatus) TableName() string { return "area_statuses" }

// ProjectStatus describes the progress of a project
type ProjectStatus struct {
	ID          uint   `gorm:"primaryKey"`
	Description string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (ProjectStatus) TableName() string { return "project_statuses" }

// ProjectType classifies a project (new installation, modernisation...)
type ProjectType struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex;column:type_name"`
}

// ElevatorModel is a product that can be sold and stocked
type ElevatorModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(100);not null;uniqueIndex;column:model_name"`
	Manufacturer string `gorm:"type:varchar(100)"`
	CapacityKg   int    `gorm:"column:capacity_kg"`
	MaxFloors    int    `gorm:"column:max_floors"`
	Description  string `gorm:"type:text"`
}

// Personnel is a technician that can be assigned to project areas
type Personnel struct {
	ID        uint      `gorm:"primaryKey"`
	FirstName string    `gorm:"type:varchar(100);not null;column:first_name"`
	LastName  string    `gorm:"type:varchar(100);not null;column:last_name"`
	Phone     string    `gorm:"type:varchar(50)"`
	Email     string    `gorm:"type:varchar(255)"`
	AreaID    *uint     `gorm:"column:area_id;index"`
	Area      *AreaType `gorm:"foreignKey:AreaID"`
	BaseModel
}

func (Personnel) TableName() string { return "personnel" }

// FullName returns "first last"
func (p *Personnel) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Proforma is a price quote issued to a client
type Proforma struct {
	ID                  uint            `gorm:"primaryKey"`
	ClientID            uint            `gorm:"not null;index"`
	Client              *Client         `gorm:"foreignKey:ClientID"`
	ProjectName         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ProformaDate        time.Time       `gorm:"type:date;not null"`
	ValidUntil          time.Time       `gorm:"type:date;not null"`
	Description         string          `gorm:"type:text"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status              ProformaStatus  `gorm:"type:varchar(20);not null;default:'Pending';index"`
	TechnicalDetailsPDF string          `gorm:"type:varchar(500);column:technical_details_pdf"`
	IsConvertedToSale   bool            `gorm:"not null;default:false;column:is_converted_to_sale"`
	BaseModel
}

// Sale is a confirmed, priced commitment
type Sale struct {
	ID            uint            `gorm:"primaryKey"`
	ProformaID    *uint           `gorm:"uniqueIndex"`
	Proforma      *Proforma       `gorm:"foreignKey:ProformaID"`
	ClientID      uint            `gorm:"not null;index"`
	Client        *Client         `gorm:"foreignKey:ClientID"`
	ModelID       *uint           `gorm:"index"`
	Model         *ElevatorModel  `gorm:"foreignKey:ModelID"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(30);column:payment_method"`
	Notes         string          `gorm:"type:varchar(256)"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Paid          bool            `gorm:"not null;default:false"`
	PaymentDate   *time.Time      `gorm:"type:date;column:payment_date"`
	BaseModel
}

// Project is an installation job identified by a caller-supplied code
type Project struct {
	ID        string         `gorm:"type:varchar(10);primaryKey"`
	Name      string         `gorm:"type:varchar(100);not null"`
	StartDate *time.Time     `gorm:"type:date;column:start_date"`
	EndDate   *time.Time     `gorm:"type:date;column:end_date"`
	Notes     string         `gorm:"type:text"`
	SaleID    *uint          `gorm:"index"`
	Sale      *Sale          `gorm:"foreignKey:SaleID"`
	StatusID  *uint          `gorm:"index"`
	Status    *ProjectStatus `gorm:"foreignKey:StatusID"`
	TypeID    *uint          `gorm:"index"`
	Type      *ProjectType   `gorm:"foreignKey:TypeID"`
	BaseModel
}

// ProjectAssignment links one project, one area and one person responsible for it
type ProjectAssignment struct {
	ID           uint        `gorm:"primaryKey"`
	ProjectID    string      `gorm:"type:varchar(10);not null;uniqueIndex:idx_assignment_triple,priority:1"`
	Project      *Project    `gorm:"foreignKey:ProjectID"`
	AreaID       uint        `gorm:"not null;uniqueIndex:idx_assignment_triple,priority:2"`
	Area         *AreaType   `gorm:"foreignKey:AreaID"`
	PersonnelID  uint        `gorm:"not null;uniqueIndex:idx_assignment_triple,priority:3"`
	Personnel    *Personnel  `gorm:"foreignKey:PersonnelID"`
	AreaStatusID *uint       `gorm:"column:area_status_id"`
	AreaStatus   *AreaStatus `gorm:"foreignKey:AreaStatusID;constraint:OnDelete:SET NULL"`
	BaseModel
}

// Key returns the structured composite identity of the assignment
func (a *ProjectAssignment) Key() AssignmentKey {
	return AssignmentKey{ProjectID: a.ProjectID, AreaID: a.AreaID, PersonnelID: a.PersonnelID}
}

// InventoryItem is a stocked part or unit
type InventoryItem struct {
	ID           uint           `gorm:"primaryKey"`
	ItemName     string         `gorm:"type:varchar(100);not null;column:item_name"`
	ModelID      *uint          `gorm:"index"`
	Model        *ElevatorModel `gorm:"foreignKey:ModelID"`
	Quantity     int            `gorm:"not null;default:0"`
	ReorderLevel int            `gorm:"not null;default:0;column:reorder_level"`
	LastUpdated  time.Time      `gorm:"autoUpdateTime;column:last_updated"`
}

func (InventoryItem) TableName() string { return "inventory" }

// InventoryTransaction records a stock movement
type InventoryTransaction struct {
	ID        uint                     `gorm:"primaryKey"`
	ItemID    uint                     `gorm:"not null;index"`
	Item      *InventoryItem           `gorm:"foreignKey:ItemID"`
	Type      InventoryTransactionType `gorm:"type:varchar(3);not null;column:transaction_type"`
	Quantity  int                      `gorm:"not null"`
	ProjectID *string                  `gorm:"type:varchar(10);index"`
	Notes     string                   `gorm:"type:text"`
	CreatedAt time.Time                `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// MaintenanceRequest is a reported problem on an installed project
type MaintenanceRequest struct {
	ID          uint              `gorm:"primaryKey"`
	ProjectID   string            `gorm:"type:varchar(10);not null;index"`
	Project     *Project          `gorm:"foreignKey:ProjectID"`
	Description string            `gorm:"type:text;not null"`
	Status      MaintenanceStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	AssignedTo  *uint             `gorm:"column:assigned_to"`
	Assignee    *Personnel        `gorm:"foreignKey:AssignedTo"`
	ResolvedAt  *time.Time        `gorm:"column:resolved_at"`
	Logs        []MaintenanceLog  `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	BaseModel
}

// MaintenanceLog is a unit of work recorded against a maintenance request
type MaintenanceLog struct {
	ID         uint            `gorm:"primaryKey"`
	RequestID  uint            `gorm:"not null;index"`
	WorkDone   string          `gorm:"type:text;not null;column:work_done"`
	PartsUsed  string          `gorm:"type:text;column:parts_used"`
	HoursSpent decimal.Decimal `gorm:"type:decimal(5,2);column:hours_spent"`
	UpdatedBy  *uint           `gorm:"column:updated_by"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// User is an account that can authenticate against the API
type User struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string   `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName    string   `gorm:"type:varchar(100);column:first_name"`
	LastName     string   `gorm:"type:varchar(100);column:last_name"`
	PasswordHash string   `gorm:"type:varchar(255);not null;column:password_hash"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'Technician'"`
	IsActive     bool     `gorm:"not null;default:true;column:is_active"`
	LastLoginAt  *time.Time
	BaseModel
}

// DisplayName returns the user's full name, or username if first/last not set
func (u *User) DisplayName() string {
	if u.FirstName != "" || u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}
