package mapper

import (
	"fmt"
	"time"

	"github.com/straye-as/elevator-api/internal/domain"
)

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(domain.DateFormat)
}

func formatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(domain.TimestampFormat)
}

// ParseDate parses an optional YYYY-MM-DD value. Empty input yields nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:            client.ID,
		Name:          client.Name,
		Abbreviation:  client.Abbreviation,
		ContactPerson: client.ContactPerson,
		Phone:         client.Phone,
		Address:       client.Address,
		PostalCode:    client.PostalCode,
		City:          client.City,
		Country:       client.Country,
		Email:         client.Email,
		ProjectCount:  client.ProjectCount,
		CreatedAt:     formatTimestamp(&client.CreatedAt),
		UpdatedAt:     formatTimestamp(&client.UpdatedAt),
	}
}

// ApplyClientRequest copies request fields onto a client
func ApplyClientRequest(client *domain.Client, req *domain.ClientRequest) {
	client.Name = req.Name
	client.Abbreviation = req.Abbreviation
	client.ContactPerson = req.ContactPerson
	client.Phone = req.Phone
	client.Address = req.Address
	client.PostalCode = req.PostalCode
	client.City = req.City
	client.Country = req.Country
	client.Email = req.Email
	client.ProjectCount = req.ProjectCount
}

func ToAreaTypeDTO(area *domain.AreaType) domain.AreaTypeDTO {
	return domain.AreaTypeDTO{ID: area.ID, Name: area.Name}
}

func ToAreaStatusDTO(status *domain.AreaStatus) domain.StatusDTO {
	return domain.StatusDTO{ID: status.ID, Description: status.Description}
}

func ToProjectStatusDTO(status *domain.ProjectStatus) domain.StatusDTO {
	return domain.StatusDTO{ID: status.ID, Description: status.Description}
}

func ToProjectTypeDTO(t *domain.ProjectType) domain.ProjectTypeDTO {
	return domain.ProjectTypeDTO{ID: t.ID, Name: t.Name}
}

func ToElevatorModelDTO(model *domain.ElevatorModel) domain.ElevatorModelDTO {
	return domain.ElevatorModelDTO{
		ID:           model.ID,
		Name:         model.Name,
		Manufacturer: model.Manufacturer,
		CapacityKg:   model.CapacityKg,
		MaxFloors:    model.MaxFloors,
		Description:  model.Description,
	}
}

// ToPersonnelDTO converts Personnel to PersonnelDTO
func ToPersonnelDTO(p *domain.Personnel) domain.PersonnelDTO {
	dto := domain.PersonnelDTO{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Phone:     p.Phone,
		Email:     p.Email,
		AreaID:    p.AreaID,
	}
	if p.Area != nil {
		dto.AreaName = p.Area.Name
	}
	return dto
}

// ToProjectDTO converts Project to ProjectDTO
func ToProjectDTO(project *domain.Project) domain.ProjectDTO {
	dto := domain.ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		StartDate: formatDate(project.StartDate),
		EndDate:   formatDate(project.EndDate),
		Notes:     project.Notes,
		SaleID:    project.SaleID,
		StatusID:  project.StatusID,
		TypeID:    project.TypeID,
		CreatedAt: formatTimestamp(&project.CreatedAt),
		UpdatedAt: formatTimestamp(&project.UpdatedAt),
	}

	if project.Sale != nil {
		clientID := project.Sale.ClientID
		dto.ClientID = &clientID
		if project.Sale.Client != nil {
			dto.ClientName = project.Sale.Client.Name
		}
	}
	if project.Status != nil {
		dto.StatusName = project.Status.Description
	}
	if project.Type != nil {
		dto.TypeName = project.Type.Name
	}

	return dto
}

// ToProformaDTO converts Proforma to ProformaDTO. saleID is set when the
// caller knows which sale the proforma was converted into.
func ToProformaDTO(proforma *domain.Proforma, saleID *uint) domain.ProformaDTO {
	dto := domain.ProformaDTO{
		ID:                  proforma.ID,
		ClientID:            proforma.ClientID,
		ProjectName:         proforma.ProjectName,
		ProformaDate:        formatDate(&proforma.ProformaDate),
		ValidUntil:          formatDate(&proforma.ValidUntil),
		Description:         proforma.Description,
		TotalAmount:         proforma.TotalAmount,
		Status:              proforma.Status,
		TechnicalDetailsPDF: proforma.TechnicalDetailsPDF,
		IsConvertedToSale:   proforma.IsConvertedToSale,
		SaleID:              saleID,
		CreatedAt:           formatTimestamp(&proforma.CreatedAt),
		UpdatedAt:           formatTimestamp(&proforma.UpdatedAt),
	}
	if proforma.Client != nil {
		dto.ClientName = proforma.Client.Name
	}
	return dto
}

// ToSaleDTO converts Sale to SaleDTO
func ToSaleDTO(sale *domain.Sale) domain.SaleDTO {
	dto := domain.SaleDTO{
		ID:            sale.ID,
		ProformaID:    sale.ProformaID,
		ClientID:      sale.ClientID,
		ModelID:       sale.ModelID,
		PaymentMethod: sale.PaymentMethod,
		Notes:         sale.Notes,
		Price:         sale.Price,
		Paid:          sale.Paid,
		PaymentDate:   formatDate(sale.PaymentDate),
		CreatedAt:     formatTimestamp(&sale.CreatedAt),
		UpdatedAt:     formatTimestamp(&sale.UpdatedAt),
	}
	if sale.Client != nil {
		dto.ClientName = sale.Client.Name
	}
	if sale.Model != nil {
		dto.ModelName = sale.Model.Name
	}
	if sale.Proforma != nil {
		dto.ProjectName = sale.Proforma.ProjectName
		dto.ProformaDate = formatDate(&sale.Proforma.ProformaDate)
	}
	return dto
}

// ToAssignmentDTO converts ProjectAssignment to AssignmentDTO; the id is the composite key
func ToAssignmentDTO(a *domain.ProjectAssignment) domain.AssignmentDTO {
	dto := domain.AssignmentDTO{
		ID:         a.Key().String(),
		Project:    a.ProjectID,
		Area:       a.AreaID,
		Personnel:  a.PersonnelID,
		AreaStatus: a.AreaStatusID,
	}
	if a.Area != nil {
		dto.AreaName = a.Area.Name
	}
	if a.Personnel != nil {
		dto.PersonnelName = a.Personnel.FullName()
	}
	if a.AreaStatus != nil {
		dto.StatusDescription = a.AreaStatus.Description
	}
	return dto
}

// ToInventoryItemDTO converts InventoryItem to InventoryItemDTO
func ToInventoryItemDTO(item *domain.InventoryItem) domain.InventoryItemDTO {
	dto := domain.InventoryItemDTO{
		ID:           item.ID,
		ItemName:     item.ItemName,
		ModelID:      item.ModelID,
		Quantity:     item.Quantity,
		ReorderLevel: item.ReorderLevel,
		LowStock:     item.Quantity <= item.ReorderLevel,
		LastUpdated:  formatTimestamp(&item.LastUpdated),
	}
	if item.Model != nil {
		dto.ModelName = item.Model.Name
	}
	return dto
}

func ToInventoryTransactionDTO(txn *domain.InventoryTransaction) domain.InventoryTransactionDTO {
	return domain.InventoryTransactionDTO{
		ID:        txn.ID,
		ItemID:    txn.ItemID,
		Type:      txn.Type,
		Quantity:  txn.Quantity,
		ProjectID: txn.ProjectID,
		Notes:     txn.Notes,
		CreatedAt: formatTimestamp(&txn.CreatedAt),
	}
}

// ToMaintenanceRequestDTO converts MaintenanceRequest to MaintenanceRequestDTO
func ToMaintenanceRequestDTO(req *domain.MaintenanceRequest) domain.MaintenanceRequestDTO {
	dto := domain.MaintenanceRequestDTO{
		ID:          req.ID,
		ProjectID:   req.ProjectID,
		Description: req.Description,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		ResolvedAt:  formatTimestamp(req.ResolvedAt),
		CreatedAt:   formatTimestamp(&req.CreatedAt),
		UpdatedAt:   formatTimestamp(&req.UpdatedAt),
	}
	if req.Project != nil {
		dto.ProjectName = req.Project.Name
	}
	if req.Assignee != nil {
		dto.AssigneeName = req.Assignee.FullName()
	}
	return dto
}

func ToMaintenanceLogDTO(log *domain.MaintenanceLog) domain.MaintenanceLogDTO {
	return domain.MaintenanceLogDTO{
		ID:         log.ID,
		RequestID:  log.RequestID,
		WorkDone:   log.WorkDone,
		PartsUsed:  log.PartsUsed,
		HoursSpent: log.HoursSpent,
		UpdatedBy:  log.UpdatedBy,
		CreatedAt:  formatTimestamp(&log.CreatedAt),
	}
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: formatTimestamp(user.LastLoginAt),
	}
}

// FormatDate renders an optional date for report rows
func FormatDate(t *time.Time) string {
	return formatDate(t)
}

// FormatError creates a formatted error message
func FormatError(entity, operation string, err error) error {
	return fmt.Errorf("failed to %s %s: %w", operation, entity, err)
}
