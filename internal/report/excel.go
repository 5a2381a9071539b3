package report

import (
	"fmt"

	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of generated workbooks
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Table is a single-sheet tabular export
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]interface{}
}

// WriteXLSX renders the table into an xlsx workbook
func WriteXLSX(table Table) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := table.Sheet
	if sheet == "" {
		sheet = "Report"
	}
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for col, header := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	if len(table.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(table.Headers), 1)
		_ = file.SetCellStyle(sheet, "A1", last, headerStyle)
		lastCol, _ := excelize.ColumnNumberToName(len(table.Headers))
		_ = file.SetColWidth(sheet, "A", lastCol, 18)
	}

	for r, row := range table.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func uintValue(v *uint) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// ProjectsTable lays out the projects report
func ProjectsTable(rows []domain.ProjectReportRow) Table {
	t := Table{
		Sheet: "Projects",
		Headers: []string{"Project", "Name", "Start date", "End date", "Status", "Type",
			"Sale", "Client", "Price", "Paid", "Payment date", "Payment method", "Proforma"},
	}
	for _, r := range rows {
		price := ""
		if r.Price != nil {
			price = r.Price.StringFixed(2)
		}
		t.Rows = append(t.Rows, []interface{}{
			r.ProjectID, r.ProjectName, r.StartDate, r.EndDate, r.Status, r.Type,
			uintValue(r.SaleID), uintValue(r.ClientID), price, r.Paid, r.PaymentDate, r.PaymentMethod,
			uintValue(r.ProformaID),
		})
	}
	return t
}

// UnitsTable lays out the units report
func UnitsTable(rows []domain.UnitReportRow) Table {
	t := Table{
		Sheet:   "Units",
		Headers: []string{"Unit", "Project", "Site", "Unit type", "Status", "Last inspection", "Open issues"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{
			r.ID, r.ProjectID, r.Site, r.UnitType, r.Status, r.LastInspection, r.OpenIssues,
		})
	}
	return t
}

// ProformasTable lays out the proformas report
func ProformasTable(rows []domain.ProformaReportRow) Table {
	t := Table{
		Sheet: "Proformas",
		Headers: []string{"Proforma", "Client", "Client name", "Project name", "Date", "Valid until",
			"Total", "Status", "Converted", "Technical details"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{
			r.ProformaID, r.ClientID, r.ClientName, r.ProjectName, r.ProformaDate, r.ValidUntil,
			r.TotalAmount.StringFixed(2), r.Status, r.IsConvertedToSale, r.TechnicalDetailsPDF,
		})
	}
	return t
}

// SalesTable lays out the sales report
func SalesTable(rows []domain.SaleReportRow) Table {
	t := Table{
		Sheet: "Sales",
		Headers: []string{"Sale", "Client", "Client name", "Model", "Model name", "Price", "Paid",
			"Payment date", "Payment method", "Proforma", "Notes"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{
			r.SaleID, r.ClientID, r.ClientName, uintValue(r.ModelID), r.ModelName, r.Price.StringFixed(2),
			r.Paid, r.PaymentDate, r.PaymentMethod, uintValue(r.ProformaID), r.Notes,
		})
	}
	return t
}
