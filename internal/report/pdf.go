package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/straye-as/elevator-api/internal/domain"
)

const fontFamily = "Helvetica"

// RenderProformaPDF renders a printable proforma. sale may be nil.
func RenderProformaPDF(proforma *domain.Proforma, sale *domain.Sale) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle(fmt.Sprintf("Proforma %d", proforma.ID), true)
	pdf.AddPage()

	// Core fonts are cp1252; translate so names with accents survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Proforma No. %d", proforma.ID)), "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Date: %s", formatDate(proforma.ProformaDate))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Valid until: %s", formatDate(proforma.ValidUntil))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Status: %s", proforma.Status)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	addClientBlock(pdf, tr, proforma.Client)
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, tr("Project"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(0, 6, tr(proforma.ProjectName), "", "L", false)
	if strings.TrimSpace(proforma.Description) != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 5, tr(proforma.Description), "", "L", false)
	}
	pdf.Ln(4)

	widths := []float64{120, 50}
	drawRow(pdf, tr, []string{"Description", "Amount"}, widths, true)
	drawRow(pdf, tr, []string{proforma.ProjectName, proforma.TotalAmount.StringFixed(2)}, widths, false)

	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(widths[0], 8, tr("Total"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[1], 8, proforma.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(fontFamily, "", 10)
	if sale != nil {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Converted to sale No. %d", sale.ID)), "", 1, "L", false, 0, "")
	}
	if proforma.TechnicalDetailsPDF != "" {
		pdf.CellFormat(0, 6, tr("Technical details are attached separately."), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addClientBlock(pdf *gofpdf.Fpdf, tr func(string) string, client *domain.Client) {
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, tr("Client"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	if client == nil {
		pdf.CellFormat(0, 5, "-", "", 1, "L", false, 0, "")
		return
	}

	lines := []string{
		client.Name,
		fmt.Sprintf("Contact: %s", safeValue(client.ContactPerson)),
		fmt.Sprintf("Address: %s", safeValue(joinNonEmpty(", ", client.Address, client.PostalCode, client.City, client.Country))),
		fmt.Sprintf("Phone: %s", safeValue(client.Phone)),
		fmt.Sprintf("Email: %s", safeValue(client.Email)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
}

func drawRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontFamily, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(domain.DateFormat)
}
