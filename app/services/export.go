package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/go-pdf/fpdf"
	"github.com/plakatpro/plakatpro/business_flow"
	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/utils"
	"github.com/xuri/excelize/v2"
)

// Exporter renders distribution list quotes as PDF, HTML and XLSX. All
// three renderings take the same cost breakdown so the figures agree.
type Exporter interface {
	BuildPDF(list *models.DistributionList, items []*models.DistributionListItem, costs businessflow.QuoteCosts) ([]byte, error)
	BuildHTML(list *models.DistributionList, items []*models.DistributionListItem, costs businessflow.QuoteCosts) ([]byte, error)
	BuildXLSX(list *models.DistributionList, items []*models.DistributionListItem, costs businessflow.QuoteCosts) ([]byte, error)
	Filename(list *models.DistributionList, ext string) string
}

// ExporterImpl implements Exporter
type ExporterImpl struct {
	companyName string
}

// NewExporter creates a new exporter; companyName appears in document headers
func NewExporter(companyName string) Exporter {
	if companyName == "" {
		companyName = "PlakatPro"
	}
	return &ExporterImpl{companyName: companyName}
}

// ExportFilename derives the download filename from the event name and the
// current date, e.g. "StadtfestKoeln_2026-08-29.pdf".
func ExportFilename(list *models.DistributionList, ext string) string {
	name := utils.SanitizeFilename(list.EventName)
	if name == "" {
		name = "distribution_list"
	}

	return fmt.Sprintf("%s_%s.%s", name, utils.UTCNow().Format("2006-01-02"), ext)
}

// Filename derives the download filename for a rendered document
func (e *ExporterImpl) Filename(list *models.DistributionList, ext string) string {
	return ExportFilename(list, ext)
}

// BuildPDF renders the quote as a PDF document
func (e *ExporterImpl) BuildPDF(list *models.DistributionList, items []*models.DistributionListItem, costs businessflow.QuoteCosts) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(list.EventName, true)
	pdf.AddPage()

	translator := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, translator(e.companyName), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, translator(fmt.Sprintf("Angebot: %s", list.EventName)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if list.Client != nil {
		pdf.CellFormat(0, 6, translator(fmt.Sprintf("Kunde: %s", list.Client.Name)), "", 1, "L", false, 0, "")
	}
	if list.StartDate != nil && list.EndDate != nil {
		period := fmt.Sprintf("Zeitraum: %s - %s",
			list.StartDate.Format("02.01.2006"),
			list.EndDate.Format("02.01.2006"))
		pdf.CellFormat(0, 6, translator(period), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Item table
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	headers := []struct {
		label string
		width float64
	}{
		{"PLZ", 18},
		{"Gemeinde", 52},
		{"Anzahl", 18},
		{"Format", 22},
		{"Gebuehr", 28},
		{"Genehmigung", 32},
	}
	for _, h := range headers {
		pdf.CellFormat(h.width, 7, translator(h.label), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		postalCode, cityName := "", ""
		if item.City != nil {
			postalCode = item.City.PostalCode
			cityName = item.City.Name
		}
		pdf.CellFormat(18, 6, translator(postalCode), "1", 0, "L", false, 0, "")
		pdf.CellFormat(52, 6, translator(cityName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(18, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(22, 6, string(item.PosterSize), "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, formatEuro(item.EffectiveFee().StringFixed(2)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(32, 6, string(item.PermitStatus), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// Cost breakdown
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(120, 6, translator("Plakate gesamt"), "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, fmt.Sprintf("%d Stk.", costs.TotalQuantity), "", 1, "R", false, 0, "")
	writeCostRow(pdf, translator, fmt.Sprintf("Plakate A1 (%d Stk.)", costs.QuantityA1), costs.CostA1.StringFixed(2))
	writeCostRow(pdf, translator, fmt.Sprintf("Plakate A0 (%d Stk.)", costs.QuantityA0), costs.CostA0.StringFixed(2))
	writeCostRow(pdf, translator, "Antragspauschalen", costs.ApplicationCost.StringFixed(2))
	writeCostRow(pdf, translator, "Gemeindegebuehren", costs.CityFees.StringFixed(2))
	writeCostRow(pdf, translator, "Zwischensumme", costs.Subtotal.StringFixed(2))
	writeCostRow(pdf, translator, "MwSt.", costs.VAT.StringFixed(2))

	pdf.SetFont("Helvetica", "B", 11)
	writeCostRow(pdf, translator, "Gesamtbetrag", costs.Total.StringFixed(2))

	if list.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, translator("Hinweise"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, translator(list.Notes), "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, translator(generatedAt()), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// generatedAt is the footer line stamped on every rendered document
func generatedAt() string {
	return fmt.Sprintf("Erstellt am %s", utils.UTCNow().Format("02.01.2006 15:04"))
}

func writeCostRow(pdf *fpdf.Fpdf, translator func(string) string, label, amount string) {
	pdf.CellFormat(120, 6, translator(label), "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, formatEuro(amount), "", 1, "R", false, 0, "")
}

func formatEuro(amount string) string {
	return amount + " EUR"
}

var quoteTemplate = template.Must(template.New("quote").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>{{.List.EventName}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #eee; }
td.num { text-align: right; }
.totals td { border: none; }
.totals tr.total td { font-weight: bold; border-top: 2px solid #333; }
.footer { color: #777; font-size: 0.8em; }
</style>
</head>
<body>
<h1>{{.Company}}</h1>
<h2>Angebot: {{.List.EventName}}</h2>
{{if .List.Client}}<p>Kunde: {{.List.Client.Name}}</p>{{end}}
{{if and .List.StartDate .List.EndDate}}<p>Zeitraum: {{.List.StartDate.Format "02.01.2006"}} &ndash; {{.List.EndDate.Format "02.01.2006"}}</p>{{end}}
<table>
<tr><th>PLZ</th><th>Gemeinde</th><th>Anzahl</th><th>Format</th><th>Geb&uuml;hr</th><th>Genehmigung</th></tr>
{{range .Items}}
<tr>
<td>{{if .City}}{{.City.PostalCode}}{{end}}</td>
<td>{{if .City}}{{.City.Name}}{{end}}</td>
<td class="num">{{.Quantity}}</td>
<td>{{.PosterSize}}</td>
<td class="num">{{.EffectiveFee.StringFixed 2}} &euro;</td>
<td>{{.PermitStatus}}</td>
</tr>
{{end}}
</table>
<table class="totals">
<tr><td>Plakate gesamt</td><td class="num">{{.Costs.TotalQuantity}} Stk.</td></tr>
<tr><td>Plakate A1 ({{.Costs.QuantityA1}} Stk.)</td><td class="num">{{.Costs.CostA1.StringFixed 2}} &euro;</td></tr>
<tr><td>Plakate A0 ({{.Costs.QuantityA0}} Stk.)</td><td class="num">{{.Costs.CostA0.StringFixed 2}} &euro;</td></tr>
<tr><td>Antragspauschalen</td><td class="num">{{.Costs.ApplicationCost.StringFixed 2}} &euro;</td></tr>
<tr><td>Gemeindegeb&uuml;hren</td><td class="num">{{.Costs.CityFees.StringFixed 2}} &euro;</td></tr>
<tr><td>Zwischensumme</td><td class="num">{{.Costs.Subtotal.StringFixed 2}} &euro;</td></tr>
<tr><td>MwSt.</td><td class="num">{{.Costs.VAT.StringFixed 2}} &euro;</td></tr>
<tr class="total"><td>Gesamtbetrag</td><td class="num">{{.Costs.Total.StringFixed 2}} &euro;</td></tr>
</table>
{{if .List.Notes}}<h3>Hinweise</h3><p>{{.List.Notes}}</p>{{end}}
<p class="footer">{{.GeneratedAt}}</p>
</body>
</html>
`))

// BuildHTML renders the quote as a standalone HTML document
func (e *ExporterImpl) BuildHTML(list *models.DistributionList, items []*models.DistributionListItem, costs businessflow.QuoteCosts) ([]byte, error) {
	var buf bytes.Buffer
	err := quoteTemplate.Execute(&buf, struct {
		Company     string
		List        *models.DistributionList
		Items       []*models.DistributionListItem
		Costs       businessflow.QuoteCosts
		GeneratedAt string
	}{e.companyName, list, items, costs, generatedAt()})
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	return buf.Bytes(), nil
}

// BuildXLSX renders the quote as an Excel workbook with one row per item
// and a trailing cost block
func (e *ExporterImpl) BuildXLSX(list *models.DistributionList, items []*models.DistributionListItem, costs businessflow.QuoteCosts) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Angebot"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"PLZ", "Gemeinde", "Anzahl", "Format", "Gebuehr (EUR)", "Genehmigung"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, item := range items {
		postalCode, cityName := "", ""
		if item.City != nil {
			postalCode = item.City.PostalCode
			cityName = item.City.Name
		}
		fee, _ := item.EffectiveFee().Float64()

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), postalCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), cityName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), string(item.PosterSize))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), fee)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), string(item.PermitStatus))
		row++
	}

	row++
	writeXLSXCost := func(label, amount string) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), label)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), amount)
		row++
	}
	writeXLSXCost("Plakate gesamt", fmt.Sprintf("%d Stk.", costs.TotalQuantity))
	writeXLSXCost(fmt.Sprintf("Plakate A1 (%d Stk.)", costs.QuantityA1), costs.CostA1.StringFixed(2))
	writeXLSXCost(fmt.Sprintf("Plakate A0 (%d Stk.)", costs.QuantityA0), costs.CostA0.StringFixed(2))
	writeXLSXCost("Antragspauschalen", costs.ApplicationCost.StringFixed(2))
	writeXLSXCost("Gemeindegebuehren", costs.CityFees.StringFixed(2))
	writeXLSXCost("Zwischensumme", costs.Subtotal.StringFixed(2))
	writeXLSXCost("MwSt.", costs.VAT.StringFixed(2))
	writeXLSXCost("Gesamtbetrag", costs.Total.StringFixed(2))

	if list.Notes != "" {
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Hinweise")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), list.Notes)
		row++
	}
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), generatedAt())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render XLSX: %w", err)
	}

	return buf.Bytes(), nil
}
