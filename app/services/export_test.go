package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	businessflow "github.com/plakatpro/plakatpro/business_flow"
	"github.com/plakatpro/plakatpro/models"
	"github.com/plakatpro/plakatpro/utils"
)

func exportFixture() (*models.DistributionList, []*models.DistributionListItem, businessflow.QuoteCosts) {
	eventDate := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	list := &models.DistributionList{
		EventName: "Stadtfest Koeln",
		EventDate: &eventDate,
		Notes:     "Aufbau ab 6 Uhr, Plakatierung nur an Laternen",
		Status:    models.DistributionListStatusDraft,
	}

	items := []*models.DistributionListItem{
		{
			Quantity:   10,
			PosterSize: models.PosterSizeA1,
			Fee:        decimal.NullDecimal{Decimal: decimal.NewFromFloat(20), Valid: true},
			City:       &models.City{Name: "Aachen", PostalCode: "52062"},
		},
		{
			Quantity:   5,
			PosterSize: models.PosterSizeA0,
			City:       &models.City{Name: "Bonn", PostalCode: "53111"},
		},
	}

	costs := businessflow.CalculateQuoteCosts(items, businessflow.DefaultVATRate)
	return list, items, costs
}

func TestExportFilename(t *testing.T) {
	list, _, _ := exportFixture()
	today := utils.UTCNow().Format("2006-01-02")

	assert.Equal(t, "StadtfestKoeln_"+today+".pdf", ExportFilename(list, "pdf"))
	assert.Equal(t, "StadtfestKoeln_"+today+".xlsx", ExportFilename(list, "xlsx"))

	t.Run("DatedAtDownloadNotEventDate", func(t *testing.T) {
		eventDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		old := &models.DistributionList{EventName: "Karneval", EventDate: &eventDate}
		assert.Equal(t, "Karneval_"+today+".pdf", ExportFilename(old, "pdf"))
	})

	t.Run("StripsUnsafeRunes", func(t *testing.T) {
		list.EventName = "Fest / 2026 <Sommer>"
		name := ExportFilename(list, "pdf")
		assert.Equal(t, "Fest2026Sommer_"+today+".pdf", name)
	})

	t.Run("FallbackWhenNothingSurvives", func(t *testing.T) {
		list.EventName = "!!! ///"
		name := ExportFilename(list, "pdf")
		assert.True(t, strings.HasPrefix(name, "distribution_list_"), "name = %s", name)
	})
}

func TestBuildPDF(t *testing.T) {
	list, items, costs := exportFixture()
	exporter := NewExporter("PlakatPro")

	data, err := exporter.BuildPDF(list, items, costs)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "not a PDF document")
}

func TestBuildHTML(t *testing.T) {
	list, items, costs := exportFixture()
	exporter := NewExporter("PlakatPro")

	data, err := exporter.BuildHTML(list, items, costs)
	require.NoError(t, err)

	html := string(data)
	assert.Contains(t, html, "Stadtfest Koeln")
	assert.Contains(t, html, "Aachen")
	assert.Contains(t, html, "Bonn")
	assert.Contains(t, html, "107.10")
	assert.Contains(t, html, "Plakate gesamt")
	assert.Contains(t, html, "15 Stk.")
	assert.Contains(t, html, "Aufbau ab 6 Uhr")
	assert.Contains(t, html, "Erstellt am")

	t.Run("NotesBlockOnlyWhenPresent", func(t *testing.T) {
		bare := &models.DistributionList{EventName: "Messe"}
		data, err := exporter.BuildHTML(bare, nil, businessflow.QuoteCosts{})
		require.NoError(t, err)
		assert.NotContains(t, string(data), "Hinweise")
	})
}

func TestBuildXLSX(t *testing.T) {
	list, items, costs := exportFixture()
	exporter := NewExporter("PlakatPro")

	data, err := exporter.BuildXLSX(list, items, costs)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	sheets := wb.GetSheetList()
	require.NotEmpty(t, sheets)

	rows, err := wb.GetRows(sheets[0])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(rows), 2, "expected header plus item rows")

	flat := ""
	for _, row := range rows {
		flat += strings.Join(row, "|") + "\n"
	}
	assert.Contains(t, flat, "Aachen")
	assert.Contains(t, flat, "Bonn")
	assert.Contains(t, flat, "Plakate gesamt")
	assert.Contains(t, flat, "15 Stk.")
	assert.Contains(t, flat, "Hinweise")
	assert.Contains(t, flat, "Erstellt am")
}
