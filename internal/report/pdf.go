// Package report renders assessments and rainfall profiles as shareable
// documents: printable PDF summaries and xlsx workbooks for profile exchange.
package report

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/hydroplan/rainharvest/internal/domain"
)

// WriteAssessmentPDF renders an assessment as a printable A4 report.
func WriteAssessmentPDF(w io.Writer, a domain.Assessment) error {
	title := a.Name
	if title == "" {
		title = "Rainwater Harvest Assessment"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Scenario: %s", a.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Evaluated: %s", a.EvaluatedAt.Format("2006-01-02 15:04 MST")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Roof area: %.1f m2   Collection efficiency: %.0f%%", a.Site.RoofAreaM2, a.Site.CollectionEfficiency*100))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Rainfall profile: %s (%.1f mm/yr)", a.RainfallSource, a.Rainfall.TotalMM()))
	pdf.Ln(10)

	writeHarvestTable(pdf, a)
	writeIntegrityTable(pdf, a)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Recommended storage band: %.0f - %.0f L", a.TankBand.MinLiters, a.TankBand.MaxLiters))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Tank fit: %s", a.TankFit))

	return pdf.Output(w)
}

func writeHarvestTable(pdf *gofpdf.Fpdf, a domain.Assessment) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Monthly Harvest")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 6, "Month", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Rainfall (mm)", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, "Collected (L)", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i, m := range a.Rainfall.Rows() {
		pdf.CellFormat(30, 6, m.Month, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", m.RainfallMM), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.0f", a.Harvest.MonthlyLiters[i]), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 6, "Annual", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", a.Rainfall.TotalMM()), "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.0f", a.Harvest.AnnualLiters), "1", 1, "R", false, 0, "")
	pdf.Ln(6)
}

func writeIntegrityTable(pdf *gofpdf.Fpdf, a domain.Assessment) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Pipe Integrity Projection (k = %g)", a.Degradation.K))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 6, "Year", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, "Integrity (%)", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range a.Integrity {
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", p.Year), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", p.IntegrityPercent), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}
