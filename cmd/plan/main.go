// Command plan evaluates a single harvest scenario from the command line and
// prints the monthly collection table, the integrity projection, and the tank
// fit verdict. It runs the same evaluation the service does.
//
// Usage:
//
//	go run ./cmd/plan -roof 250 -efficiency 0.85 -k 0.04 -years 25
//	go run ./cmd/plan -roof 1200 -efficiency 0.9 -profile site-rainfall.xlsx -pdf assessment.pdf
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/hydroplan/rainharvest/internal/domain"
	"github.com/hydroplan/rainharvest/internal/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "plan:", err)
		os.Exit(1)
	}
}

func run() error {
	roof := flag.Float64("roof", 250, "roof catchment area in m2")
	efficiency := flag.Float64("efficiency", 0.85, "collection efficiency as a fraction")
	k := flag.Float64("k", 0.04, "degradation constant per meter of cumulative rainfall")
	years := flag.Int("years", 25, "service horizon in years")
	profilePath := flag.String("profile", "", "optional xlsx rainfall profile (defaults to the bundled humid-continental profile)")
	bandMin := flag.Float64("band-min", 140_000, "recommended storage band lower bound, liters")
	bandMax := flag.Float64("band-max", 280_000, "recommended storage band upper bound, liters")
	pdfPath := flag.String("pdf", "", "optional path for a PDF report")
	asJSON := flag.Bool("json", false, "emit the assessment as JSON instead of a table")
	name := flag.String("name", "", "optional scenario name")
	flag.Parse()

	table := domain.DefaultProfile()
	source := domain.RainfallSourceDefault
	if *profilePath != "" {
		f, err := os.Open(*profilePath)
		if err != nil {
			return err
		}
		defer f.Close()
		table, err = report.ParseProfileWorkbook(f)
		if err != nil {
			return fmt.Errorf("profile %s: %w", *profilePath, err)
		}
		source = domain.RainfallSourceRequest
	}

	req := domain.ScenarioRequest{
		Name:        *name,
		Site:        domain.SiteConfig{RoofAreaM2: *roof, CollectionEfficiency: *efficiency},
		Degradation: domain.DegradationConfig{K: *k, ServiceYears: *years},
		TankBand:    &domain.TankBand{MinLiters: *bandMin, MaxLiters: *bandMax},
	}

	assessment, err := domain.EvaluateScenario(req, table, source)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(assessment); err != nil {
			return err
		}
	} else {
		printAssessment(assessment)
	}

	if *pdfPath != "" {
		out, err := os.Create(*pdfPath)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := report.WriteAssessmentPDF(out, assessment); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("\nreport written to %s\n", *pdfPath)
	}

	return nil
}

func printAssessment(a domain.Assessment) {
	fmt.Printf("Scenario %s\n", a.ID)
	fmt.Printf("Roof %.1f m2, efficiency %.0f%%, rainfall %s (%.1f mm/yr)\n\n",
		a.Site.RoofAreaM2, a.Site.CollectionEfficiency*100, a.RainfallSource, a.Rainfall.TotalMM())

	fmt.Printf("%-6s %12s %14s\n", "Month", "Rain (mm)", "Collected (L)")
	for i, m := range a.Rainfall.Rows() {
		fmt.Printf("%-6s %12.1f %14.0f\n", m.Month, m.RainfallMM, a.Harvest.MonthlyLiters[i])
	}
	fmt.Printf("%-6s %12.1f %14.0f\n\n", "Total", a.Rainfall.TotalMM(), a.Harvest.AnnualLiters)

	fmt.Printf("Annual harvest: %.0f L (%.1f m3)\n", a.Harvest.AnnualLiters, a.Harvest.AnnualCubicMeters)
	fmt.Printf("Storage band:   %.0f - %.0f L -> %s\n\n", a.TankBand.MinLiters, a.TankBand.MaxLiters, a.TankFit)

	fmt.Printf("Pipe integrity over %d years (k = %g):\n", a.Degradation.ServiceYears, a.Degradation.K)
	fmt.Printf("%-6s %14s\n", "Year", "Integrity (%)")
	for _, p := range a.Integrity {
		fmt.Printf("%-6d %14.2f\n", p.Year, p.IntegrityPercent)
	}
}
