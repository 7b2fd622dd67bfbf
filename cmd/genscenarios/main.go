// Command genscenarios regenerates the scenario fixtures under data/mock.
// It writes the raw scenario requests plus their evaluated assessments, using
// the actual domain package with a fixed clock so the fixtures stay
// reproducible.
//
// Usage:
//
//	go run ./cmd/genscenarios \
//	  -out data/mock/scenarios.json \
//	  -assess-out data/mock/assessments.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hydroplan/rainharvest/internal/domain"
)

// Fixed evaluation instant keeps EvaluatedAt stable across regenerations.
var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock/scenarios.json", "output path for the scenario request fixture")
	assessOut := flag.String("assess-out", "data/mock/assessments.json", "output path for the evaluated assessment fixture")
	flag.Parse()

	domain.SetClock(clockwork.NewFakeClockAt(fixedNow))
	defer domain.SetClock(nil)

	scenarios := fixtureScenarios()

	assessments := make([]domain.Assessment, 0, len(scenarios))
	for _, req := range scenarios {
		table, source := domain.SeedRainfall(context.Background(), req, nil, slog.Default())
		a, err := domain.EvaluateScenario(req, table, source)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", req.ID, err)
		}
		assessments = append(assessments, a)
	}

	if err := writeJSON(*out, scenarios); err != nil {
		return err
	}
	if err := writeJSON(*assessOut, assessments); err != nil {
		return err
	}

	fmt.Printf("wrote %d scenarios to %s and %s\n", len(scenarios), *out, *assessOut)
	return nil
}

// fixtureScenarios covers the interesting corners of the model: the default
// climatology, arid and monsoon profiles, a custom storage band, and a long
// projection horizon.
func fixtureScenarios() []domain.ScenarioRequest {
	arid := monthlyProfile(
		[12]float64{2, 3, 5, 8, 12, 1, 0, 0, 4, 9, 10, 6},
		[12]float64{0.5, 0.8, 1.1, 1.6, 2.2, 0.2, 0, 0, 0.9, 1.7, 1.9, 1.2},
	)
	monsoon := monthlyProfile(
		[12]float64{20, 25, 60, 120, 260, 340, 380, 310, 220, 150, 70, 45},
		[12]float64{3.1, 3.6, 6.4, 10.2, 17.9, 22.4, 24.0, 21.3, 16.8, 12.5, 7.3, 5.0},
	)

	return []domain.ScenarioRequest{
		{
			ID:          "scn-smallholding",
			Name:        "smallholding with default climatology",
			Site:        domain.SiteConfig{RoofAreaM2: 250, CollectionEfficiency: 0.85},
			Degradation: domain.DegradationConfig{K: 0.04, ServiceYears: 25},
		},
		{
			ID:          "scn-warehouse-arid",
			Name:        "warehouse in an arid basin",
			Site:        domain.SiteConfig{RoofAreaM2: 1200, CollectionEfficiency: 0.9},
			Degradation: domain.DegradationConfig{K: 0.02, ServiceYears: 30},
			Rainfall:    arid,
		},
		{
			ID:          "scn-campus-monsoon",
			Name:        "campus hall under a monsoon regime",
			Site:        domain.SiteConfig{RoofAreaM2: 2000, CollectionEfficiency: 0.8},
			Degradation: domain.DegradationConfig{K: 0.03, ServiceYears: 20},
			Rainfall:    monsoon,
		},
		{
			ID:          "scn-rooftop-city",
			Name:        "city rooftop retrofit",
			Site:        domain.SiteConfig{RoofAreaM2: 180, CollectionEfficiency: 0.75},
			Degradation: domain.DegradationConfig{K: 0.05, ServiceYears: 15},
		},
		{
			ID:          "scn-depot-custom-band",
			Name:        "depot sized against a small cistern",
			Site:        domain.SiteConfig{RoofAreaM2: 100, CollectionEfficiency: 0.7},
			Degradation: domain.DegradationConfig{K: 0.04, ServiceYears: 10},
			TankBand:    &domain.TankBand{MinLiters: 50_000, MaxLiters: 100_000},
		},
		{
			ID:          "scn-long-horizon",
			Name:        "long-horizon durability study",
			Site:        domain.SiteConfig{RoofAreaM2: 400, CollectionEfficiency: 0.6},
			Degradation: domain.DegradationConfig{K: 0.01, ServiceYears: 50},
		},
	}
}

func monthlyProfile(rainfall, rainyDays [12]float64) []domain.MonthlyRain {
	rows := make([]domain.MonthlyRain, domain.MonthsPerYear)
	for i := range rows {
		rows[i] = domain.MonthlyRain{
			Month:      domain.Months[i],
			RainfallMM: rainfall[i],
			RainyDays:  rainyDays[i],
		}
	}
	return rows
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
