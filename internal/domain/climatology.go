package domain

import "context"

// Geo is a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ClimatologyResult contains monthly precipitation normals for a location.
type ClimatologyResult struct {
	MonthlyPrecipMM  [MonthsPerYear]float64
	MonthlyRainyDays [MonthsPerYear]float64
	Source           string
}

// ClimatologySource supplies monthly rainfall normals for seeding profiles.
type ClimatologySource interface {
	// MonthlyNormals returns the 12-month precipitation climatology at the
	// given coordinates.
	MonthlyNormals(ctx context.Context, lat, lon float64) (ClimatologyResult, error)
}

// TableFromClimatology converts provider normals into a rainfall table with
// canonical month labels.
func TableFromClimatology(c ClimatologyResult) RainfallTable {
	var t RainfallTable
	for i := range t {
		t[i] = MonthlyRain{
			Month:      Months[i],
			RainfallMM: c.MonthlyPrecipMM[i],
			RainyDays:  c.MonthlyRainyDays[i],
		}
	}
	return t
}
