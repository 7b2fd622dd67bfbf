package domain

import (
	"fmt"
	"math"
)

// DegradationConfig carries the PVC decay-model parameters.
type DegradationConfig struct {
	K            float64 `json:"k"`             // per meter of cumulative rainfall
	ServiceYears int     `json:"service_years"` // number of annual projection points
}

// IntegrityPoint is one sample of the projected integrity curve.
type IntegrityPoint struct {
	Year             int     `json:"year"`
	IntegrityPercent float64 `json:"integrity_percent"`
}

// ProjectIntegrity produces the year-indexed integrity curve for the given
// horizon. Each point depends on the rainfall accumulated from year 1 through
// that year's December, assuming the monthly profile repeats identically
// every year. The curve is strictly decreasing whenever any month is positive
// and k > 0, and constant at 100 only when all rainfall is zero.
func ProjectIntegrity(table RainfallTable, cfg DegradationConfig) ([]IntegrityPoint, error) {
	if cfg.ServiceYears <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, cfg.ServiceYears)
	}

	points := make([]IntegrityPoint, 0, cfg.ServiceYears)
	cumulativeM := 0.0
	for year := 1; year <= cfg.ServiceYears; year++ {
		for _, m := range table {
			cumulativeM += m.RainfallMM / 1000.0
		}
		points = append(points, IntegrityPoint{
			Year:             year,
			IntegrityPercent: 100 * math.Exp(-cfg.K*cumulativeM),
		})
	}
	return points, nil
}
