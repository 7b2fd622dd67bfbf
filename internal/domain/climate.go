package domain

import (
	"context"
	"log/slog"
)

// Rainfall provenance values recorded on an Assessment.
const (
	RainfallSourceRequest     = "request"
	RainfallSourceClimatology = "climatology"
	RainfallSourceDefault     = "default"
)

// SeedRainfall resolves the rainfall profile for a scenario. An explicit
// profile in the request wins; otherwise the climatology source is consulted
// for the request's coordinates. When neither applies, or the lookup fails,
// the built-in default profile is used (graceful degradation, never an
// error). The returned string is the provenance to record on the assessment.
func SeedRainfall(ctx context.Context, req ScenarioRequest, source ClimatologySource, logger *slog.Logger) (RainfallTable, string) {
	if len(req.Rainfall) == MonthsPerYear {
		table, err := NewRainfallTable(req.Rainfall)
		if err == nil {
			return table, RainfallSourceRequest
		}
	}

	if source != nil && req.Location != nil {
		normals, err := source.MonthlyNormals(ctx, req.Location.Lat, req.Location.Lon)
		if err != nil {
			logger.Warn("climatology lookup failed",
				"lat", req.Location.Lat,
				"lon", req.Location.Lon,
				"error", err,
			)
			return DefaultProfile(), RainfallSourceDefault
		}
		return TableFromClimatology(normals), RainfallSourceClimatology
	}

	return DefaultProfile(), RainfallSourceDefault
}
