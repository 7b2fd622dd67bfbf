package domain

// SiteConfig carries the collection-surface parameters for one computation.
// The core accepts any positive roof area; the [10, 10000] m² bound belongs
// to the input surface, not here.
type SiteConfig struct {
	RoofAreaM2           float64 `json:"roof_area_m2"`
	CollectionEfficiency float64 `json:"collection_efficiency"` // fraction in (0, 1]
}

// HarvestResult holds per-month collected volumes positionally aligned with
// the rainfall table, plus annual totals.
type HarvestResult struct {
	MonthlyLiters     [MonthsPerYear]float64 `json:"monthly_liters"`
	AnnualLiters      float64                `json:"annual_liters"`
	AnnualCubicMeters float64                `json:"annual_m3"`
}

// ComputeHarvest converts a rainfall profile plus site parameters into
// monthly and annual collected-water volumes. Output scales linearly in both
// roof area and efficiency.
func ComputeHarvest(table RainfallTable, site SiteConfig) HarvestResult {
	var result HarvestResult
	for i, m := range table {
		// /1000 then *1000 cancels algebraically; the order is kept so
		// float results stay stable across versions.
		collected := site.RoofAreaM2 * (m.RainfallMM / 1000.0) * site.CollectionEfficiency * 1000.0
		result.MonthlyLiters[i] = collected
		result.AnnualLiters += collected
	}
	result.AnnualCubicMeters = result.AnnualLiters / 1000.0
	return result
}
