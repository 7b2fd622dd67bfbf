package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeHarvest(t *testing.T) {
	t.Run("reference example", func(t *testing.T) {
		// 250 m² roof at 85% efficiency over the default 1144 mm/yr profile.
		result := ComputeHarvest(DefaultProfile(), SiteConfig{RoofAreaM2: 250, CollectionEfficiency: 0.85})

		expected := 250.0 * 0.85 * 1144.0
		assert.InDelta(t, expected, result.AnnualLiters, 1e-6)
		assert.InDelta(t, expected/1000.0, result.AnnualCubicMeters, 1e-9)
		assert.Equal(t, TankFitWithin, ClassifyTankFit(result.AnnualLiters, DefaultTankBand()))
	})

	t.Run("per-month formula", func(t *testing.T) {
		site := SiteConfig{RoofAreaM2: 100, CollectionEfficiency: 0.9}
		result := ComputeHarvest(DefaultProfile(), site)

		for i, m := range DefaultProfile() {
			assert.InDelta(t, 100*(m.RainfallMM/1000.0)*0.9*1000, result.MonthlyLiters[i], 1e-9, "month %s", m.Month)
		}
	})

	t.Run("annual equals sum of months", func(t *testing.T) {
		result := ComputeHarvest(DefaultProfile(), SiteConfig{RoofAreaM2: 317.4, CollectionEfficiency: 0.73})

		var sum float64
		for _, v := range result.MonthlyLiters {
			sum += v
		}
		assert.InEpsilon(t, sum, result.AnnualLiters, 1e-9)
		assert.InEpsilon(t, result.AnnualLiters/1000.0, result.AnnualCubicMeters, 1e-9)
	})

	t.Run("linear in roof area", func(t *testing.T) {
		base := ComputeHarvest(DefaultProfile(), SiteConfig{RoofAreaM2: 120, CollectionEfficiency: 0.8})
		doubled := ComputeHarvest(DefaultProfile(), SiteConfig{RoofAreaM2: 240, CollectionEfficiency: 0.8})

		assert.InEpsilon(t, 2*base.AnnualLiters, doubled.AnnualLiters, 1e-9)
		for i := range base.MonthlyLiters {
			if base.MonthlyLiters[i] == 0 {
				assert.Zero(t, doubled.MonthlyLiters[i])
				continue
			}
			assert.InEpsilon(t, 2*base.MonthlyLiters[i], doubled.MonthlyLiters[i], 1e-9)
		}
	})

	t.Run("linear in efficiency", func(t *testing.T) {
		base := ComputeHarvest(DefaultProfile(), SiteConfig{RoofAreaM2: 120, CollectionEfficiency: 0.4})
		doubled := ComputeHarvest(DefaultProfile(), SiteConfig{RoofAreaM2: 120, CollectionEfficiency: 0.8})

		assert.InEpsilon(t, 2*base.AnnualLiters, doubled.AnnualLiters, 1e-9)
	})

	t.Run("zero rainfall yields zero volume", func(t *testing.T) {
		var dry RainfallTable
		for i := range dry {
			dry[i] = MonthlyRain{Month: Months[i]}
		}
		result := ComputeHarvest(dry, SiteConfig{RoofAreaM2: 500, CollectionEfficiency: 1})

		assert.Zero(t, result.AnnualLiters)
		assert.Zero(t, result.AnnualCubicMeters)
	})

	t.Run("negative rainfall propagates", func(t *testing.T) {
		table := DefaultProfile()
		table[0].RainfallMM = -100
		result := ComputeHarvest(table, SiteConfig{RoofAreaM2: 100, CollectionEfficiency: 1})

		assert.Less(t, result.MonthlyLiters[0], 0.0)
	})
}
