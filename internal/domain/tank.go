package domain

// TankFit classifies an annual harvest volume against a recommended storage band.
type TankFit string

const (
	TankFitBelow  TankFit = "below"
	TankFitWithin TankFit = "within"
	TankFitAbove  TankFit = "above"
)

// TankBand is a recommended storage capacity range in liters, inclusive at
// both ends.
type TankBand struct {
	MinLiters float64 `json:"min_liters"`
	MaxLiters float64 `json:"max_liters"`
}

// DefaultTankBand returns the fixed recommended band of 140–280 m³.
func DefaultTankBand() TankBand {
	return TankBand{MinLiters: 140_000, MaxLiters: 280_000}
}

// ClassifyTankFit places an annual volume relative to the band. Pure and
// total: any float input yields a classification.
func ClassifyTankFit(annualLiters float64, band TankBand) TankFit {
	switch {
	case annualLiters < band.MinLiters:
		return TankFitBelow
	case annualLiters > band.MaxLiters:
		return TankFitAbove
	default:
		return TankFitWithin
	}
}
