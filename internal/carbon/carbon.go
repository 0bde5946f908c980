package carbon

import (
	"fmt"
	"math"

	"github.com/wattwise/usage-engine/internal/model"
)

// Calculator converts consumed units to a carbon footprint using fixed
// regional constants.
type Calculator struct {
	kgPerKWh     float64
	kgPerTree    float64
	carKmDivisor float64
}

func New(kgPerKWh, kgPerTree, carKmDivisor float64) *Calculator {
	return &Calculator{
		kgPerKWh:     kgPerKWh,
		kgPerTree:    kgPerTree,
		carKmDivisor: carKmDivisor,
	}
}

func (c *Calculator) Footprint(unitsConsumed float64) model.CarbonFootprint {
	co2 := unitsConsumed * c.kgPerKWh
	trees := co2 / c.kgPerTree

	return model.CarbonFootprint{
		CO2Kg:           round2(co2),
		TreesEquivalent: round2(trees),
		ComparisonText:  fmt.Sprintf("Equivalent to %.1f km driven by car", co2/c.carKmDivisor),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
