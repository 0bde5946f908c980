package forecast

import (
	"math"
	"time"

	"github.com/wattwise/usage-engine/internal/model"
)

// Estimator derives a month-end forecast from month-to-date usage by
// extrapolating at the observed daily rate. The confidence band and accuracy
// are configuration, not model output; they exist so the single set of trend
// constants lives here instead of being repeated across components.
type Estimator struct {
	costPerKWh          float64
	previousMonthFactor float64
	confidenceBand      float64
	accuracy            float64
}

func New(costPerKWh, previousMonthFactor, confidenceBand, accuracy float64) *Estimator {
	return &Estimator{
		costPerKWh:          costPerKWh,
		previousMonthFactor: previousMonthFactor,
		confidenceBand:      confidenceBand,
		accuracy:            accuracy,
	}
}

// Predict extrapolates the month-to-date total to a full-month figure.
// Guarantees lower <= predicted <= upper and accuracy in [0, 1].
func (e *Estimator) Predict(monthToDateUnits float64, now time.Time) model.Prediction {
	elapsed := now.Day()
	monthDays := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()

	var predicted float64
	if elapsed > 0 {
		dailyRate := monthToDateUnits / float64(elapsed)
		predicted = dailyRate * float64(monthDays)
	}

	units := round2(predicted)
	return model.Prediction{
		PredictedUnits: units,
		PredictedCost:  round2(units * e.costPerKWh),
		ConfidenceInterval: model.ConfidenceInterval{
			Lower: round2(predicted * (1 - e.confidenceBand)),
			Upper: round2(predicted * (1 + e.confidenceBand)),
		},
		Accuracy:    e.accuracy,
		GeneratedAt: now,
	}
}

// PreviousMonth synthesizes last month's aggregate from the current one
// using the configured trend factor. Peak hours carry over unchanged.
func (e *Estimator) PreviousMonth(current model.AggregatedUsage) model.AggregatedUsage {
	return model.AggregatedUsage{
		Period:      current.Period,
		TotalUnits:  round2(current.TotalUnits * e.previousMonthFactor),
		TotalCost:   round2(current.TotalCost * e.previousMonthFactor),
		AvgDaily:    round2(current.AvgDaily * e.previousMonthFactor),
		PeakHour:    current.PeakHour,
		OffPeakHour: current.OffPeakHour,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
