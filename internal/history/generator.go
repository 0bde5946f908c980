package history

import (
	"math"
	"time"

	"github.com/wattwise/usage-engine/internal/model"
)

// Generator produces a synthetic hourly usage history anchored at an
// explicit reference instant. Output is fully determined by (months, now):
// the jitter comes from a seeded pseudo-random function, not a free-running
// source, so repeated calls are byte-identical.
type Generator struct {
	costPerKWh float64
	regionCode string
}

var deviceIDs = []string{"ac-1", "fridge-1", "heater-1", "lights-1", "tv-1", "washer-1"}

func New(costPerKWh float64, regionCode string) *Generator {
	return &Generator{costPerKWh: costPerKWh, regionCode: regionCode}
}

// Generate returns months*30+1 days of hourly samples ending at now,
// oldest first.
func (g *Generator) Generate(months int, now time.Time) []model.UsageSample {
	totalDays := months * 30
	samples := make([]model.UsageSample, 0, (totalDays+1)*24)

	// Hours run backwards within each day block so timestamps ascend
	// strictly across the whole sequence.
	for day := totalDays; day >= 0; day-- {
		for hour := 23; hour >= 0; hour-- {
			ts := now.Add(-time.Duration(day)*24*time.Hour - time.Duration(hour)*time.Hour)

			base := baseLoad(hour)
			seasonal := seasonalFactor(ts.Month())
			jitter := 0.8 + seededRandom(day*24+hour)*0.4

			units := base * seasonal * jitter
			cost := units * g.costPerKWh

			samples = append(samples, model.UsageSample{
				Timestamp:     ts,
				UnitsConsumed: round2(units),
				DeviceID:      deviceIDs[hour%len(deviceIDs)],
				Temperature:   20 + seededRandom(day*24+hour+100)*15,
				RegionCode:    g.regionCode,
				Cost:          round2(cost),
			})
		}
	}

	return samples
}

// baseLoad is the hour-of-day load curve: night minimum, morning and evening
// peaks, daytime baseline.
func baseLoad(hour int) float64 {
	switch {
	case hour <= 5:
		return 0.3
	case hour <= 9:
		return 2.5
	case hour <= 17:
		return 1.5
	case hour <= 23:
		return 3.5
	default:
		return 0.5
	}
}

// seasonalFactor elevates load in the April-September cooling season.
func seasonalFactor(m time.Month) float64 {
	if m >= time.April && m <= time.September {
		return 1.5
	}
	return 1.0
}

// seededRandom maps a seed to [0, 1) via the fractional part of a scaled
// sine, matching the dashboard's historical data exactly.
func seededRandom(seed int) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
