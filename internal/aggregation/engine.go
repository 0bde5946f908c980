package aggregation

import (
	"math"
	"sort"
	"time"

	"github.com/wattwise/usage-engine/internal/model"
)

// Engine derives usage aggregates from appliance snapshots or historical
// samples. It holds no mutable state; every method is a pure function of its
// inputs and the explicit reference instant.
type Engine struct {
	costPerKWh float64
}

func New(costPerKWh float64) *Engine {
	return &Engine{costPerKWh: costPerKWh}
}

// Aggregate sums schedule-based appliance usage over the period ending at
// now. An appliance contributes only for the days it has existed, capped at
// the period length, so newly added appliances never contribute
// retroactively. Peak hours are unknown on this path and reported as 0/0.
func (e *Engine) Aggregate(appliances []model.Appliance, period model.Period, now time.Time) model.AggregatedUsage {
	elapsed := periodDays(period, now)

	var total float64
	for _, a := range appliances {
		days := min(elapsed, daysSinceCreation(a.CreatedAt, now))
		total += dailyKWh(a) * float64(days)
	}

	units := round2(total)
	var avg float64
	if elapsed > 0 {
		avg = round2(total / float64(elapsed))
	}

	return model.AggregatedUsage{
		Period:     period,
		TotalUnits: units,
		// Cost is derived from the rounded total so the tariff relation
		// holds exactly on the reported figures.
		TotalCost: round2(units * e.costPerKWh),
		AvgDaily:  avg,
	}
}

// AggregateSamples aggregates historical hourly samples for the period
// ending at now. Peak and off-peak hours come from a 24-bucket hourly sum;
// off-peak considers only hours with strictly positive usage.
func (e *Engine) AggregateSamples(samples []model.UsageSample, period model.Period, now time.Time) model.AggregatedUsage {
	start := PeriodStart(period, now)

	var totalUnits, totalCost float64
	var hourly [24]float64
	for _, s := range samples {
		if s.Timestamp.Before(start) {
			continue
		}
		totalUnits += s.UnitsConsumed
		totalCost += s.Cost
		hourly[s.Timestamp.Hour()] += s.UnitsConsumed
	}

	days := int(math.Ceil(now.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}

	peak := 0
	for h := 1; h < 24; h++ {
		if hourly[h] > hourly[peak] {
			peak = h
		}
	}

	offPeak := 0
	found := false
	for h := 0; h < 24; h++ {
		if hourly[h] <= 0 {
			continue
		}
		if !found || hourly[h] < hourly[offPeak] {
			offPeak = h
			found = true
		}
	}

	return model.AggregatedUsage{
		Period:      period,
		TotalUnits:  round2(totalUnits),
		TotalCost:   round2(totalCost),
		AvgDaily:    round2(totalUnits / float64(days)),
		PeakHour:    peak,
		OffPeakHour: offPeak,
	}
}

// DeviceBreakdown computes month-to-date usage per appliance, with a
// full-month projection that assumes each appliance runs for the entire
// month regardless of when it was added. Entries are ordered by descending
// share; ties keep insertion order.
func (e *Engine) DeviceBreakdown(appliances []model.Appliance, now time.Time) []model.DeviceUsage {
	if len(appliances) == 0 {
		return []model.DeviceUsage{}
	}

	currentDay := now.Day()
	monthDays := daysInMonth(now)

	actuals := make([]float64, len(appliances))
	var totalActual float64
	for i, a := range appliances {
		daysActive := min(currentDay, daysSinceCreation(a.CreatedAt, now))
		actuals[i] = dailyKWh(a) * float64(daysActive)
		totalActual += actuals[i]
	}

	breakdown := make([]model.DeviceUsage, len(appliances))
	for i, a := range appliances {
		daily := dailyKWh(a)
		projected := daily * float64(monthDays)

		var pct float64
		if totalActual > 0 {
			pct = actuals[i] / totalActual * 100
		}

		breakdown[i] = model.DeviceUsage{
			DeviceID:       a.ID,
			DeviceName:     a.Name,
			DeviceType:     a.Name,
			Percentage:     round2(pct),
			Units:          round2(actuals[i]),
			ProjectedUnits: round2(projected),
			Cost:           round2(actuals[i] * e.costPerKWh),
			ProjectedCost:  round2(projected * e.costPerKWh),
			DailyKWh:       round2(daily),
			DaysActive:     min(currentDay, daysSinceCreation(a.CreatedAt, now)),
			Color:          colorFor(a.ID),
		}
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Percentage > breakdown[j].Percentage
	})

	return breakdown
}

// MonthToDate is the schedule-based usage accumulated so far this calendar
// month, the input for the month-end forecast.
func (e *Engine) MonthToDate(appliances []model.Appliance, now time.Time) float64 {
	currentDay := now.Day()

	var total float64
	for _, a := range appliances {
		days := min(currentDay, daysSinceCreation(a.CreatedAt, now))
		total += dailyKWh(a) * float64(days)
	}
	return round2(total)
}

// periodDays is the denominator for daily averages: a fixed count for today
// and week, the calendar length of now's month, and the elapsed day of year.
func periodDays(period model.Period, now time.Time) int {
	switch period {
	case model.PeriodToday:
		return 1
	case model.PeriodWeek:
		return 7
	case model.PeriodMonth:
		return daysInMonth(now)
	case model.PeriodYear:
		return now.YearDay()
	default:
		return 0
	}
}

// PeriodStart is the inclusive lower bound used when filtering historical
// samples for a period ending at now.
func PeriodStart(period model.Period, now time.Time) time.Time {
	switch period {
	case model.PeriodToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case model.PeriodWeek:
		return now.Add(-7 * 24 * time.Hour)
	case model.PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case model.PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return now
	}
}

func daysInMonth(now time.Time) int {
	return time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
}

// daysSinceCreation counts any partial day as a full one, so an appliance
// created within the last 24 hours has existed for one day and one created
// at the reference instant for zero.
func daysSinceCreation(createdAt, now time.Time) int {
	diff := now.Sub(createdAt)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

func dailyKWh(a model.Appliance) float64 {
	return a.PowerWatts * a.HoursPerDay / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
