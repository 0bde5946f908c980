package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattwise/usage-engine/internal/model"
)

const tariff = 8.0

func appliance(id string, watts, hours float64, createdAt time.Time) model.Appliance {
	return model.Appliance{
		ID:           id,
		Name:         id,
		PowerWatts:   watts,
		HoursPerDay:  hours,
		DaysPerMonth: 30,
		CreatedAt:    createdAt,
	}
}

func TestAggregateEmptySet(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	for _, period := range []model.Period{model.PeriodToday, model.PeriodWeek, model.PeriodMonth, model.PeriodYear} {
		got := e.Aggregate(nil, period, now)
		assert.Zero(t, got.TotalUnits, "period %s", period)
		assert.Zero(t, got.TotalCost, "period %s", period)
		assert.Zero(t, got.AvgDaily, "period %s", period)
		assert.Equal(t, period, got.Period)
	}
}

func TestAggregateWeekExample(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	created := now.AddDate(0, 0, -10)

	got := e.Aggregate([]model.Appliance{appliance("heater-1", 1500, 2, created)}, model.PeriodWeek, now)

	// dailyKWh = 3, capped at the 7-day period despite 10 days of existence.
	assert.Equal(t, 21.0, got.TotalUnits)
	assert.Equal(t, 168.0, got.TotalCost)
	assert.Equal(t, 3.0, got.AvgDaily)
	assert.Equal(t, 0, got.PeakHour)
	assert.Equal(t, 0, got.OffPeakHour)
}

func TestAggregateCostLinearity(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.March, 20, 8, 30, 0, 0, time.UTC)

	sets := [][]model.Appliance{
		{appliance("a", 100, 1, now.AddDate(0, 0, -3))},
		{
			appliance("a", 733, 5.5, now.AddDate(0, 0, -40)),
			appliance("b", 60, 24, now.AddDate(0, 0, -2)),
			appliance("c", 2500, 0.75, now.Add(-30 * time.Hour)),
		},
		{
			appliance("a", 1, 0.1, now.AddDate(-1, 0, 0)),
			appliance("b", 9999, 23.9, now.AddDate(0, -2, 0)),
		},
	}

	for _, set := range sets {
		for _, period := range []model.Period{model.PeriodToday, model.PeriodWeek, model.PeriodMonth, model.PeriodYear} {
			got := e.Aggregate(set, period, now)
			assert.InDelta(t, got.TotalUnits*tariff, got.TotalCost, 1e-9,
				"cost must equal units times tariff for period %s", period)
		}
	}
}

func TestAggregateNewApplianceCapping(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	a := appliance("fresh", 1500, 2, now)

	// Created at the reference instant: zero contribution.
	got := e.Aggregate([]model.Appliance{a}, model.PeriodToday, now)
	assert.Zero(t, got.TotalUnits)

	// 25 hours later: existed for two partial days but the today period
	// caps contribution at one day.
	later := now.Add(25 * time.Hour)
	got = e.Aggregate([]model.Appliance{a}, model.PeriodToday, later)
	assert.Equal(t, 3.0, got.TotalUnits)
	assert.Equal(t, 24.0, got.TotalCost)
}

func TestAggregateMonthLength(t *testing.T) {
	e := New(tariff)

	// 1000 W for 1 h/day, created 15 days before the reference instant.
	feb := time.Date(2025, time.February, 20, 10, 0, 0, 0, time.UTC)
	jan := time.Date(2025, time.January, 20, 10, 0, 0, 0, time.UTC)

	gotFeb := e.Aggregate([]model.Appliance{appliance("a", 1000, 1, feb.AddDate(0, 0, -15))}, model.PeriodMonth, feb)
	gotJan := e.Aggregate([]model.Appliance{appliance("a", 1000, 1, jan.AddDate(0, 0, -15))}, model.PeriodMonth, jan)

	assert.Equal(t, 15.0, gotFeb.TotalUnits)
	assert.Equal(t, 15.0, gotJan.TotalUnits)

	// avgDaily divides by 28 in February and 31 in January.
	assert.Equal(t, 0.54, gotFeb.AvgDaily)
	assert.Equal(t, 0.48, gotJan.AvgDaily)
}

func TestAggregateYearPeriod(t *testing.T) {
	e := New(tariff)
	// March 1st is day 60 of a non-leap year.
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	got := e.Aggregate([]model.Appliance{appliance("a", 1000, 1, now.AddDate(-1, 0, 0))}, model.PeriodYear, now)

	assert.Equal(t, 60.0, got.TotalUnits)
	assert.Equal(t, 1.0, got.AvgDaily)
}

func TestDeviceBreakdownEmptySet(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	got := e.DeviceBreakdown(nil, now)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDeviceBreakdownPercentageSum(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	set := []model.Appliance{
		appliance("ac", 1500, 8, now.AddDate(0, -2, 0)),
		appliance("fridge", 150, 24, now.AddDate(0, -2, 0)),
		appliance("tv", 120, 4.5, now.AddDate(0, 0, -3)),
		appliance("washer", 500, 1, now.Add(-6 * time.Hour)),
	}

	got := e.DeviceBreakdown(set, now)
	require.Len(t, got, 4)

	var sum float64
	for _, d := range got {
		sum += d.Percentage
	}
	assert.InDelta(t, 100, sum, 0.01)
}

func TestDeviceBreakdownOrdering(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, -2, 0)

	set := []model.Appliance{
		appliance("small", 100, 1, old),
		appliance("big", 2000, 10, old),
		appliance("small-twin", 100, 1, old),
	}

	got := e.DeviceBreakdown(set, now)
	require.Len(t, got, 3)

	assert.Equal(t, "big", got[0].DeviceID)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Percentage, got[i].Percentage)
	}
	// Equal shares keep insertion order.
	assert.Equal(t, "small", got[1].DeviceID)
	assert.Equal(t, "small-twin", got[2].DeviceID)
}

func TestDeviceBreakdownProjection(t *testing.T) {
	e := New(tariff)
	// June 15th: month-to-date covers 15 days, projection the full 30.
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	// Added 5 days ago: actual usage covers 5 days, the projection still
	// assumes the whole month.
	got := e.DeviceBreakdown([]model.Appliance{appliance("new", 1000, 2, now.AddDate(0, 0, -5))}, now)
	require.Len(t, got, 1)

	assert.Equal(t, 10.0, got[0].Units)
	assert.Equal(t, 60.0, got[0].ProjectedUnits)
	assert.Equal(t, 80.0, got[0].Cost)
	assert.Equal(t, 480.0, got[0].ProjectedCost)
	assert.Equal(t, 2.0, got[0].DailyKWh)
	assert.Equal(t, 5, got[0].DaysActive)
	assert.Equal(t, 100.0, got[0].Percentage)
}

func TestDeviceBreakdownStableColors(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	set := []model.Appliance{
		appliance("ac", 1500, 8, now.AddDate(0, -1, 0)),
		appliance("fridge", 150, 24, now.AddDate(0, -1, 0)),
	}

	first := e.DeviceBreakdown(set, now)
	second := e.DeviceBreakdown(set, now.Add(48*time.Hour))

	require.Len(t, first, 2)
	for i := range first {
		assert.Contains(t, palette, first[i].Color)
		assert.Equal(t, first[i].Color, second[i].Color, "color must be stable per device identity")
	}
}

func TestMonthToDate(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	set := []model.Appliance{
		appliance("old", 1000, 1, now.AddDate(0, -3, 0)), // capped at 15 days
		appliance("new", 1000, 2, now.AddDate(0, 0, -4)), // 4 days
	}

	assert.Equal(t, 23.0, e.MonthToDate(set, now))
}

func sample(ts time.Time, units float64) model.UsageSample {
	return model.UsageSample{
		Timestamp:     ts,
		UnitsConsumed: units,
		Cost:          units * tariff,
	}
}

func TestAggregateSamplesPeakHours(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 23, 0, 0, 0, time.UTC)
	day := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	samples := []model.UsageSample{
		sample(day.Add(1*time.Hour), 0.5),
		sample(day.Add(8*time.Hour), 5.0),
		sample(day.Add(10*time.Hour), 2.0),
	}

	got := e.AggregateSamples(samples, model.PeriodToday, now)

	assert.Equal(t, 8, got.PeakHour)
	// Off-peak only considers hours with positive usage, not the empty ones.
	assert.Equal(t, 1, got.OffPeakHour)
	assert.Equal(t, 7.5, got.TotalUnits)
	assert.Equal(t, 60.0, got.TotalCost)
	assert.Equal(t, 7.5, got.AvgDaily)
}

func TestAggregateSamplesPeriodFilter(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	samples := []model.UsageSample{
		sample(now.Add(-8*24*time.Hour), 100), // outside the week window
		sample(now.Add(-2*24*time.Hour), 3),
		sample(now.Add(-1*time.Hour), 4),
	}

	got := e.AggregateSamples(samples, model.PeriodWeek, now)

	assert.Equal(t, 7.0, got.TotalUnits)
	assert.Equal(t, 1.0, got.AvgDaily)
}

func TestAggregateSamplesEmpty(t *testing.T) {
	e := New(tariff)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	got := e.AggregateSamples(nil, model.PeriodMonth, now)

	assert.Zero(t, got.TotalUnits)
	assert.Zero(t, got.TotalCost)
	assert.Zero(t, got.AvgDaily)
	assert.Zero(t, got.PeakHour)
	assert.Zero(t, got.OffPeakHour)
}
