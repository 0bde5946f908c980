package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wattwise/usage-engine/internal/model"
)

// daySample places the whole day's usage in a single noon sample.
func daySample(day time.Time, units float64) model.UsageSample {
	return model.UsageSample{
		Timestamp:     day.Add(12 * time.Hour),
		UnitsConsumed: units,
	}
}

func TestComputeCurrentStreak(t *testing.T) {
	// June 2025 has 30 days; a 300-unit monthly target means 10 units/day.
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
	day := func(d int) time.Time {
		return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
	}

	var samples []model.UsageSample
	// June 7 blows the target; June 8-14 stay under it.
	samples = append(samples, daySample(day(7), 20))
	for d := 8; d <= 14; d++ {
		samples = append(samples, daySample(day(d), 5))
	}

	got := Compute(samples, 300, now)

	assert.Equal(t, 7, got.CurrentStreak)
	assert.Equal(t, 7, got.LongestStreak)
}

func TestComputeStreakBrokenYesterday(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
	day := func(d int) time.Time {
		return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
	}

	samples := []model.UsageSample{
		daySample(day(12), 5),
		daySample(day(13), 5),
		daySample(day(14), 20), // yesterday over target
	}

	got := Compute(samples, 300, now)

	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
}

func TestComputeLongestStreakExceedsCurrent(t *testing.T) {
	now := time.Date(2025, time.June, 20, 9, 0, 0, 0, time.UTC)
	day := func(d int) time.Time {
		return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
	}

	var samples []model.UsageSample
	// Five-day run early in the month, broken, then two days ending yesterday.
	for d := 5; d <= 9; d++ {
		samples = append(samples, daySample(day(d), 3))
	}
	samples = append(samples, daySample(day(10), 50))
	samples = append(samples, daySample(day(18), 3))
	samples = append(samples, daySample(day(19), 3))

	got := Compute(samples, 300, now)

	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 5, got.LongestStreak)
}

func TestComputeGoalProgress(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

	samples := []model.UsageSample{
		daySample(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), 100),
		daySample(time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC), 95),
		// Previous month does not count toward this month's goal.
		daySample(time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), 500),
	}

	got := Compute(samples, 250, now)

	assert.Equal(t, 195.0, got.ActualUnits)
	assert.Equal(t, 250.0, got.TargetUnits)
	assert.Equal(t, 78.0, got.GoalProgress)
}

func TestComputeGoalProgressCapped(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

	samples := []model.UsageSample{
		daySample(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), 900),
	}

	got := Compute(samples, 250, now)

	assert.Equal(t, 100.0, got.GoalProgress)
}

func TestComputeEmptyHistory(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

	got := Compute(nil, 250, now)

	assert.Zero(t, got.CurrentStreak)
	assert.Zero(t, got.LongestStreak)
	assert.Zero(t, got.ActualUnits)
	assert.Zero(t, got.GoalProgress)
}
