package streak

import (
	"math"
	"sort"
	"time"

	"github.com/wattwise/usage-engine/internal/model"
)

// Compute derives the saving streak from daily usage totals. A day counts
// toward a streak when its total stays under the daily share of the monthly
// target. The current streak is the run of qualifying days ending yesterday;
// today is excluded because it is still accumulating.
func Compute(samples []model.UsageSample, monthlyTargetUnits float64, now time.Time) model.SavingStreak {
	monthDays := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	dailyTarget := monthlyTargetUnits / float64(monthDays)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	dailyTotals := map[time.Time]float64{}
	var actual float64
	for _, s := range samples {
		day := time.Date(s.Timestamp.Year(), s.Timestamp.Month(), s.Timestamp.Day(), 0, 0, 0, 0, now.Location())
		dailyTotals[day] += s.UnitsConsumed
		if !s.Timestamp.Before(monthStart) && s.Timestamp.Before(now) {
			actual += s.UnitsConsumed
		}
	}

	var days []time.Time
	for d := range dailyTotals {
		if d.Before(today) {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	current := 0
	for i := len(days) - 1; i >= 0; i-- {
		// The current streak must end yesterday and be contiguous.
		expected := today.AddDate(0, 0, -(current + 1))
		if !days[i].Equal(expected) || dailyTotals[days[i]] >= dailyTarget {
			break
		}
		current++
	}

	longest, run := 0, 0
	for i, d := range days {
		if dailyTotals[d] < dailyTarget && (i == 0 || days[i-1].Equal(d.AddDate(0, 0, -1))) {
			run++
		} else if dailyTotals[d] < dailyTarget {
			run = 1
		} else {
			run = 0
		}
		if run > longest {
			longest = run
		}
	}

	progress := 0.0
	if monthlyTargetUnits > 0 {
		progress = math.Min(100, actual/monthlyTargetUnits*100)
	}

	return model.SavingStreak{
		CurrentStreak: current,
		LongestStreak: longest,
		GoalProgress:  round2(progress),
		TargetUnits:   round2(monthlyTargetUnits),
		ActualUnits:   round2(actual),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
