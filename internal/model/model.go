package model

import "time"

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Appliance is a tracked household device with a power draw and a usage
// schedule. Owned by the appliance store; everything else consumes snapshots.
type Appliance struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PowerWatts   float64   `json:"power_watts"`
	HoursPerDay  float64   `json:"hours_per_day"`
	DaysPerMonth float64   `json:"days_per_month"`
	CreatedAt    time.Time `json:"created_at"`
}

// AggregatedUsage is derived on each request, never stored.
type AggregatedUsage struct {
	Period      Period  `json:"period"`
	TotalUnits  float64 `json:"total_units"`
	TotalCost   float64 `json:"total_cost"`
	AvgDaily    float64 `json:"avg_daily"`
	PeakHour    int     `json:"peak_hour"`
	OffPeakHour int     `json:"off_peak_hour"`
}

type DeviceUsage struct {
	DeviceID       string  `json:"device_id"`
	DeviceName     string  `json:"device_name"`
	DeviceType     string  `json:"device_type"`
	Percentage     float64 `json:"percentage"`
	Units          float64 `json:"units"`
	ProjectedUnits float64 `json:"projected_units"`
	Cost           float64 `json:"cost"`
	ProjectedCost  float64 `json:"projected_cost"`
	DailyKWh       float64 `json:"daily_kwh"`
	DaysActive     int     `json:"days_active"`
	Color          string  `json:"color"`
}

// UsageSample is one synthetic hourly history record. Immutable once
// generated; sequences are ordered oldest first.
type UsageSample struct {
	Timestamp     time.Time `json:"timestamp"`
	UnitsConsumed float64   `json:"units_consumed"`
	DeviceID      string    `json:"device_id"`
	Temperature   float64   `json:"temperature"`
	RegionCode    string    `json:"region_code"`
	Cost          float64   `json:"cost"`
}

type InsightType string

const (
	InsightWarning     InsightType = "warning"
	InsightTip         InsightType = "tip"
	InsightAchievement InsightType = "achievement"
	InsightAnomaly     InsightType = "anomaly"
)

type InsightPriority string

const (
	PriorityLow    InsightPriority = "low"
	PriorityMedium InsightPriority = "medium"
	PriorityHigh   InsightPriority = "high"
)

type InsightCategory string

const (
	CategoryUsage      InsightCategory = "usage"
	CategoryStreak     InsightCategory = "streak"
	CategorySchedule   InsightCategory = "schedule"
	CategoryEfficiency InsightCategory = "efficiency"
)

// Insight is a templated advisory message. Only Read is mutable after
// generation. Category and Pinned drive display filtering; consumers must not
// match on title text.
type Insight struct {
	ID         string          `json:"id"`
	Type       InsightType     `json:"type"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Priority   InsightPriority `json:"priority"`
	Category   InsightCategory `json:"category"`
	Pinned     bool            `json:"pinned"`
	Actionable bool            `json:"actionable"`
	Action     string          `json:"action,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Read       bool            `json:"read"`
}

type NotificationType string

const (
	NotifInsight     NotificationType = "insight"
	NotifPayment     NotificationType = "payment"
	NotifAchievement NotificationType = "achievement"
	NotifAlert       NotificationType = "alert"
)

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
	Link      string           `json:"link,omitempty"`
}

type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type Prediction struct {
	PredictedUnits     float64            `json:"predicted_units"`
	PredictedCost      float64            `json:"predicted_cost"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	Accuracy           float64            `json:"accuracy"`
	GeneratedAt        time.Time          `json:"generated_at"`
}

type CarbonFootprint struct {
	CO2Kg           float64 `json:"co2_kg"`
	TreesEquivalent float64 `json:"trees_equivalent"`
	ComparisonText  string  `json:"comparison_text"`
}

type SavingStreak struct {
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	GoalProgress  float64 `json:"goal_progress"`
	TargetUnits   float64 `json:"target_units"`
	ActualUnits   float64 `json:"actual_units"`
}

func ValidPeriod(p Period) bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	default:
		return false
	}
}
