package insights

import (
	"time"

	"github.com/wattwise/usage-engine/internal/model"
)

// Notifications generates the templated notification feed with timestamps
// relative to now.
func Notifications(now time.Time) []model.Notification {
	return []model.Notification{
		{
			ID:        "notif-1",
			Type:      model.NotifInsight,
			Title:     "New Insight Available",
			Message:   "AC usage spike detected during evening hours",
			CreatedAt: now.Add(-2 * time.Hour),
			Link:      "/dashboard",
		},
		{
			ID:        "notif-2",
			Type:      model.NotifPayment,
			Title:     "Payment Successful",
			Message:   "Your last bill of ₹2,410 has been paid successfully",
			CreatedAt: now.Add(-5 * 24 * time.Hour),
			Link:      "/payments",
		},
		{
			ID:        "notif-3",
			Type:      model.NotifAchievement,
			Title:     "7-Day Streak Achieved!",
			Message:   "You've saved energy for 7 consecutive days",
			Read:      true,
			CreatedAt: now.Add(-12 * time.Hour),
		},
		{
			ID:        "notif-4",
			Type:      model.NotifAlert,
			Title:     "Budget Alert",
			Message:   "You've used 85% of your monthly budget",
			Read:      true,
			CreatedAt: now.Add(-2 * 24 * time.Hour),
			Link:      "/settings",
		},
	}
}
