package main

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/wattwise/usage-engine/db"
	"github.com/wattwise/usage-engine/internal/aggregation"
	"github.com/wattwise/usage-engine/internal/api"
	"github.com/wattwise/usage-engine/internal/appliance"
	"github.com/wattwise/usage-engine/internal/carbon"
	"github.com/wattwise/usage-engine/internal/config"
	"github.com/wattwise/usage-engine/internal/forecast"
	"github.com/wattwise/usage-engine/internal/history"
	"github.com/wattwise/usage-engine/internal/insights"
	"github.com/wattwise/usage-engine/internal/logging"
	"github.com/wattwise/usage-engine/internal/metrics"
	"github.com/wattwise/usage-engine/internal/notifications"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFile)

	log.Info().
		Str("db_file", cfg.DBFile).
		Int("port", cfg.Port).
		Msg("Starting wattwise usage engine")

	metrics.Init(cfg.DDAgentAddr, cfg.DDNamespace, cfg.DDTags, cfg.EnableDatadog)
	notifications.Init(cfg.NtfyTopic)

	sqlite, err := db.Open(cfg.DBFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer sqlite.Close()

	store := appliance.NewStore(sqlite)
	engine := aggregation.New(cfg.CostPerKWh)
	generator := history.New(cfg.CostPerKWh, cfg.RegionCode)
	catalog := insights.NewCatalog(time.Now())
	estimator := forecast.New(cfg.CostPerKWh, cfg.Trend.PreviousMonthFactor, cfg.Trend.ConfidenceBand, cfg.Trend.Accuracy)
	footprint := carbon.New(cfg.CarbonKgPerKWh, cfg.KgCO2PerTree, cfg.CarComparisonDivisor)

	log.Info().
		Int("appliances", len(store.Snapshot())).
		Bool("onboarded", store.HasCompletedOnboarding()).
		Msg("Loaded appliance state")

	scheduler := cron.New()
	budgetAlerted := false
	_, err = scheduler.AddFunc("@hourly", func() {
		now := time.Now()
		snapshot := store.Snapshot()

		units := engine.MonthToDate(snapshot, now)
		cost := units * cfg.CostPerKWh

		metrics.Gauge("usage.month_to_date.units", units)
		metrics.Gauge("usage.month_to_date.cost", cost)
		metrics.Gauge("appliances.count", float64(len(snapshot)))

		// One alert per month, reset when a new month starts.
		if now.Day() == 1 {
			budgetAlerted = false
		}
		if !budgetAlerted && cfg.MonthlyBudget > 0 && cost >= 0.85*cfg.MonthlyBudget {
			budgetAlerted = true
			if err := notifications.Send("Budget Alert", "You've used 85% of your monthly electricity budget"); err != nil {
				log.Warn().Err(err).Msg("Failed to send budget alert")
			}
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule usage metrics job")
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := api.NewServer(&cfg, store, engine, generator, catalog, estimator, footprint)
	if err := server.Run(cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("HTTP server exited")
	}
}
